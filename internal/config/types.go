package config

// Notification priorities, assigned per type at creation time.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// NotificationType carries the display defaults for one kind of event.
type NotificationType struct {
	Priority string
	Icon     string
	Color    string
}

// NotificationTypes is the fixed table of event kinds the feed accepts.
// Adding a type here is the only change needed to emit it.
var NotificationTypes = map[string]NotificationType{
	"unassigned_claim": {Priority: PriorityHigh, Icon: "⏱️", Color: "#FF6B6B"},
	"status_change":    {Priority: PriorityMedium, Icon: "🔄", Color: "#4ECDC4"},
	"duplicate_claim":  {Priority: PriorityHigh, Icon: "⚠️", Color: "#FFE66D"},
	"new_assignment":   {Priority: PriorityMedium, Icon: "📌", Color: "#45B7D1"},
	"client_update":    {Priority: PriorityLow, Icon: "✏️", Color: "#96CEB4"},
	"daily_reminder":   {Priority: PriorityLow, Icon: "📅", Color: "#FECA57"},
	"nuevo_reclamo":    {Priority: PriorityMedium, Icon: "🆕", Color: "#54A0FF"},
	"reclamo_asignado": {Priority: PriorityMedium, Icon: "👷", Color: "#5F27CD"},
	"trabajo_asignado": {Priority: PriorityMedium, Icon: "🛠️", Color: "#FF9FF3"},
	"cierre_exitoso":   {Priority: PriorityMedium, Icon: "✅", Color: "#10AC84"},
	"alerta_urgente":   {Priority: PriorityCritical, Icon: "🚨", Color: "#EE5A24"},
}
