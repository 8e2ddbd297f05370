package domain

import (
	"context"
	"time"
)

// BroadcastTarget addresses a notification to every user.
const BroadcastTarget = "all"

// Notification is one unit of user-facing event information persisted in
// the notification worksheet.
type Notification struct {
	ID         int       `json:"id"`
	Type       string    `json:"type"`
	Priority   string    `json:"priority"`
	Message    string    `json:"message"`
	TargetUser string    `json:"target_user"`
	ClaimID    string    `json:"claim_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Read       bool      `json:"read"`
	Action     string    `json:"action,omitempty"`
	Icon       string    `json:"icon,omitempty"`
	Color      string    `json:"color,omitempty"`
}

// HasTimestamp reports whether the stored timestamp could be parsed. A
// zero CreatedAt means "unknown": such notifications sort last and are
// never considered for age-based pruning or broadcast eviction.
func (n Notification) HasTimestamp() bool {
	return !n.CreatedAt.IsZero()
}

// IsBroadcast reports whether the notification is visible to every user.
func (n Notification) IsBroadcast() bool {
	return n.TargetUser == BroadcastTarget
}

// VisibleTo reports whether username sees this notification.
func (n Notification) VisibleTo(username string) bool {
	return n.TargetUser == username || n.IsBroadcast()
}

// StoredNotification pairs a notification with its current 0-based grid
// row in the worksheet (header is row 0). The row is transient
// addressing for updates and deletes, never an identifier: inserts and
// deletes shift it. ID is the only stable key.
type StoredNotification struct {
	Notification
	Row int
}

// NotificationStore is the repository boundary the notification manager
// talks through. Implementations map records to worksheet rows.
type NotificationStore interface {
	// Load returns every stored notification with normalized fields.
	// An empty worksheet yields an empty slice, not an error.
	Load(ctx context.Context) ([]StoredNotification, error)
	// Append persists one new notification after the last row.
	Append(ctx context.Context, n Notification) error
	// MarkRead flips the read flag of the given grid rows in one batch.
	MarkRead(ctx context.Context, rows []int) error
	// DeleteRows removes the given grid rows, highest position first.
	DeleteRows(ctx context.Context, rows []int) error
}

// NextID assigns the identifier for a new notification: one more than
// the highest valid id on record, starting at 1. Records whose stored
// id could not be parsed as a number are skipped, not treated as errors.
func NextID(list []StoredNotification) int {
	max := 0
	for _, n := range list {
		if n.ID > max {
			max = n.ID
		}
	}
	return max + 1
}
