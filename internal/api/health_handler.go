package api

import (
	"net/http"
	"time"

	"github.com/cablesur/crm-backend/internal/sheets"
	"github.com/cablesur/crm-backend/pkg/response"
)

// StatsProvider reports spreadsheet API usage for the stats endpoint.
type StatsProvider interface {
	Stats() sheets.Stats
}

type HealthHandler struct {
	stats   StatsProvider
	started time.Time
}

func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{stats: stats, started: time.Now()}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(h.started).String(),
	})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ready"})
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "alive"})
}

// Stats exposes spreadsheet call counters so operators can watch
// quota consumption.
func (h *HealthHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s := h.stats.Stats()
	response.OK(w, map[string]interface{}{
		"sheets_calls":  s.TotalCalls,
		"sheets_errors": s.ErrorCount,
		"last_call":     s.LastCall,
	})
}
