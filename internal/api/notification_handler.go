package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/cablesur/crm-backend/internal/domain"
	"github.com/cablesur/crm-backend/internal/middleware"
	"github.com/cablesur/crm-backend/pkg/response"
)

// feedCacheSize bounds distinct (user, filter) feed views held at once.
const feedCacheSize = 256

// NotificationHandler serves the notification feed. List responses are
// cached for a short TTL because the front end polls on every render;
// any successful write purges the cache so the next poll is fresh.
type NotificationHandler struct {
	service *domain.NotificationService
	cache   *lru.LRU[string, []domain.Notification]
	logger  *zap.Logger
}

func NewNotificationHandler(service *domain.NotificationService, cacheTTL time.Duration, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		cache:   lru.NewLRU[string, []domain.Notification](feedCacheSize, nil, cacheTTL),
		logger:  logger,
	}
}

// List returns the caller's notification feed, unread only by default.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") != "false"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	key := fmt.Sprintf("%s|%t|%d", username, unreadOnly, limit)
	notifs, cached := h.cache.Get(key)
	if !cached {
		notifs = h.service.GetForUser(r.Context(), username, unreadOnly, limit)
		h.cache.Add(key, notifs)
	}

	response.OK(w, map[string]interface{}{
		"notifications": notifs,
		"count":         len(notifs),
	})
}

// UnreadCount returns the badge number for the notification bell.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	response.OK(w, map[string]int{
		"unread": h.service.UnreadCount(r.Context(), username),
	})
}

// Create makes a new notification from an operator-supplied payload.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params domain.AddParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !h.service.Add(r.Context(), params) {
		response.BadRequest(w, "notification rejected")
		return
	}

	h.cache.Purge()
	response.Created(w, map[string]string{"status": "created"})
}

// MarkRead flips the given notification ids to read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !h.service.MarkAsRead(r.Context(), req.IDs) {
		response.BadRequest(w, "no matching notifications")
		return
	}

	h.cache.Purge()
	response.OK(w, map[string]string{"status": "success"})
}

// Delete removes a notification by its stable id.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid notification id")
		return
	}

	if !h.service.DeleteByID(r.Context(), id) {
		response.NotFound(w, "notification not found")
		return
	}

	h.cache.Purge()
	response.OK(w, map[string]string{"status": "deleted"})
}

// Cleanup prunes notifications older than the retention window. Admin
// only; the scheduled worker does the same on an interval.
func (h *NotificationHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	if !h.service.ClearOld(r.Context(), days) {
		response.InternalError(w, "cleanup failed")
		return
	}

	h.cache.Purge()
	response.OK(w, map[string]string{"status": "success"})
}
