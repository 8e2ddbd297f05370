package domain

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cablesur/crm-backend/internal/config"
	"github.com/cablesur/crm-backend/pkg/retry"
)

// NotificationService owns the notification lifecycle: identifier
// assignment, the broadcast retention cap, write retries, read-state
// transitions and age-based pruning.
//
// Every public method is fail-open: internal errors are logged and
// degraded to false or an empty slice. The feed must never take down
// the request that rendered it, so callers only ever see booleans and
// slices. Loss of distinction between "empty" and "failed" is accepted.
type NotificationService struct {
	store        NotificationStore
	types        map[string]config.NotificationType
	retry        retry.Policy
	logger       *zap.Logger
	loc          *time.Location
	now          func() time.Time
	maxBroadcast int
	defaultLimit int
	retention    int
}

// NewNotificationService creates the service. One instance is built per
// store connection and passed explicitly to every producer.
func NewNotificationService(store NotificationStore, cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone))
		loc = time.UTC
	}

	return &NotificationService{
		store: store,
		types: config.NotificationTypes,
		retry: retry.Policy{
			MaxAttempts: cfg.MaxRetries,
			Backoff:     retry.Exponential(cfg.RetryBackoff),
		},
		logger:       logger,
		loc:          loc,
		now:          time.Now,
		maxBroadcast: cfg.MaxBroadcast,
		defaultLimit: cfg.MaxPerUser,
		retention:    cfg.RetentionDays,
	}
}

// AddParams describes a notification to create. An empty TargetUser
// means broadcast.
type AddParams struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	TargetUser string `json:"target_user"`
	ClaimID    string `json:"claim_id"`
	Action     string `json:"action"`
}

// Add creates a notification. It reports false on unknown type or when
// the append (after retries) failed. When the broadcast cap is hit, the
// oldest broadcast is evicted first; the eviction is not rolled back if
// the append then fails.
func (s *NotificationService) Add(ctx context.Context, p AddParams) bool {
	target := p.TargetUser
	if target == "" {
		target = BroadcastTarget
	}

	info, ok := s.types[p.Type]
	if !ok {
		s.logger.Error("unknown notification type", zap.String("type", p.Type))
		return false
	}

	stored, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load notifications", zap.Error(err))
		return false
	}

	if target == BroadcastTarget {
		s.evictOldestBroadcast(ctx, stored)
	}

	n := Notification{
		ID:         NextID(stored),
		Type:       p.Type,
		Priority:   info.Priority,
		Message:    p.Message,
		TargetUser: target,
		ClaimID:    p.ClaimID,
		CreatedAt:  s.now().In(s.loc),
		Read:       false,
		Action:     p.Action,
		Icon:       info.Icon,
		Color:      info.Color,
	}

	err = s.retry.Do(ctx, func() error {
		return s.store.Append(ctx, n)
	})
	if err != nil {
		s.logger.Error("failed to append notification",
			zap.Int("id", n.ID),
			zap.String("target", target),
			zap.Error(err),
		)
		return false
	}

	s.logger.Info("notification added",
		zap.Int("id", n.ID),
		zap.String("type", n.Type),
		zap.String("target", target),
	)
	return true
}

// evictOldestBroadcast keeps the number of live broadcasts under the
// cap by deleting the one with the oldest parseable timestamp. When
// every broadcast timestamp is unknown there is no defensible victim
// and eviction is skipped. Failures are logged and swallowed: the add
// proceeds regardless.
func (s *NotificationService) evictOldestBroadcast(ctx context.Context, stored []StoredNotification) {
	var broadcasts []StoredNotification
	for _, n := range stored {
		if n.IsBroadcast() {
			broadcasts = append(broadcasts, n)
		}
	}
	if len(broadcasts) < s.maxBroadcast {
		return
	}

	oldest := -1
	for i, n := range broadcasts {
		if !n.HasTimestamp() {
			continue
		}
		if oldest == -1 || n.CreatedAt.Before(broadcasts[oldest].CreatedAt) {
			oldest = i
		}
	}
	if oldest == -1 {
		s.logger.Warn("broadcast cap reached but no timestamp is parseable, skipping eviction")
		return
	}

	victim := broadcasts[oldest]
	if err := s.store.DeleteRows(ctx, []int{victim.Row}); err != nil {
		s.logger.Error("failed to evict oldest broadcast",
			zap.Int("id", victim.ID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("evicted oldest broadcast notification", zap.Int("id", victim.ID))
}

// GetForUser returns the notifications visible to username, most recent
// first, bounded to limit (the configured default when limit <= 0).
// Notifications with unknown timestamps sort after all dated ones. On
// any internal failure the result is an empty slice.
func (s *NotificationService) GetForUser(ctx context.Context, username string, unreadOnly bool, limit int) []Notification {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	stored, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load notifications",
			zap.String("username", username),
			zap.Error(err),
		)
		return []Notification{}
	}

	matched := make([]Notification, 0, len(stored))
	for _, n := range stored {
		if !n.VisibleTo(username) {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		matched = append(matched, n.Notification)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch {
		case !a.HasTimestamp():
			return false
		case !b.HasTimestamp():
			return true
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// UnreadCount returns how many unread notifications username has. The
// count is not bounded by the feed limit.
func (s *NotificationService) UnreadCount(ctx context.Context, username string) int {
	return len(s.GetForUser(ctx, username, true, math.MaxInt))
}

// MarkAsRead flips the given notifications to read in one batch write.
// Non-positive ids are dropped up front. It reports false when nothing
// valid remains, when no stored row matched, or when the batch failed —
// zero matches is "nothing to do", not success. Read transitions only
// go one way, so repeating a call is harmless.
func (s *NotificationService) MarkAsRead(ctx context.Context, ids []int) bool {
	valid := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id > 0 {
			valid[id] = true
		}
	}
	if len(valid) == 0 {
		return false
	}

	stored, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load notifications", zap.Error(err))
		return false
	}

	var rows []int
	for _, n := range stored {
		if valid[n.ID] {
			rows = append(rows, n.Row)
		}
	}
	if len(rows) == 0 {
		return false
	}

	if err := s.store.MarkRead(ctx, rows); err != nil {
		s.logger.Error("failed to mark notifications read", zap.Error(err))
		return false
	}

	s.logger.Info("notifications marked read", zap.Int("count", len(rows)))
	return true
}

// ClearOld prunes notifications whose timestamp is strictly older than
// days (the configured retention when days <= 0). Unknown timestamps
// are never pruned by age. Deletions are issued highest row first so
// shifting positions cannot invalidate the batch. True means nothing to
// delete or deletion succeeded.
func (s *NotificationService) ClearOld(ctx context.Context, days int) bool {
	if days <= 0 {
		days = s.retention
	}
	cutoff := s.now().In(s.loc).AddDate(0, 0, -days)

	stored, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load notifications", zap.Error(err))
		return false
	}

	var rows []int
	for _, n := range stored {
		if n.HasTimestamp() && n.CreatedAt.Before(cutoff) {
			rows = append(rows, n.Row)
		}
	}
	if len(rows) == 0 {
		return true
	}

	sort.Sort(sort.Reverse(sort.IntSlice(rows)))
	if err := s.store.DeleteRows(ctx, rows); err != nil {
		s.logger.Error("failed to clear old notifications", zap.Error(err))
		return false
	}

	s.logger.Info("cleared old notifications", zap.Int("count", len(rows)))
	return true
}

// DeleteByID removes one notification, resolving its current row at the
// moment of the delete. False when the id is not on record or the
// delete failed.
func (s *NotificationService) DeleteByID(ctx context.Context, id int) bool {
	stored, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load notifications", zap.Error(err))
		return false
	}

	for _, n := range stored {
		if n.ID == id {
			if err := s.store.DeleteRows(ctx, []int{n.Row}); err != nil {
				s.logger.Error("failed to delete notification", zap.Int("id", id), zap.Error(err))
				return false
			}
			return true
		}
	}
	return false
}

// StartCleanupWorker prunes old notifications on a fixed interval until
// ctx is cancelled.
func (s *NotificationService) StartCleanupWorker(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ClearOld(ctx, 0)
			}
		}
	}()
}
