// Package notify implements Bloom's local notification center.
// Policy first: a hard daily cap and quiet hours, because a wellness app
// that nags defeats itself. Suppression is silent — callers get an empty
// delivery ID, never an error.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bloom-wellness/bloom/internal/domain"
	"github.com/bloom-wellness/bloom/internal/infra/metrics"
	"github.com/bloom-wellness/bloom/internal/infra/sqlite"
)

const permissionKey = "notify_permission"

// Center is the notification dispatcher backed by the local database.
// Permission is asked once and remembered across restarts.
type Center struct {
	db      *sqlite.DB
	policy  domain.NotificationPolicy
	enabled bool

	mu  sync.Mutex
	now func() time.Time
}

var _ domain.NotificationDispatcher = (*Center)(nil)

// NewCenter creates a notification center with the default policy.
func NewCenter(db *sqlite.DB, enabled bool) *Center {
	return NewCenterWithPolicy(db, enabled, domain.DefaultNotificationPolicy())
}

// NewCenterWithPolicy creates a notification center with a custom policy.
func NewCenterWithPolicy(db *sqlite.DB, enabled bool, policy domain.NotificationPolicy) *Center {
	return &Center{db: db, policy: policy, enabled: enabled, now: time.Now}
}

// Policy returns the active notification policy.
func (c *Center) Policy() domain.NotificationPolicy {
	return c.policy
}

// ─── Permission ─────────────────────────────────────────────────────────────

// RequestPermission reports whether notifications may be delivered.
// The stored answer wins; absent any stored answer, the config default is
// persisted and returned. Callers flip it later with SetPermission.
func (c *Center) RequestPermission(ctx context.Context) (bool, error) {
	if !c.enabled {
		return false, nil
	}

	v, err := c.db.GetString(ctx, permissionKey)
	if err != nil {
		return false, fmt.Errorf("read permission: %w", err)
	}
	switch v {
	case "granted":
		return true, nil
	case "denied":
		return false, nil
	}

	// First ask: persist the default so the answer is stable.
	if err := c.db.SetString(ctx, permissionKey, "granted"); err != nil {
		return false, fmt.Errorf("persist permission: %w", err)
	}
	return true, nil
}

// SetPermission records an explicit grant or denial.
func (c *Center) SetPermission(ctx context.Context, granted bool) error {
	v := "denied"
	if granted {
		v = "granted"
	}
	return c.db.SetString(ctx, permissionKey, v)
}

// ─── Delivery ───────────────────────────────────────────────────────────────

// SendImmediate delivers a notification now, if policy allows it.
// Returns the delivery ID, or "" when the policy suppressed it. The daily
// cap and quiet hours are checked under a lock so concurrent unlocks
// cannot race past the cap.
func (c *Center) SendImmediate(ctx context.Context, title, body string, metadata map[string]string) (string, error) {
	if !c.enabled {
		metrics.NotificationsSuppressed.WithLabelValues("disabled").Inc()
		return "", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if c.isQuietHour(now) {
		metrics.NotificationsSuppressed.WithLabelValues("quiet_hours").Inc()
		return "", nil
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := c.db.NotificationCountSince(ctx, startOfDay)
	if err != nil {
		return "", fmt.Errorf("count today: %w", err)
	}
	if count >= c.policy.MaxPerDay {
		metrics.NotificationsSuppressed.WithLabelValues("daily_cap").Inc()
		return "", nil
	}

	deliveryID := uuid.NewString()
	if _, err := c.db.InsertNotification(ctx, domain.Notification{
		DeliveryID: deliveryID,
		Title:      title,
		Body:       body,
		Metadata:   metadata,
		CreatedAt:  now,
	}); err != nil {
		return "", fmt.Errorf("insert notification: %w", err)
	}
	return deliveryID, nil
}

// Pending returns unshown notifications, newest first.
func (c *Center) Pending(ctx context.Context, limit int) ([]domain.Notification, error) {
	return c.db.ListPendingNotifications(ctx, limit)
}

// MarkShown marks a notification as shown.
func (c *Center) MarkShown(ctx context.Context, id int64) error {
	return c.db.MarkNotificationShown(ctx, id)
}

// ─── Policy Checks ──────────────────────────────────────────────────────────

// isQuietHour returns true if the given time falls within quiet hours.
func (c *Center) isQuietHour(t time.Time) bool {
	startHour, startMin := parseHHMM(c.policy.QuietStart)
	endHour, endMin := parseHHMM(c.policy.QuietEnd)

	timeMinutes := t.Hour()*60 + t.Minute()
	startMinutes := startHour*60 + startMin
	endMinutes := endHour*60 + endMin

	if startMinutes > endMinutes {
		// Wraps midnight: e.g., 22:00 – 08:00
		return timeMinutes >= startMinutes || timeMinutes < endMinutes
	}
	return timeMinutes >= startMinutes && timeMinutes < endMinutes
}

// parseHHMM parses "HH:MM" into hour and minute.
func parseHHMM(s string) (int, int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h, m
}
