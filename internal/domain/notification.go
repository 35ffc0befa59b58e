package domain

import "time"

// ─── Notification Types ─────────────────────────────────────────────────────

// Notification is a user-facing alert queued by the notification center.
type Notification struct {
	ID         int64             `json:"id"`
	DeliveryID string            `json:"delivery_id"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	Shown      bool              `json:"shown"`
}

// NotificationPolicy governs when the center suppresses delivery.
// Achievement unlocks are best-effort: a suppressed notification is not an
// error, the badge is still earned.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day"`
	QuietStart string `json:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end"`   // "08:00"
}

// DefaultNotificationPolicy allows a few celebrations per day and stays
// silent overnight.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  3,
		QuietStart: "22:00",
		QuietEnd:   "08:00",
	}
}
