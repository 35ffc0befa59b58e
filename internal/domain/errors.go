package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Notification errors
	ErrNotificationsDisabled = errors.New("notifications disabled by configuration")
	ErrNotificationNotFound  = errors.New("notification not found")

	// Signal errors (API boundary validation — the engine itself never
	// rejects a signal)
	ErrEmptySignalType = errors.New("activity signal requires a type")
)
