package domain

import "context"

// ─── Collaborator Interfaces ────────────────────────────────────────────────
// These interfaces bound the achievement engine. Infrastructure implements
// them; the application layer depends on them. Both collaborators are
// best-effort from the engine's perspective — their failures are contained
// at the boundary and never surfaced to the caller of an engine operation.

// KeyValueStore abstracts durable string storage keyed by name.
// Implemented by infra/sqlite.DB.
type KeyValueStore interface {
	// GetString returns the stored value, or "" if the key is absent.
	GetString(ctx context.Context, key string) (string, error)

	// SetString durably writes a value under the key.
	SetString(ctx context.Context, key, value string) error

	// DeleteKey removes a key. Deleting an absent key is not an error.
	DeleteKey(ctx context.Context, key string) error
}

// NotificationDispatcher abstracts best-effort, permission-gated delivery
// of a user-visible alert. Implemented by infra/notify.Center.
type NotificationDispatcher interface {
	// RequestPermission reports whether notifications may be delivered,
	// prompting the user if permission was never decided.
	RequestPermission(ctx context.Context) (bool, error)

	// SendImmediate attempts immediate delivery and returns a delivery ID,
	// or "" if the notification was suppressed by policy.
	SendImmediate(ctx context.Context, title, body string, metadata map[string]string) (string, error)
}
