package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/bloom-wellness/bloom/internal/domain"
)

// ─── Notification Log ───────────────────────────────────────────────────────

// InsertNotification appends a delivered notification to the log.
// Metadata is stored as a JSON object.
func (d *DB) InsertNotification(ctx context.Context, n domain.Notification) (int64, error) {
	meta := n.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return 0, err
	}

	result, err := d.db.ExecContext(ctx,
		`INSERT INTO notifications (delivery_id, title, body, metadata, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.DeliveryID, n.Title, n.Body, string(raw), n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// NotificationCountSince returns how many notifications were logged at or
// after the given time. The notify policy uses it for the daily cap.
func (d *DB) NotificationCountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE created_at >= ?`, since.Unix(),
	).Scan(&count)
	return count, err
}

// ListPendingNotifications returns unshown notifications, newest first.
func (d *DB) ListPendingNotifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, delivery_id, title, body, metadata, created_at, shown
		 FROM notifications WHERE shown = 0 ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifs = append(notifs, *n)
	}
	return notifs, rows.Err()
}

// MarkNotificationShown marks a notification as shown.
func (d *DB) MarkNotificationShown(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE notifications SET shown = 1 WHERE id = ?`, id,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// ─── Scanners ───────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(s scanner) (*domain.Notification, error) {
	var n domain.Notification
	var raw string
	var createdAt int64

	err := s.Scan(&n.ID, &n.DeliveryID, &n.Title, &n.Body, &raw, &createdAt, &n.Shown)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	n.CreatedAt = time.Unix(createdAt, 0)
	if err := json.Unmarshal([]byte(raw), &n.Metadata); err != nil {
		n.Metadata = nil // Tolerate a mangled metadata blob; the log entry still stands.
	}
	return &n, nil
}
