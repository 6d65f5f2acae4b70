// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"meewadmin/internal/models"
)

// NotificationStore manages push notifications in the database.
type NotificationStore struct {
	db *sql.DB
}

// NewNotificationStore returns a new NotificationStore.
func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationColumns = `id, title, body, audience, deep_link, status, scheduled_at,
	sent_at, recipient_count, last_error, created_at, updated_at`

func scanNotification(scanner interface{ Scan(...any) error }) (*models.Notification, error) {
	var n models.Notification
	err := scanner.Scan(
		&n.ID, &n.Title, &n.Body, &n.Audience, &n.DeepLink, &n.Status, &n.ScheduledAt,
		&n.SentAt, &n.RecipientCount, &n.LastError, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a draft notification and returns the stored row.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO notifications (title, body, audience, deep_link, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		n.Title, n.Body, n.Audience, n.DeepLink, models.NotificationDraft,
	)
	created, err := scanNotification(row)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return created, nil
}

// FindByID retrieves a notification by ID. Returns nil if not found.
func (s *NotificationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n, err := scanNotification(s.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find notification: %w", err)
	}
	return n, nil
}

// List returns recent notifications, newest first.
func (s *NotificationStore) List(ctx context.Context, limit int) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// DueScheduled returns scheduled notifications whose time has come.
func (s *NotificationStore) DueScheduled(ctx context.Context, now time.Time) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at
	`, models.NotificationScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("list due notifications: %w", err)
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// ClaimSending moves a notification to sending if its stored status is
// still from. It reports false when another sender got there first.
func (s *NotificationStore) ClaimSending(ctx context.Context, id uuid.UUID, from models.NotificationStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET status = $1, last_error = NULL, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.NotificationSending, id, from)
	if err != nil {
		return false, fmt.Errorf("claim notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim notification: %w", err)
	}
	return n == 1, nil
}

// UpdateState persists the lifecycle fields of n: status, schedule,
// delivery time, recipient count and last error.
func (s *NotificationStore) UpdateState(ctx context.Context, n *models.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET
			status = $1, scheduled_at = $2, sent_at = $3, recipient_count = $4,
			last_error = $5, updated_at = NOW()
		WHERE id = $6
	`, n.Status, n.ScheduledAt, n.SentAt, n.RecipientCount, n.LastError, n.ID)
	if err != nil {
		return fmt.Errorf("update notification state: %w", err)
	}
	return nil
}
