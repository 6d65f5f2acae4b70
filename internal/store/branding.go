// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"meewadmin/internal/models"
)

// BrandingStore manages the app-branding settings.
type BrandingStore struct {
	db *sql.DB
}

// NewBrandingStore returns a new BrandingStore backed by the given database.
func NewBrandingStore(db *sql.DB) *BrandingStore {
	return &BrandingStore{db: db}
}

// All returns every setting as a convenience map.
func (s *BrandingStore) All(ctx context.Context) (models.Branding, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM branding_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list branding: %w", err)
	}
	defer rows.Close()

	b := make(models.Branding)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan branding: %w", err)
		}
		b[k] = v
	}
	return b, rows.Err()
}

// Set upserts a single setting.
func (s *BrandingStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO branding_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set branding %s: %w", key, err)
	}
	return nil
}
