// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"meewadmin/internal/models"
)

// AssetStore records the metadata of files uploaded to object storage.
type AssetStore struct {
	db *sql.DB
}

// NewAssetStore creates a new AssetStore with the given database connection.
func NewAssetStore(db *sql.DB) *AssetStore {
	return &AssetStore{db: db}
}

const assetColumns = `id, kind, original_name, content_type, size_bytes, s3_key, thumb_s3_key, created_at`

func scanAsset(scanner interface{ Scan(...any) error }) (*models.Asset, error) {
	var a models.Asset
	err := scanner.Scan(
		&a.ID, &a.Kind, &a.OriginalName, &a.ContentType, &a.SizeBytes,
		&a.S3Key, &a.ThumbS3Key, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an asset record and returns it with the generated ID.
func (s *AssetStore) Create(ctx context.Context, a *models.Asset) (*models.Asset, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO assets (kind, original_name, content_type, size_bytes, s3_key, thumb_s3_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+assetColumns,
		a.Kind, a.OriginalName, a.ContentType, a.SizeBytes, a.S3Key, a.ThumbS3Key,
	)
	created, err := scanAsset(row)
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single asset by its UUID. Returns nil if not found.
func (s *AssetStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	a, err := scanAsset(s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find asset by id: %w", err)
	}
	return a, nil
}

// ListByKind returns the assets of one kind, newest first.
func (s *AssetStore) ListByKind(ctx context.Context, kind models.AssetKind, limit int) ([]models.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assetColumns+` FROM assets WHERE kind = $1 ORDER BY created_at DESC LIMIT $2
	`, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var items []models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Delete removes an asset record. The object in the bucket is removed by
// the caller.
func (s *AssetStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}
