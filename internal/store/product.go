// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"meewadmin/internal/models"
)

// ProductStore manages the product gallery and variants.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// FindByID retrieves a product by ID. Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, category_id, base_price, created_at FROM products WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Slug, &p.CategoryID, &p.BasePrice, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

// Images returns a product's gallery in display order.
func (s *ProductStore) Images(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, url, is_primary, display_order, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY display_order, created_at
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	var items []models.ProductImage
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.IsPrimary, &img.DisplayOrder, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		items = append(items, img)
	}
	return items, rows.Err()
}

// SetPrimary flags imageID as the product's only primary image.
func (s *ProductStore) SetPrimary(ctx context.Context, productID, imageID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE product_images SET is_primary = (id = $1) WHERE product_id = $2`, imageID, productID,
	); err != nil {
		return fmt.Errorf("set primary image: %w", err)
	}
	return tx.Commit()
}

// Variants returns every variant of a product.
func (s *ProductStore) Variants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, sku, attributes, price, stock, created_at
		FROM product_variants
		WHERE product_id = $1
		ORDER BY created_at, sku
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var items []models.ProductVariant
	for rows.Next() {
		var v models.ProductVariant
		var attrs []byte
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &attrs, &v.Price, &v.Stock, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		if err := json.Unmarshal(attrs, &v.Attributes); err != nil {
			return nil, fmt.Errorf("decode variant attributes: %w", err)
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// InsertVariants stores new variants in a single transaction and returns
// them with their generated IDs.
func (s *ProductStore) InsertVariants(ctx context.Context, variants []models.ProductVariant) ([]models.ProductVariant, error) {
	if len(variants) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_variants (product_id, sku, attributes, price, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert variant: %w", err)
	}
	defer stmt.Close()

	out := make([]models.ProductVariant, 0, len(variants))
	for _, v := range variants {
		attrs, err := json.Marshal(v.Attributes)
		if err != nil {
			return nil, fmt.Errorf("encode variant attributes: %w", err)
		}
		if err := stmt.QueryRowContext(ctx, v.ProductID, v.SKU, attrs, v.Price, v.Stock).Scan(&v.ID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("insert variant %s: %w", v.SKU, err)
		}
		out = append(out, v)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit variants: %w", err)
	}
	return out, nil
}
