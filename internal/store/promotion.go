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

// PromotionStore manages popups, banners, coupons and free-shipping windows.
// Filtering by validity happens in Go against a single clock reading, so the
// list queries here return every row.
type PromotionStore struct {
	db *sql.DB
}

// NewPromotionStore returns a new PromotionStore.
func NewPromotionStore(db *sql.DB) *PromotionStore {
	return &PromotionStore{db: db}
}

const popupColumns = `id, title, image_url, link_url, priority, display_order,
	start_date, end_date, is_active, created_at, updated_at`

func scanPopup(scanner interface{ Scan(...any) error }) (*models.Popup, error) {
	var p models.Popup
	err := scanner.Scan(
		&p.ID, &p.Title, &p.ImageURL, &p.LinkURL, &p.Priority, &p.DisplayOrder,
		&p.StartDate, &p.EndDate, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPopups returns every popup in display order.
func (s *PromotionStore) ListPopups(ctx context.Context) ([]models.Popup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+popupColumns+` FROM popups ORDER BY display_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list popups: %w", err)
	}
	defer rows.Close()

	var items []models.Popup
	for rows.Next() {
		p, err := scanPopup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan popup: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindPopup retrieves a popup by ID. Returns nil if not found.
func (s *PromotionStore) FindPopup(ctx context.Context, id uuid.UUID) (*models.Popup, error) {
	p, err := scanPopup(s.db.QueryRowContext(ctx, `SELECT `+popupColumns+` FROM popups WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find popup: %w", err)
	}
	return p, nil
}

// CreatePopup inserts a popup and returns the stored row.
func (s *PromotionStore) CreatePopup(ctx context.Context, p *models.Popup) (*models.Popup, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO popups (title, image_url, link_url, priority, display_order, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+popupColumns,
		p.Title, p.ImageURL, p.LinkURL, p.Priority, p.DisplayOrder, p.StartDate, p.EndDate, p.IsActive,
	)
	created, err := scanPopup(row)
	if err != nil {
		return nil, fmt.Errorf("create popup: %w", err)
	}
	return created, nil
}

// UpdatePopup writes every editable popup field.
func (s *PromotionStore) UpdatePopup(ctx context.Context, p *models.Popup) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE popups SET
			title = $1, image_url = $2, link_url = $3, priority = $4,
			start_date = $5, end_date = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`, p.Title, p.ImageURL, p.LinkURL, p.Priority, p.StartDate, p.EndDate, p.IsActive, p.ID)
	if err != nil {
		return fmt.Errorf("update popup: %w", err)
	}
	return nil
}

// ListBanners returns every banner in display order.
func (s *PromotionStore) ListBanners(ctx context.Context) ([]models.Banner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, image_url, link_url, display_order, start_date, end_date,
		       is_active, created_at, updated_at
		FROM banners
		ORDER BY display_order, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	var items []models.Banner
	for rows.Next() {
		var b models.Banner
		if err := rows.Scan(
			&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.DisplayOrder, &b.StartDate, &b.EndDate,
			&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan banner: %w", err)
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// CreateBanner inserts a banner and returns its ID.
func (s *PromotionStore) CreateBanner(ctx context.Context, b *models.Banner) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO banners (title, image_url, link_url, display_order, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, b.Title, b.ImageURL, b.LinkURL, b.DisplayOrder, b.StartDate, b.EndDate, b.IsActive).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create banner: %w", err)
	}
	return id, nil
}

const couponColumns = `id, code, discount_type, discount_value, min_order_amount,
	usage_limit, used_count, expires_at, is_active, created_at, updated_at`

func scanCoupon(scanner interface{ Scan(...any) error }) (*models.Coupon, error) {
	var c models.Coupon
	err := scanner.Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinOrderAmount,
		&c.UsageLimit, &c.UsedCount, &c.ExpiresAt, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCoupons returns every coupon, newest first.
func (s *PromotionStore) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var items []models.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindCoupon retrieves a coupon by ID. Returns nil if not found.
func (s *PromotionStore) FindCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	c, err := scanCoupon(s.db.QueryRowContext(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return c, nil
}

// CreateCoupon inserts a coupon and returns its ID.
func (s *PromotionStore) CreateCoupon(ctx context.Context, c *models.Coupon) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO coupons (code, discount_type, discount_value, min_order_amount, usage_limit, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, c.Code, c.DiscountType, c.DiscountValue, c.MinOrderAmount, c.UsageLimit, c.ExpiresAt, c.IsActive).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create coupon: %w", err)
	}
	return id, nil
}

// UpdateCoupon writes the editable coupon fields. Code, type and usage
// count are never changed from the dashboard.
func (s *PromotionStore) UpdateCoupon(ctx context.Context, c *models.Coupon) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE coupons SET
			discount_value = $1, min_order_amount = $2, usage_limit = $3,
			expires_at = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
	`, c.DiscountValue, c.MinOrderAmount, c.UsageLimit, c.ExpiresAt, c.IsActive, c.ID)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	return nil
}

// ListFreeShipping returns every free-shipping window by start date.
func (s *PromotionStore) ListFreeShipping(ctx context.Context) ([]models.FreeShippingWindow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, min_order_amount, start_date, end_date, is_active, created_at
		FROM free_shipping_windows
		ORDER BY start_date NULLS FIRST, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list free shipping windows: %w", err)
	}
	defer rows.Close()

	var items []models.FreeShippingWindow
	for rows.Next() {
		var f models.FreeShippingWindow
		if err := rows.Scan(&f.ID, &f.Label, &f.MinOrderAmount, &f.StartDate, &f.EndDate, &f.IsActive, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan free shipping window: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
