// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"meewadmin/internal/ordering"
	"meewadmin/internal/priority"
	"meewadmin/internal/validity"
)

// Popup is an in-app popup. Only the highest priority current popup is shown.
type Popup struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	ImageURL     string     `json:"image_url"`
	LinkURL      *string    `json:"link_url,omitempty"`
	Priority     int        `json:"priority"`
	DisplayOrder int        `json:"display_order"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (p Popup) ValidityWindow() validity.Window {
	return validity.Window{StartDate: p.StartDate, EndDate: p.EndDate, IsActive: p.IsActive}
}

func (p Popup) Rank() priority.Rank {
	return priority.Rank{Priority: p.Priority, CreatedAt: p.CreatedAt, ID: p.ID}
}

func (p Popup) OrderItem() ordering.Item {
	return ordering.Item{ID: p.ID, DisplayOrder: p.DisplayOrder, CreatedAt: p.CreatedAt}
}

// Banner is a home-screen carousel slide.
type Banner struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	ImageURL     string     `json:"image_url"`
	LinkURL      *string    `json:"link_url,omitempty"`
	DisplayOrder int        `json:"display_order"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (b Banner) ValidityWindow() validity.Window {
	return validity.Window{StartDate: b.StartDate, EndDate: b.EndDate, IsActive: b.IsActive}
}

func (b Banner) OrderItem() ordering.Item {
	return ordering.Item{ID: b.ID, DisplayOrder: b.DisplayOrder, CreatedAt: b.CreatedAt}
}

// DiscountType says how a coupon's value is applied.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// Coupon is a discount code. ExpiresAt is the end of its validity window;
// coupons have no start date.
type Coupon struct {
	ID             uuid.UUID    `json:"id"`
	Code           string       `json:"code"`
	DiscountType   DiscountType `json:"discount_type"`
	DiscountValue  float64      `json:"discount_value"`
	MinOrderAmount float64      `json:"min_order_amount"`
	UsageLimit     *int         `json:"usage_limit,omitempty"`
	UsedCount      int          `json:"used_count"`
	ExpiresAt      *time.Time   `json:"expires_at,omitempty"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (c Coupon) ValidityWindow() validity.Window {
	return validity.Window{EndDate: c.ExpiresAt, IsActive: c.IsActive}
}

// Exhausted reports whether the coupon has reached its usage limit.
func (c Coupon) Exhausted() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}

// Classify returns the coupon's state. An exhausted coupon that would
// otherwise be current is reported as expired.
func (c Coupon) Classify(now time.Time) validity.Classification {
	state := validity.Classify(c.ValidityWindow(), now)
	if state == validity.Current && c.Exhausted() {
		return validity.Expired
	}
	return state
}

// FreeShippingWindow is a period during which orders ship for free.
type FreeShippingWindow struct {
	ID             uuid.UUID  `json:"id"`
	Label          string     `json:"label"`
	MinOrderAmount float64    `json:"min_order_amount"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (f FreeShippingWindow) ValidityWindow() validity.Window {
	return validity.Window{StartDate: f.StartDate, EndDate: f.EndDate, IsActive: f.IsActive}
}
