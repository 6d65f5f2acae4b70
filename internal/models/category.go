// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"meewadmin/internal/ordering"
)

// Category represents a product category. The hierarchy is one level deep:
// a category is either a root (ParentID nil) or the child of a root.
type Category struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	ImageURL     *string    `json:"image_url,omitempty"`
	ParentID     *uuid.UUID `json:"parent_id"`
	DisplayOrder int        `json:"display_order"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Virtual fields populated for display.
	Depth        int  `json:"depth"`
	Orphan       bool `json:"orphan,omitempty"`
	ProductCount int  `json:"product_count"`
}

// OrderItem implements ordering.Orderable.
func (c Category) OrderItem() ordering.Item {
	return ordering.Item{ID: c.ID, DisplayOrder: c.DisplayOrder, CreatedAt: c.CreatedAt}
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
