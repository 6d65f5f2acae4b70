// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"meewadmin/internal/ordering"
)

// Product is the part of a product row the admin workflows need.
type Product struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	BasePrice  float64    `json:"base_price"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ProductImage is one image in a product's gallery.
type ProductImage struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	URL          string    `json:"url"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p ProductImage) OrderItem() ordering.Item {
	return ordering.Item{ID: p.ID, DisplayOrder: p.DisplayOrder, CreatedAt: p.CreatedAt}
}

// VariantOption is one axis of variation, e.g. Size with values S, M, L.
type VariantOption struct {
	Name   string   `json:"name" validate:"required,max=50"`
	Values []string `json:"values" validate:"required,min=1,max=50,dive,required,max=50"`
}

// ProductVariant is a purchasable combination of option values.
type ProductVariant struct {
	ID         uuid.UUID         `json:"id"`
	ProductID  uuid.UUID         `json:"product_id"`
	SKU        string            `json:"sku"`
	Attributes map[string]string `json:"attributes"`
	Price      float64           `json:"price"`
	Stock      int               `json:"stock"`
	CreatedAt  time.Time         `json:"created_at"`
}
