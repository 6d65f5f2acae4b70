// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OptionalID is a nullable id field in a patch. Set is false when the key
// was absent from the JSON body; Value is nil when it was an explicit null.
type OptionalID struct {
	Set   bool
	Value *uuid.UUID
}

// UnmarshalJSON is only called when the key is present.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// CategoryInput is the body of a category create request.
type CategoryInput struct {
	Name        string     `json:"name" validate:"required,max=120"`
	Slug        string     `json:"slug" validate:"omitempty,max=140"`
	Description string     `json:"description" validate:"max=2000"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	ParentID    *uuid.UUID `json:"parent_id"`
	IsActive    *bool      `json:"is_active"`
}

// CategoryPatch lists the category fields an update may change.
type CategoryPatch struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=120"`
	Slug        *string    `json:"slug" validate:"omitempty,max=140"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	ParentID    OptionalID `json:"parent_id"`
	IsActive    *bool      `json:"is_active"`
}

// Apply copies the set fields onto c.
func (p *CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ImageURL != nil {
		c.ImageURL = p.ImageURL
	}
	if p.ParentID.Set {
		c.ParentID = p.ParentID.Value
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

// PopupPatch lists the popup fields an update may change.
type PopupPatch struct {
	Title     *string    `json:"title" validate:"omitempty,min=1,max=200"`
	ImageURL  *string    `json:"image_url" validate:"omitempty,url"`
	LinkURL   *string    `json:"link_url" validate:"omitempty,max=500"`
	Priority  *int       `json:"priority" validate:"omitempty,gte=0,lte=1000"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  *bool      `json:"is_active"`
}

// Apply copies the set fields onto p.
func (pp *PopupPatch) Apply(p *Popup) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.ImageURL != nil {
		p.ImageURL = *pp.ImageURL
	}
	if pp.LinkURL != nil {
		p.LinkURL = pp.LinkURL
	}
	if pp.Priority != nil {
		p.Priority = *pp.Priority
	}
	if pp.StartDate != nil {
		p.StartDate = pp.StartDate
	}
	if pp.EndDate != nil {
		p.EndDate = pp.EndDate
	}
	if pp.IsActive != nil {
		p.IsActive = *pp.IsActive
	}
}

// CouponPatch lists the coupon fields an update may change. The code and
// discount type are fixed once created.
type CouponPatch struct {
	DiscountValue  *float64   `json:"discount_value" validate:"omitempty,gt=0"`
	MinOrderAmount *float64   `json:"min_order_amount" validate:"omitempty,gte=0"`
	UsageLimit     *int       `json:"usage_limit" validate:"omitempty,gte=1"`
	ExpiresAt      *time.Time `json:"expires_at"`
	IsActive       *bool      `json:"is_active"`
}

// Apply copies the set fields onto c.
func (p *CouponPatch) Apply(c *Coupon) {
	if p.DiscountValue != nil {
		c.DiscountValue = *p.DiscountValue
	}
	if p.MinOrderAmount != nil {
		c.MinOrderAmount = *p.MinOrderAmount
	}
	if p.UsageLimit != nil {
		c.UsageLimit = p.UsageLimit
	}
	if p.ExpiresAt != nil {
		c.ExpiresAt = p.ExpiresAt
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

// NotificationInput is the body of a notification create request.
type NotificationInput struct {
	Title    string               `json:"title" validate:"required,max=120"`
	Body     string               `json:"body" validate:"required,max=4000"`
	Audience NotificationAudience `json:"audience" validate:"omitempty,oneof=all buyers sellers"`
	DeepLink *string              `json:"deep_link" validate:"omitempty,max=500"`
}
