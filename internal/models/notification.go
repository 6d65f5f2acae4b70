// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationStatus is a push notification's lifecycle state.
type NotificationStatus string

const (
	NotificationDraft     NotificationStatus = "draft"
	NotificationScheduled NotificationStatus = "scheduled"
	NotificationSending   NotificationStatus = "sending"
	NotificationSent      NotificationStatus = "sent"
	NotificationFailed    NotificationStatus = "failed"
	NotificationCancelled NotificationStatus = "cancelled"
)

// NotificationAudience selects who receives a push.
type NotificationAudience string

const (
	AudienceAll     NotificationAudience = "all"
	AudienceBuyers  NotificationAudience = "buyers"
	AudienceSellers NotificationAudience = "sellers"
)

// Notification is a push notification composed in the dashboard. Delivery
// is delegated to a serverless function.
type Notification struct {
	ID             uuid.UUID            `json:"id"`
	Title          string               `json:"title"`
	Body           string               `json:"body"` // Markdown
	Audience       NotificationAudience `json:"audience"`
	DeepLink       *string              `json:"deep_link,omitempty"`
	Status         NotificationStatus   `json:"status"`
	ScheduledAt    *time.Time           `json:"scheduled_at,omitempty"`
	SentAt         *time.Time           `json:"sent_at,omitempty"`
	RecipientCount int                  `json:"recipient_count"`
	LastError      *string              `json:"last_error,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}
