// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"meewadmin/internal/models"
	"meewadmin/internal/notify"
)

// notificationListLimit caps the history returned by ListNotifications.
const notificationListLimit = 100

type scheduleRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at" validate:"required"`
}

func (a *API) loadNotification(ctx context.Context, r *http.Request) (*models.Notification, error) {
	id, err := urlID(r, "id")
	if err != nil {
		return nil, err
	}
	n, err := a.Notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, notFound("notification")
	}
	return n, nil
}

// ListNotifications returns the most recent notifications.
func (a *API) ListNotifications(w http.ResponseWriter, r *http.Request) {
	items, err := a.Notifications.List(r.Context(), notificationListLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateNotification stores a draft notification.
func (a *API) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var in models.NotificationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.Audience == "" {
		in.Audience = models.AudienceAll
	}

	created, err := a.Notifications.Create(r.Context(), &models.Notification{
		Title:    in.Title,
		Body:     in.Body,
		Audience: in.Audience,
		DeepLink: in.DeepLink,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("notification drafted", "id", created.ID, "audience", created.Audience)
	writeJSON(w, http.StatusCreated, created)
}

// ScheduleNotification sets a future delivery time.
func (a *API) ScheduleNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := a.loadNotification(ctx, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := notify.Schedule(n, req.ScheduledAt.UTC(), a.now()); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.Notifications.UpdateState(ctx, n); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("notification scheduled", "id", n.ID, "scheduled_at", n.ScheduledAt)
	writeJSON(w, http.StatusOK, n)
}

// SendNotification delivers a notification now. A failed delivery is
// recorded on the notification before the error is returned.
func (a *API) SendNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := a.loadNotification(ctx, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.Sender.Send(ctx, n); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// CancelNotification withdraws a draft or scheduled notification.
func (a *API) CancelNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := a.loadNotification(ctx, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := notify.Cancel(n); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.Notifications.UpdateState(ctx, n); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("notification cancelled", "id", n.ID)
	writeJSON(w, http.StatusOK, n)
}
