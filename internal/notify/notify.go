// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify drives the push notification lifecycle:
//
//	draft -> scheduled -> sending -> sent | failed
//	draft | scheduled -> cancelled
//	draft -> sending (send now), failed -> sending (retry)
//
// Delivery itself is done by the send-push-notification function.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"meewadmin/internal/markdown"
	"meewadmin/internal/metrics"
	"meewadmin/internal/models"
)

// PushFunction is the serverless function that fans a push out to devices.
const PushFunction = "send-push-notification"

var (
	ErrInvalidTransition = errors.New("invalid notification state transition")
	ErrScheduleInPast    = errors.New("scheduled_at must be in the future")
	ErrDeliveryDisabled  = errors.New("push delivery is not configured")
)

var transitions = map[models.NotificationStatus][]models.NotificationStatus{
	models.NotificationDraft:     {models.NotificationScheduled, models.NotificationSending, models.NotificationCancelled},
	models.NotificationScheduled: {models.NotificationSending, models.NotificationCancelled},
	models.NotificationSending:   {models.NotificationSent, models.NotificationFailed},
	models.NotificationFailed:    {models.NotificationSending},
}

// CanTransition reports whether a notification may move from one status to another.
func CanTransition(from, to models.NotificationStatus) bool {
	return slices.Contains(transitions[from], to)
}

// Transition sets n.Status to to, or returns ErrInvalidTransition.
func Transition(n *models.Notification, to models.NotificationStatus) error {
	if !CanTransition(n.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.Status, to)
	}
	n.Status = to
	return nil
}

// Schedule moves n to scheduled for delivery at at, which must be after now.
func Schedule(n *models.Notification, at, now time.Time) error {
	if !at.After(now) {
		return ErrScheduleInPast
	}
	if err := Transition(n, models.NotificationScheduled); err != nil {
		return err
	}
	n.ScheduledAt = &at
	return nil
}

// Cancel moves a draft or scheduled notification to cancelled.
func Cancel(n *models.Notification) error {
	return Transition(n, models.NotificationCancelled)
}

// Store persists lifecycle changes.
type Store interface {
	// ClaimSending moves the row to sending only if its stored status is
	// still from, and reports whether it did.
	ClaimSending(ctx context.Context, id uuid.UUID, from models.NotificationStatus) (bool, error)
	UpdateState(ctx context.Context, n *models.Notification) error
	DueScheduled(ctx context.Context, now time.Time) ([]models.Notification, error)
}

// Invoker calls a serverless function.
type Invoker interface {
	Invoke(ctx context.Context, name string, payload, out any) error
}

// pushPayload is the body sent to the push function.
type pushPayload struct {
	NotificationID string  `json:"notification_id"`
	Title          string  `json:"title"`
	Body           string  `json:"body"`
	HTML           string  `json:"html"`
	Audience       string  `json:"audience"`
	DeepLink       *string `json:"deep_link,omitempty"`
}

type pushResult struct {
	Recipients int `json:"recipients"`
}

// Service sends notifications and records the outcome.
type Service struct {
	store   Store
	invoker Invoker
	now     func() time.Time
}

// NewService creates a Service. invoker may be nil, in which case Send
// returns ErrDeliveryDisabled.
func NewService(store Store, invoker Invoker) *Service {
	return &Service{store: store, invoker: invoker, now: time.Now}
}

// Send delivers n now. The row is claimed as sending before the function
// is called, then saved as sent or failed. If another sender claimed it
// first, Send returns ErrInvalidTransition without calling the function.
// A delivery failure is both recorded on n and returned.
func (s *Service) Send(ctx context.Context, n *models.Notification) error {
	if s.invoker == nil {
		return ErrDeliveryDisabled
	}
	prev := n.Status
	if err := Transition(n, models.NotificationSending); err != nil {
		return err
	}
	claimed, err := s.store.ClaimSending(ctx, n.ID, prev)
	if err != nil {
		n.Status = prev
		return err
	}
	if !claimed {
		n.Status = prev
		return fmt.Errorf("%w: notification %s is no longer %s", ErrInvalidTransition, n.ID, prev)
	}
	n.LastError = nil

	html, err := markdown.ToHTML(n.Body)
	if err != nil {
		return s.fail(ctx, n, fmt.Errorf("render body: %w", err))
	}
	audience := n.Audience
	if audience == "" {
		audience = models.AudienceAll
	}
	payload := pushPayload{
		NotificationID: n.ID.String(),
		Title:          n.Title,
		Body:           markdown.ToText(n.Body),
		HTML:           html,
		Audience:       string(audience),
		DeepLink:       n.DeepLink,
	}

	var res pushResult
	if err := s.invoker.Invoke(ctx, PushFunction, payload, &res); err != nil {
		return s.fail(ctx, n, err)
	}

	sentAt := s.now()
	n.Status = models.NotificationSent
	n.SentAt = &sentAt
	n.RecipientCount = res.Recipients
	if err := s.store.UpdateState(ctx, n); err != nil {
		return err
	}
	metrics.RecordNotification(string(models.NotificationSent))
	slog.Info("notification sent", "id", n.ID, "recipients", res.Recipients)
	return nil
}

func (s *Service) fail(ctx context.Context, n *models.Notification, cause error) error {
	msg := cause.Error()
	n.Status = models.NotificationFailed
	n.LastError = &msg
	metrics.RecordNotification(string(models.NotificationFailed))
	slog.Warn("notification delivery failed", "id", n.ID, "error", cause)
	if err := s.store.UpdateState(context.WithoutCancel(ctx), n); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// DispatchDue sends every scheduled notification whose time has passed and
// returns how many were delivered.
func (s *Service) DispatchDue(ctx context.Context) (int, error) {
	due, err := s.store.DueScheduled(ctx, s.now())
	if err != nil {
		return 0, err
	}
	sent := 0
	for i := range due {
		if err := s.Send(ctx, &due[i]); err != nil {
			continue
		}
		sent++
	}
	return sent, nil
}

// RunScheduler calls DispatchDue every interval until ctx is done.
func (s *Service) RunScheduler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.DispatchDue(ctx); err != nil {
				slog.Error("notification scheduler", "error", err)
			} else if n > 0 {
				slog.Info("scheduled notifications dispatched", "count", n)
			}
		}
	}
}
