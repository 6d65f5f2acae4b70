// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON handlers of the admin API. Handlers
// are grouped by concern (categories, collections, promotions, dashboard,
// notifications, products, assets) and receive their dependencies through
// the API struct.
package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"meewadmin/internal/metrics"
	"meewadmin/internal/models"
	"meewadmin/internal/ordering"
	"meewadmin/internal/persist"
	"meewadmin/internal/store"
)

// CategoryRepository is the category persistence the handlers need.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

// OrderedRepository reads and writes display_order on sortable collections.
type OrderedRepository interface {
	persist.Writer
	List(ctx context.Context, collection string, scope *uuid.UUID) ([]ordering.Item, error)
	Delete(ctx context.Context, collection string, id uuid.UUID) error
}

// PromotionRepository covers popups, banners, coupons and free shipping.
type PromotionRepository interface {
	ListPopups(ctx context.Context) ([]models.Popup, error)
	FindPopup(ctx context.Context, id uuid.UUID) (*models.Popup, error)
	UpdatePopup(ctx context.Context, p *models.Popup) error
	ListBanners(ctx context.Context) ([]models.Banner, error)
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	FindCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	UpdateCoupon(ctx context.Context, c *models.Coupon) error
	ListFreeShipping(ctx context.Context) ([]models.FreeShippingWindow, error)
}

// NotificationRepository stores push notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, limit int) ([]models.Notification, error)
	UpdateState(ctx context.Context, n *models.Notification) error
}

// NotificationSender delivers a notification now.
type NotificationSender interface {
	Send(ctx context.Context, n *models.Notification) error
}

// ProductRepository covers product images and variants.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Images(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error)
	SetPrimary(ctx context.Context, productID, imageID uuid.UUID) error
	Variants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error)
	InsertVariants(ctx context.Context, variants []models.ProductVariant) ([]models.ProductVariant, error)
}

// StatsRepository feeds the dashboard.
type StatsRepository interface {
	Shipments(ctx context.Context) ([]models.Shipment, error)
	SalesLines(ctx context.Context) ([]models.SalesLine, error)
}

// AssetRepository records uploaded files.
type AssetRepository interface {
	Create(ctx context.Context, a *models.Asset) (*models.Asset, error)
}

// BrandingRepository reads and writes app-branding settings.
type BrandingRepository interface {
	All(ctx context.Context) (models.Branding, error)
	Set(ctx context.Context, key, value string) error
}

// ObjectStorage uploads public files.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	FileURL(key string) string
}

// QueryCache holds list snapshots keyed by collection.
type QueryCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	Invalidate(ctx context.Context, keys ...string)
}

// InvalidationLog records dropped cache keys.
type InvalidationLog interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, cacheKey, action string)
}

// Deps lists the collaborators of the API. Storage, Cache and CacheLog may
// be nil: uploads then answer 503 and reads go straight to the database.
type Deps struct {
	Categories    CategoryRepository
	Ordered       OrderedRepository
	Promotions    PromotionRepository
	Notifications NotificationRepository
	Sender        NotificationSender
	Products      ProductRepository
	Stats         StatsRepository
	Assets        AssetRepository
	Branding      BrandingRepository
	Storage       ObjectStorage
	Cache         QueryCache
	CacheLog      InvalidationLog
}

// API groups all admin API handlers and their dependencies.
type API struct {
	Deps
	now func() time.Time
}

// NewAPI creates the admin API handler group.
func NewAPI(d Deps) *API {
	return &API{Deps: d, now: time.Now}
}

var _ InvalidationLog = (*store.CacheLogStore)(nil)

// cached returns the snapshot under key, loading and storing it on a miss.
func cached[T any](ctx context.Context, c QueryCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var out []T
	if c != nil && c.Get(ctx, key, &out) {
		return out, nil
	}
	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if c != nil {
		c.Set(ctx, key, out)
	}
	return out, nil
}

// finish drops the cache keys a mutation dirtied and records each one. It
// runs even when the mutation failed part way.
func (a *API) finish(ctx context.Context, res persist.Result, entityID uuid.UUID, action string) {
	if len(res.Invalidate) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if a.Cache != nil {
		a.Cache.Invalidate(ctx, res.Invalidate...)
	}
	for _, key := range res.Invalidate {
		metrics.RecordInvalidation(key)
		if a.CacheLog != nil {
			a.CacheLog.Log(ctx, res.Collection, entityID, key, action)
		}
	}
	slog.Debug("mutation finished",
		"collection", res.Collection,
		"action", action,
		"applied", res.Applied,
		"total", res.Total,
	)
}
