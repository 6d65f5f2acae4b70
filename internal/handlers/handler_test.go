// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory fakes of every repository and helpers to build requests.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"meewadmin/internal/models"
	"meewadmin/internal/ordering"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// --- categories ---

type fakeCategories struct {
	items     []models.Category
	createErr error
}

func (f *fakeCategories) List(ctx context.Context) ([]models.Category, error) {
	return slices.Clone(f.items), nil
}

func (f *fakeCategories) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	for _, c := range f.items {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *c
	created.ID = uuid.New()
	created.CreatedAt = testNow
	created.UpdatedAt = testNow
	f.items = append(f.items, created)
	return &created, nil
}

func (f *fakeCategories) Update(ctx context.Context, c *models.Category) error {
	for i := range f.items {
		if f.items[i].ID == c.ID {
			f.items[i] = *c
			return nil
		}
	}
	return fmt.Errorf("update category %s: %w", c.ID, sql.ErrNoRows)
}

func (f *fakeCategories) Delete(ctx context.Context, id uuid.UUID) error {
	f.items = slices.DeleteFunc(f.items, func(c models.Category) bool { return c.ID == id })
	return nil
}

func (f *fakeCategories) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return slices.ContainsFunc(f.items, func(c models.Category) bool {
		return c.Slug == slug && c.ID != excludeID
	}), nil
}

// --- ordered collections ---

type fakeOrdered struct {
	items  map[string][]ordering.Item
	failAt int // 1-based write number that fails, 0 for never
	writes int
	// parents partitions a collection: item id -> parent id. Items without
	// an entry are roots. Collections without an entry are not filtered.
	parents map[string]map[uuid.UUID]uuid.UUID
}

func (f *fakeOrdered) List(ctx context.Context, collection string, scope *uuid.UUID) ([]ordering.Item, error) {
	parents, ok := f.parents[collection]
	if !ok {
		return slices.Clone(f.items[collection]), nil
	}
	var out []ordering.Item
	for _, it := range f.items[collection] {
		parent, hasParent := parents[it.ID]
		if (scope == nil && !hasParent) || (scope != nil && hasParent && parent == *scope) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeOrdered) UpdateDisplayOrder(ctx context.Context, collection string, id uuid.UUID, order int) error {
	f.writes++
	if f.writes == f.failAt {
		return errors.New("connection reset by peer")
	}
	for i := range f.items[collection] {
		if f.items[collection][i].ID == id {
			f.items[collection][i].DisplayOrder = order
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeOrdered) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	f.items[collection] = slices.DeleteFunc(f.items[collection], func(it ordering.Item) bool { return it.ID == id })
	return nil
}

// orderOf returns the stored display_order of id.
func (f *fakeOrdered) orderOf(collection string, id uuid.UUID) int {
	for _, it := range f.items[collection] {
		if it.ID == id {
			return it.DisplayOrder
		}
	}
	return -1
}

// --- promotions ---

type fakePromotions struct {
	popups       []models.Popup
	banners      []models.Banner
	coupons      []models.Coupon
	freeShipping []models.FreeShippingWindow
	listCalls    int
}

func (f *fakePromotions) ListPopups(ctx context.Context) ([]models.Popup, error) {
	f.listCalls++
	return slices.Clone(f.popups), nil
}

func (f *fakePromotions) FindPopup(ctx context.Context, id uuid.UUID) (*models.Popup, error) {
	for _, p := range f.popups {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePromotions) UpdatePopup(ctx context.Context, p *models.Popup) error {
	for i := range f.popups {
		if f.popups[i].ID == p.ID {
			f.popups[i] = *p
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakePromotions) ListBanners(ctx context.Context) ([]models.Banner, error) {
	return slices.Clone(f.banners), nil
}

func (f *fakePromotions) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return slices.Clone(f.coupons), nil
}

func (f *fakePromotions) FindCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	for _, c := range f.coupons {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakePromotions) UpdateCoupon(ctx context.Context, c *models.Coupon) error {
	for i := range f.coupons {
		if f.coupons[i].ID == c.ID {
			f.coupons[i] = *c
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakePromotions) ListFreeShipping(ctx context.Context) ([]models.FreeShippingWindow, error) {
	return slices.Clone(f.freeShipping), nil
}

// --- notifications ---

type fakeNotifications struct {
	items map[uuid.UUID]models.Notification
}

func (f *fakeNotifications) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	created := *n
	created.ID = uuid.New()
	created.Status = models.NotificationDraft
	created.CreatedAt = testNow
	f.items[created.ID] = created
	return &created, nil
}

func (f *fakeNotifications) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (f *fakeNotifications) List(ctx context.Context, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.items {
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotifications) UpdateState(ctx context.Context, n *models.Notification) error {
	f.items[n.ID] = *n
	return nil
}

type fakeSender struct {
	err  error
	sent []uuid.UUID
}

func (f *fakeSender) Send(ctx context.Context, n *models.Notification) error {
	if f.err != nil {
		return f.err
	}
	n.Status = models.NotificationSent
	n.RecipientCount = 42
	f.sent = append(f.sent, n.ID)
	return nil
}

// --- products ---

type fakeProducts struct {
	product  *models.Product
	images   []models.ProductImage
	variants []models.ProductVariant
	primary  uuid.UUID
}

func (f *fakeProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if f.product == nil || f.product.ID != id {
		return nil, nil
	}
	p := *f.product
	return &p, nil
}

func (f *fakeProducts) Images(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error) {
	return slices.Clone(f.images), nil
}

func (f *fakeProducts) SetPrimary(ctx context.Context, productID, imageID uuid.UUID) error {
	f.primary = imageID
	return nil
}

func (f *fakeProducts) Variants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	return slices.Clone(f.variants), nil
}

func (f *fakeProducts) InsertVariants(ctx context.Context, variants []models.ProductVariant) ([]models.ProductVariant, error) {
	out := make([]models.ProductVariant, 0, len(variants))
	for _, v := range variants {
		v.ID = uuid.New()
		v.CreatedAt = testNow
		out = append(out, v)
	}
	f.variants = append(f.variants, out...)
	return out, nil
}

// --- dashboard ---

type fakeStats struct {
	shipments []models.Shipment
	lines     []models.SalesLine
}

func (f *fakeStats) Shipments(ctx context.Context) ([]models.Shipment, error) { return f.shipments, nil }
func (f *fakeStats) SalesLines(ctx context.Context) ([]models.SalesLine, error) { return f.lines, nil }

// --- assets, branding, storage ---

type fakeAssets struct {
	created []models.Asset
}

func (f *fakeAssets) Create(ctx context.Context, a *models.Asset) (*models.Asset, error) {
	c := *a
	c.ID = uuid.New()
	c.CreatedAt = testNow
	f.created = append(f.created, c)
	return &c, nil
}

type fakeBranding struct {
	settings models.Branding
}

func (f *fakeBranding) All(ctx context.Context) (models.Branding, error) {
	out := make(models.Branding, len(f.settings))
	for k, v := range f.settings {
		out[k] = v
	}
	return out, nil
}

func (f *fakeBranding) Set(ctx context.Context, key, value string) error {
	f.settings[key] = value
	return nil
}

type fakeStorage struct {
	objects map[string]string // key -> content type
}

func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.objects[key] = contentType
	return f.FileURL(key), nil
}

func (f *fakeStorage) FileURL(key string) string {
	return "https://cdn.example.com/" + key
}

// --- cache ---

type fakeCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated []string
}

func (f *fakeCache) Get(ctx context.Context, key string, dst any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (f *fakeCache) Set(ctx context.Context, key string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, _ := json.Marshal(v)
	f.data[key] = raw
}

func (f *fakeCache) Invalidate(ctx context.Context, keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	f.invalidated = append(f.invalidated, keys...)
}

type logEntry struct {
	entityType string
	entityID   uuid.UUID
	key        string
	action     string
}

type fakeCacheLog struct {
	entries []logEntry
}

func (f *fakeCacheLog) Log(ctx context.Context, entityType string, entityID uuid.UUID, cacheKey, action string) {
	f.entries = append(f.entries, logEntry{entityType, entityID, cacheKey, action})
}

// testEnv holds the API under test and its fakes.
type testEnv struct {
	API           *API
	Categories    *fakeCategories
	Ordered       *fakeOrdered
	Promotions    *fakePromotions
	Notifications *fakeNotifications
	Sender        *fakeSender
	Products      *fakeProducts
	Stats         *fakeStats
	Assets        *fakeAssets
	Branding      *fakeBranding
	Storage       *fakeStorage
	Cache         *fakeCache
	CacheLog      *fakeCacheLog
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		Categories:    &fakeCategories{},
		Ordered:       &fakeOrdered{items: make(map[string][]ordering.Item), parents: make(map[string]map[uuid.UUID]uuid.UUID)},
		Promotions:    &fakePromotions{},
		Notifications: &fakeNotifications{items: make(map[uuid.UUID]models.Notification)},
		Sender:        &fakeSender{},
		Products:      &fakeProducts{},
		Stats:         &fakeStats{},
		Assets:        &fakeAssets{},
		Branding:      &fakeBranding{settings: models.Branding{}},
		Storage:       &fakeStorage{objects: make(map[string]string)},
		Cache:         &fakeCache{data: make(map[string][]byte)},
		CacheLog:      &fakeCacheLog{},
	}
	env.API = NewAPI(Deps{
		Categories:    env.Categories,
		Ordered:       env.Ordered,
		Promotions:    env.Promotions,
		Notifications: env.Notifications,
		Sender:        env.Sender,
		Products:      env.Products,
		Stats:         env.Stats,
		Assets:        env.Assets,
		Branding:      env.Branding,
		Storage:       env.Storage,
		Cache:         env.Cache,
		CacheLog:      env.CacheLog,
	})
	env.API.now = func() time.Time { return testNow }
	return env
}

// newRequest builds a request with an optional JSON body and chi URL
// parameters given as key/value pairs.
func newRequest(method, target string, body any, params ...string) *http.Request {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		rd = bytes.NewReader(raw)
	}
	r := httptest.NewRequest(method, target, rd)
	if rd != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// serve runs h and returns the recorder.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, r)
	return rr
}

// decodeBody decodes the recorder body into v.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func ptr[T any](v T) *T { return &v }
