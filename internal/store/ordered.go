// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// ordered.go gives every sortable collection the same three operations:
// list the ordering fields, set one display_order, and delete a row. Table
// names come from a fixed whitelist, never from request input.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"meewadmin/internal/ordering"
)

// ErrUnknownCollection is returned for a collection name outside the whitelist.
var ErrUnknownCollection = errors.New("unknown ordered collection")

// ErrScopeRequired is returned when a scoped collection is listed without a scope.
var ErrScopeRequired = errors.New("collection requires a scope id")

type orderedTable struct {
	table string
	scope string // column that partitions the list, empty if global
	// nullRoots makes a nil scope select the rows whose scope column is
	// NULL instead of failing with ErrScopeRequired.
	nullRoots bool
}

var orderedTables = map[string]orderedTable{
	"categories":        {table: "categories", scope: "parent_id", nullRoots: true},
	"banners":           {table: "banners"},
	"onboarding_images": {table: "onboarding_images"},
	"popups":            {table: "popups"},
	"product_images":    {table: "product_images", scope: "product_id"},
}

// IsOrderedCollection reports whether name is a sortable collection.
func IsOrderedCollection(name string) bool {
	_, ok := orderedTables[name]
	return ok
}

// IsScoped reports whether the collection is partitioned by a parent id.
func IsScoped(name string) bool {
	return orderedTables[name].scope != ""
}

// ScopeRequired reports whether listing the collection needs a scope id.
// Categories are scoped by parent but a nil scope lists the roots.
func ScopeRequired(name string) bool {
	t := orderedTables[name]
	return t.scope != "" && !t.nullRoots
}

// OrderedStore reads and writes display_order on any whitelisted collection.
type OrderedStore struct {
	db *sql.DB
}

// NewOrderedStore returns a new OrderedStore.
func NewOrderedStore(db *sql.DB) *OrderedStore {
	return &OrderedStore{db: db}
}

func lookup(collection string) (orderedTable, error) {
	t, ok := orderedTables[collection]
	if !ok {
		return orderedTable{}, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return t, nil
}

// List returns the ordering fields of every row in collection, sorted by
// display_order then created_at. Scoped collections return only the rows
// of scope; a nil scope is an error unless the collection lists its NULL
// partition (category roots) instead.
func (s *OrderedStore) List(ctx context.Context, collection string, scope *uuid.UUID) ([]ordering.Item, error) {
	t, err := lookup(collection)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, display_order, created_at FROM ` + t.table
	var args []any
	if t.scope != "" {
		switch {
		case scope != nil:
			query += ` WHERE ` + t.scope + ` = $1`
			args = append(args, *scope)
		case t.nullRoots:
			query += ` WHERE ` + t.scope + ` IS NULL`
		default:
			return nil, fmt.Errorf("list %s: %w", collection, ErrScopeRequired)
		}
	}
	query += ` ORDER BY display_order, created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var items []ordering.Item
	for rows.Next() {
		var it ordering.Item
		if err := rows.Scan(&it.ID, &it.DisplayOrder, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateDisplayOrder sets one row's display_order. A missing row is an
// error wrapping sql.ErrNoRows.
func (s *OrderedStore) UpdateDisplayOrder(ctx context.Context, collection string, id uuid.UUID, order int) error {
	t, err := lookup(collection)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE `+t.table+` SET display_order = $1 WHERE id = $2`, order, id)
	if err != nil {
		return fmt.Errorf("update %s display_order: %w", collection, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update %s display_order %s: %w", collection, id, sql.ErrNoRows)
	}
	return nil
}

// Delete removes a row by ID. The remaining rows keep their display_order.
func (s *OrderedStore) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	t, err := lookup(collection)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	return nil
}
