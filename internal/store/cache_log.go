// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache_log.go records query cache invalidations in the database so a
// stale dashboard list can be traced back to the mutation that should have
// cleared it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CacheLogStore handles cache invalidation log operations.
type CacheLogStore struct {
	db *sql.DB
}

// NewCacheLogStore creates a new CacheLogStore.
func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log records that cacheKey was dropped after action on an entity. It is
// best-effort: failures are logged and swallowed.
func (s *CacheLogStore) Log(ctx context.Context, entityType string, entityID uuid.UUID, cacheKey, action string) {
	var id *uuid.UUID
	if entityID != uuid.Nil {
		id = &entityID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_invalidation_log (entity_type, entity_id, cache_key, action)
		VALUES ($1, $2, $3, $4)
	`, entityType, id, cacheKey, action)
	if err != nil {
		slog.Warn("failed to log cache invalidation",
			"entity_type", entityType,
			"entity_id", entityID,
			"cache_key", cacheKey,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("cache invalidation logged",
		"entity_type", entityType,
		"cache_key", cacheKey,
		"action", action,
	)
}

// RecentEntries returns the most recent cache invalidation events.
func (s *CacheLogStore) RecentEntries(ctx context.Context, limit int) ([]CacheLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_type, entity_id, cache_key, action, invalidated_at
		FROM cache_invalidation_log
		ORDER BY invalidated_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cache log: %w", err)
	}
	defer rows.Close()

	var entries []CacheLogEntry
	for rows.Next() {
		var e CacheLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.CacheKey, &e.Action, &e.InvalidatedAt); err != nil {
			return nil, fmt.Errorf("scan cache log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CacheLogEntry represents a single cache invalidation event.
type CacheLogEntry struct {
	ID            int64      `json:"id"`
	EntityType    string     `json:"entity_type"`
	EntityID      *uuid.UUID `json:"entity_id,omitempty"`
	CacheKey      string     `json:"cache_key"`
	Action        string     `json:"action"`
	InvalidatedAt time.Time  `json:"invalidated_at"`
}
