// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package persist applies WriteSets computed by the ordering package to a
// store. Writes are issued one at a time, in order, with no surrounding
// transaction: a failure stops the sequence and leaves the writes already
// applied in place.
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"meewadmin/internal/cache"
	"meewadmin/internal/metrics"
	"meewadmin/internal/ordering"
)

// PersistenceError wraps any failure returned by the store.
type PersistenceError struct {
	Collection string
	Op         string
	ID         uuid.UUID
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.ID == uuid.Nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PartialReorderFailure is a PersistenceError that happened after at least
// one write of the set had already been applied. The collection may now mix
// old and new display_order values until the reorder is retried.
type PartialReorderFailure struct {
	Applied int
	Total   int
	Cause   *PersistenceError
}

func (e *PartialReorderFailure) Error() string {
	return fmt.Sprintf("reorder partially applied (%d of %d writes): %v", e.Applied, e.Total, e.Cause)
}

func (e *PartialReorderFailure) Unwrap() error { return e.Cause }

// Wrap turns a store error into a *PersistenceError. nil stays nil.
func Wrap(collection, op string, id uuid.UUID, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Collection: collection, Op: op, ID: id, Err: err}
}

// Result describes what a mutation touched. Callers must drop the cache
// keys in Invalidate, even when the mutation returned an error.
type Result struct {
	Collection string   `json:"collection"`
	Applied    int      `json:"applied"`
	Total      int      `json:"total"`
	Invalidate []string `json:"-"`
}

// Mutation returns the Result of a single-row write to collection.
func Mutation(collection string) Result {
	return Result{Collection: collection, Applied: 1, Total: 1, Invalidate: []string{cache.QueryKey(collection)}}
}

// Writer persists one display_order value.
type Writer interface {
	UpdateDisplayOrder(ctx context.Context, collection string, id uuid.UUID, order int) error
}

// Apply writes ws to collection sequentially. It does not retry or roll
// back. The context's cancellation is ignored once the first write is
// issued, so a client going away cannot cut the sequence short.
func Apply(ctx context.Context, w Writer, collection string, ws ordering.WriteSet) (Result, error) {
	res := Result{Collection: collection, Total: len(ws)}
	if len(ws) == 0 {
		return res, nil
	}
	res.Invalidate = []string{cache.QueryKey(collection)}

	ctx = context.WithoutCancel(ctx)
	for _, write := range ws {
		err := w.UpdateDisplayOrder(ctx, collection, write.ID, write.DisplayOrder)
		metrics.RecordWrite(collection, err == nil)
		if err != nil {
			cause := &PersistenceError{Collection: collection, Op: "update display_order", ID: write.ID, Err: err}
			if res.Applied == 0 {
				metrics.RecordReorder(collection, "failed")
				return res, cause
			}
			metrics.RecordReorder(collection, "partial")
			slog.Warn("reorder partially applied",
				"collection", collection,
				"applied", res.Applied,
				"total", res.Total,
				"failed_id", write.ID,
				"error", err,
			)
			return res, &PartialReorderFailure{Applied: res.Applied, Total: res.Total, Cause: cause}
		}
		res.Applied++
	}

	metrics.RecordReorder(collection, "ok")
	return res, nil
}
