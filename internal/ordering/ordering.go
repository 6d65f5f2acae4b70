// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ordering computes display_order writes for user-sortable lists
// (banners, onboarding images, categories, product images). It never talks
// to storage: every operation takes an in-memory snapshot and returns the
// WriteSet the caller must persist.
package ordering

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrRecordNotFound is returned when the record to move is not in the list.
	ErrRecordNotFound = errors.New("record not in list")

	// ErrIndexOutOfRange is returned when a drag-and-drop index is outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Direction is the way a record moves in MoveAdjacent.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection validates a direction coming from a request body.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Up, Down:
		return d, nil
	default:
		return "", fmt.Errorf("invalid direction %q", s)
	}
}

// Item is the part of a record that ordering cares about.
type Item struct {
	ID           uuid.UUID `json:"id"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Orderable is implemented by every model that lives in a sortable list.
type Orderable interface {
	OrderItem() Item
}

// OrderItem lets a bare Item be used wherever an Orderable is expected.
func (i Item) OrderItem() Item { return i }

// Write sets one record's display_order.
type Write struct {
	ID           uuid.UUID `json:"id"`
	DisplayOrder int       `json:"display_order"`
}

// WriteSet is an ordered list of writes. Order matters: the persistence
// adapter applies them one by one in this sequence.
type WriteSet []Write

// compareItems orders by display_order, then created_at, then id so that
// the display sequence is stable even when the stored integers collide.
func compareItems(a, b Item) int {
	if c := cmp.Compare(a.DisplayOrder, b.DisplayOrder); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

// Sort returns a copy of list in display sequence.
func Sort[T Orderable](list []T) []T {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b T) int {
		return compareItems(a.OrderItem(), b.OrderItem())
	})
	return out
}

// MoveAdjacent swaps the display_order of id and its neighbour in dir.
// list must already be in display sequence. Moving past either end is a
// no-op and returns an empty WriteSet.
func MoveAdjacent[T Orderable](list []T, id uuid.UUID, dir Direction) (WriteSet, error) {
	idx := slices.IndexFunc(list, func(r T) bool { return r.OrderItem().ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("move %s: %w", id, ErrRecordNotFound)
	}

	var neighbour int
	switch dir {
	case Up:
		neighbour = idx - 1
	case Down:
		neighbour = idx + 1
	default:
		return nil, fmt.Errorf("move %s: invalid direction %q", id, dir)
	}
	if neighbour < 0 || neighbour >= len(list) {
		return WriteSet{}, nil
	}

	cur, other := list[idx].OrderItem(), list[neighbour].OrderItem()
	if cur.DisplayOrder == other.DisplayOrder {
		// Swapping equal values changes nothing, so renumber the whole
		// list with the two positions exchanged instead.
		return ReorderByDragDrop(list, idx, neighbour)
	}

	return WriteSet{
		{ID: cur.ID, DisplayOrder: other.DisplayOrder},
		{ID: other.ID, DisplayOrder: cur.DisplayOrder},
	}, nil
}

// ReorderByDragDrop moves the element at src to dst and renumbers every
// element to its 1-based position. The input order is taken as the current
// sequence whatever the stored display_order values are, so running it
// again on a half-applied result still converges.
func ReorderByDragDrop[T Orderable](list []T, src, dst int) (WriteSet, error) {
	n := len(list)
	if src < 0 || src >= n {
		return nil, fmt.Errorf("source index %d of %d: %w", src, n, ErrIndexOutOfRange)
	}
	if dst < 0 || dst >= n {
		return nil, fmt.Errorf("destination index %d of %d: %w", dst, n, ErrIndexOutOfRange)
	}

	ids := make([]uuid.UUID, n)
	for i, r := range list {
		ids[i] = r.OrderItem().ID
	}
	moved := ids[src]
	ids = slices.Delete(ids, src, src+1)
	ids = slices.Insert(ids, dst, moved)

	ws := make(WriteSet, n)
	for i, id := range ids {
		ws[i] = Write{ID: id, DisplayOrder: i + 1}
	}
	return ws, nil
}

// AppendNew returns the display_order for a record added at the end.
func AppendNew[T Orderable](list []T) int {
	maxOrder := 0
	for _, r := range list {
		maxOrder = max(maxOrder, r.OrderItem().DisplayOrder)
	}
	return maxOrder + 1
}

// Changed drops writes whose value is already stored. Useful for logging
// how much of a full renumber actually touches the table.
func (ws WriteSet) Changed(current []Item) WriteSet {
	stored := make(map[uuid.UUID]int, len(current))
	for _, it := range current {
		stored[it.ID] = it.DisplayOrder
	}
	var out WriteSet
	for _, w := range ws {
		if v, ok := stored[w.ID]; !ok || v != w.DisplayOrder {
			out = append(out, w)
		}
	}
	return out
}
