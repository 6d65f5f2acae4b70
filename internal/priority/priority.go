// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package priority picks the winning promotion among current candidates and
// computes percentage breakdowns for dashboard aggregates.
package priority

import (
	"bytes"
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"meewadmin/internal/validity"
)

// Rank holds the sort keys of a prioritized record.
type Rank struct {
	Priority  int
	CreatedAt time.Time
	ID        uuid.UUID
}

// Candidate is a windowed record that can compete for display.
type Candidate interface {
	validity.Windowed
	Rank() Rank
}

// compareRank orders winners first: higher priority, then newer, then the
// larger id so equal ranks never depend on input order.
func compareRank(a, b Rank) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return bytes.Compare(b.ID[:], a.ID[:])
}

// SelectWinner returns the highest ranked current record, or false when no
// record is current at now.
func SelectWinner[T Candidate](records []T, now time.Time) (T, bool) {
	var (
		best  T
		found bool
	)
	for r := range validity.FilterCurrent(records, now) {
		if !found || compareRank(r.Rank(), best.Rank()) < 0 {
			best, found = r, true
		}
	}
	return best, found
}

// SortByRank returns the current records ordered as SelectWinner ranks them.
func SortByRank[T Candidate](records []T, now time.Time) []T {
	out := slices.Collect(validity.FilterCurrent(records, now))
	slices.SortFunc(out, func(a, b T) int { return compareRank(a.Rank(), b.Rank()) })
	return out
}

// Share is one bucket of a percentage breakdown.
type Share struct {
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	Percentage int     `json:"percentage"`
}

// PercentageBreakdown converts bucket totals into rounded percentages of the
// grand total. A zero (or negative) total yields 0 for every bucket. Output
// is sorted by amount descending, then label.
func PercentageBreakdown(buckets map[string]float64) []Share {
	var total float64
	for _, amount := range buckets {
		total += amount
	}

	shares := make([]Share, 0, len(buckets))
	for label, amount := range buckets {
		s := Share{Label: label, Amount: amount}
		if total > 0 {
			s.Percentage = int(math.Round(amount / total * 100))
		}
		shares = append(shares, s)
	}

	slices.SortFunc(shares, func(a, b Share) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return shares
}
