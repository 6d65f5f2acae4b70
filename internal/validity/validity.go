// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validity classifies promotional records (popups, banners, coupons,
// free-shipping windows) by their start/end dates and active flag.
package validity

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

// Classification is the derived state of a validity window at a given instant.
type Classification string

const (
	Disabled  Classification = "disabled"
	Scheduled Classification = "scheduled"
	Current   Classification = "current"
	Expired   Classification = "expired"
)

// IsLive reports whether records in this state can still be shown.
func (c Classification) IsLive() bool {
	return c == Scheduled || c == Current
}

// Window is the (start_date, end_date, is_active) triple. A nil bound is open.
type Window struct {
	StartDate *time.Time
	EndDate   *time.Time
	IsActive  bool
}

// Windowed is implemented by records that carry a validity window.
type Windowed interface {
	ValidityWindow() Window
}

// Classify returns the state of w at now. Bounds are inclusive.
func Classify(w Window, now time.Time) Classification {
	switch {
	case !w.IsActive:
		return Disabled
	case w.StartDate != nil && w.StartDate.After(now):
		return Scheduled
	case w.EndDate != nil && w.EndDate.Before(now):
		return Expired
	default:
		return Current
	}
}

// FilterCurrent yields the records that are current at now.
func FilterCurrent[T Windowed](records []T, now time.Time) iter.Seq[T] {
	return FilterByClassification(records, now, Current)
}

// FilterByClassification yields, in input order, the records whose state at
// now is one of wanted. The sequence can be ranged over more than once.
func FilterByClassification[T Windowed](records []T, now time.Time, wanted ...Classification) iter.Seq[T] {
	set := make(map[Classification]bool, len(wanted))
	for _, c := range wanted {
		set[c] = true
	}
	return func(yield func(T) bool) {
		for _, r := range records {
			if !set[Classify(r.ValidityWindow(), now)] {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// ParseClassifications parses a comma-separated list such as
// "current,scheduled". Unknown names are rejected.
func ParseClassifications(csv string) ([]Classification, error) {
	var out []Classification
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch c := Classification(part); c {
		case Disabled, Scheduled, Current, Expired:
			out = append(out, c)
		default:
			return nil, fmt.Errorf("unknown classification %q", part)
		}
	}
	return out, nil
}
