// Package stats shapes raw order and shipment rows into dashboard charts.
package stats

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"meewadmin/internal/models"
	"meewadmin/internal/priority"
)

// Uncategorized labels sales whose product has no (existing) category.
const Uncategorized = "Uncategorized"

// ShipmentSummary counts shipments per status.
type ShipmentSummary struct {
	Total     int                           `json:"total"`
	Counts    map[models.ShipmentStatus]int `json:"counts"`
	Breakdown []priority.Share              `json:"breakdown"`
}

// ShipmentStats counts shipments by status. Every known status appears in
// Counts, zero or not; unknown statuses are counted under their own label.
func ShipmentStats(shipments []models.Shipment) ShipmentSummary {
	counts := make(map[models.ShipmentStatus]int, len(models.ShipmentStatuses))
	for _, s := range models.ShipmentStatuses {
		counts[s] = 0
	}
	for _, sh := range shipments {
		counts[sh.Status]++
	}

	buckets := make(map[string]float64, len(counts))
	for status, n := range counts {
		buckets[string(status)] = float64(n)
	}
	return ShipmentSummary{
		Total:     len(shipments),
		Counts:    counts,
		Breakdown: priority.PercentageBreakdown(buckets),
	}
}

// CategoryShare is one category's share of revenue. CategoryID is nil for
// the Uncategorized bucket.
type CategoryShare struct {
	CategoryID *uuid.UUID `json:"category_id"`
	priority.Share
}

// SalesByCategory sums quantity * unit price per category and returns each
// category's share of revenue. Categories are told apart by id, so two
// categories sharing a name get separate shares.
func SalesByCategory(lines []models.SalesLine) []CategoryShare {
	buckets := make(map[string]float64)
	labels := make(map[string]string)
	ids := make(map[string]uuid.UUID)
	for _, l := range lines {
		key, label := "", Uncategorized
		if l.CategoryID != nil {
			key = l.CategoryID.String()
			ids[key] = *l.CategoryID
			if l.CategoryName != nil && *l.CategoryName != "" {
				label = *l.CategoryName
			}
		}
		labels[key] = label
		buckets[key] += float64(l.Quantity) * l.UnitPrice
	}

	shares := priority.PercentageBreakdown(buckets)
	out := make([]CategoryShare, 0, len(shares))
	for _, sh := range shares {
		cs := CategoryShare{Share: sh}
		cs.Label = labels[sh.Label]
		if id, ok := ids[sh.Label]; ok {
			cs.CategoryID = &id
		}
		out = append(out, cs)
	}
	slices.SortStableFunc(out, func(a, b CategoryShare) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}
