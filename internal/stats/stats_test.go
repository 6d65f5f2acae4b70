package stats

import (
	"testing"

	"github.com/google/uuid"

	"meewadmin/internal/models"
)

func ptr(s string) *string { return &s }

func TestShipmentStats(t *testing.T) {
	shipments := []models.Shipment{
		{Status: models.ShipmentDelivered},
		{Status: models.ShipmentDelivered},
		{Status: models.ShipmentDelivered},
		{Status: models.ShipmentInTransit},
	}
	got := ShipmentStats(shipments)

	if got.Total != 4 {
		t.Errorf("total: got %d", got.Total)
	}
	if got.Counts[models.ShipmentPending] != 0 || got.Counts[models.ShipmentDelivered] != 3 {
		t.Errorf("counts: %v", got.Counts)
	}
	if len(got.Counts) != len(models.ShipmentStatuses) {
		t.Errorf("every status should be present, got %v", got.Counts)
	}
	if got.Breakdown[0].Label != "delivered" || got.Breakdown[0].Percentage != 75 {
		t.Errorf("breakdown head: %+v", got.Breakdown[0])
	}
	if got.Breakdown[1].Label != "in_transit" || got.Breakdown[1].Percentage != 25 {
		t.Errorf("breakdown second: %+v", got.Breakdown[1])
	}
}

func TestShipmentStats_Empty(t *testing.T) {
	got := ShipmentStats(nil)
	for _, s := range got.Breakdown {
		if s.Percentage != 0 {
			t.Errorf("%s: got %d%%, want 0", s.Label, s.Percentage)
		}
	}
}

func TestSalesByCategory(t *testing.T) {
	shoes, bags := uuid.New(), uuid.New()
	lines := []models.SalesLine{
		{CategoryID: &shoes, CategoryName: ptr("Shoes"), Quantity: 2, UnitPrice: 25},
		{CategoryID: &bags, CategoryName: ptr("Bags"), Quantity: 1, UnitPrice: 30},
		{Quantity: 4, UnitPrice: 5},
	}
	got := SalesByCategory(lines)

	want := []struct {
		label string
		id    *uuid.UUID
		pct   int
	}{
		{"Shoes", &shoes, 50},
		{"Bags", &bags, 30},
		{Uncategorized, nil, 20},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d shares: %+v", len(got), got)
	}
	for i, w := range want {
		if got[i].Label != w.label || got[i].Percentage != w.pct {
			t.Errorf("share %d: got %+v, want %s %d%%", i, got[i], w.label, w.pct)
		}
		if (w.id == nil) != (got[i].CategoryID == nil) || (w.id != nil && *got[i].CategoryID != *w.id) {
			t.Errorf("share %d: category id %v, want %v", i, got[i].CategoryID, w.id)
		}
	}
}

func TestSalesByCategory_SameName(t *testing.T) {
	sale1, sale2 := uuid.New(), uuid.New()
	lines := []models.SalesLine{
		{CategoryID: &sale1, CategoryName: ptr("Sale"), Quantity: 3, UnitPrice: 10},
		{CategoryID: &sale2, CategoryName: ptr("Sale"), Quantity: 1, UnitPrice: 10},
	}
	got := SalesByCategory(lines)
	if len(got) != 2 {
		t.Fatalf("categories sharing a name must not merge: %+v", got)
	}
	if *got[0].CategoryID != sale1 || got[0].Percentage != 75 || got[1].Percentage != 25 {
		t.Errorf("shares: %+v", got)
	}
}
