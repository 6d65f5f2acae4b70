package priority

import (
	"math"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"meewadmin/internal/validity"
)

type popup struct {
	name      string
	priority  int
	createdAt time.Time
	id        uuid.UUID
	window    validity.Window
}

func (p popup) ValidityWindow() validity.Window { return p.window }
func (p popup) Rank() Rank {
	return Rank{Priority: p.priority, CreatedAt: p.createdAt, ID: p.id}
}

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func active() validity.Window { return validity.Window{IsActive: true} }

func TestSelectWinner_HighestPriority(t *testing.T) {
	future := now.Add(time.Hour)
	records := []popup{
		{name: "low", priority: 1, createdAt: now, window: active()},
		{name: "high", priority: 9, createdAt: now.Add(-time.Hour), window: active()},
		{name: "scheduled-higher", priority: 99, window: validity.Window{StartDate: &future, IsActive: true}},
		{name: "disabled-higher", priority: 50, window: validity.Window{}},
	}

	got, ok := SelectWinner(records, now)
	if !ok {
		t.Fatal("expected a winner")
	}
	if got.name != "high" {
		t.Errorf("winner: got %q, want %q", got.name, "high")
	}
}

func TestSelectWinner_TieBreakOnCreatedAt(t *testing.T) {
	older := popup{name: "older", priority: 5, createdAt: now.Add(-2 * time.Hour), id: uuid.New(), window: active()}
	newer := popup{name: "newer", priority: 5, createdAt: now.Add(-1 * time.Hour), id: uuid.New(), window: active()}

	for _, records := range [][]popup{{older, newer}, {newer, older}} {
		got, ok := SelectWinner(records, now)
		if !ok || got.name != "newer" {
			t.Errorf("input %s,%s: got %q, want newer", records[0].name, records[1].name, got.name)
		}
	}
}

func TestSelectWinner_FullTieIsDeterministic(t *testing.T) {
	a := popup{name: "a", priority: 1, createdAt: now, id: uuid.New(), window: active()}
	b := popup{name: "b", priority: 1, createdAt: now, id: uuid.New(), window: active()}

	first, _ := SelectWinner([]popup{a, b}, now)
	second, _ := SelectWinner([]popup{b, a}, now)
	if first.name != second.name {
		t.Errorf("winner depends on input order: %q vs %q", first.name, second.name)
	}
}

func TestSelectWinner_NoneCurrent(t *testing.T) {
	past := now.Add(-time.Hour)
	records := []popup{
		{name: "expired", priority: 1, window: validity.Window{EndDate: &past, IsActive: true}},
	}
	if _, ok := SelectWinner(records, now); ok {
		t.Error("expected no winner")
	}
	if _, ok := SelectWinner([]popup{}, now); ok {
		t.Error("expected no winner for empty input")
	}
}

func TestSortByRank(t *testing.T) {
	records := []popup{
		{name: "mid", priority: 5, window: active()},
		{name: "top", priority: 7, window: active()},
		{name: "off", priority: 100},
		{name: "bottom", priority: 0, window: active()},
	}
	got := SortByRank(records, now)
	want := []string{"top", "mid", "bottom"}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].name != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i].name, want[i])
		}
	}
}

func TestPercentageBreakdown(t *testing.T) {
	got := PercentageBreakdown(map[string]float64{
		"Shoes":  500,
		"Bags":   300,
		"Hats":   200,
		"Gloves": 0,
	})

	want := []Share{
		{Label: "Shoes", Amount: 500, Percentage: 50},
		{Label: "Bags", Amount: 300, Percentage: 30},
		{Label: "Hats", Amount: 200, Percentage: 20},
		{Label: "Gloves", Amount: 0, Percentage: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d shares, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("share %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPercentageBreakdown_ZeroTotal(t *testing.T) {
	got := PercentageBreakdown(map[string]float64{"a": 0, "b": 0, "c": 0})
	for _, s := range got {
		if s.Percentage != 0 {
			t.Errorf("%s: got %d%%, want 0", s.Label, s.Percentage)
		}
	}
	if len(PercentageBreakdown(nil)) != 0 {
		t.Error("expected empty breakdown for nil input")
	}
}

func TestPercentageBreakdown_SumsToHundred(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 200; trial++ {
		n := 1 + r.IntN(12)
		buckets := make(map[string]float64, n)
		for i := 0; i < n; i++ {
			buckets[strconv.Itoa(i)] = float64(1 + r.IntN(10_000))
		}

		sum := 0
		for _, s := range PercentageBreakdown(buckets) {
			sum += s.Percentage
		}
		if diff := math.Abs(float64(sum - 100)); diff > float64(n-1) {
			t.Errorf("n=%d: percentages sum to %d", n, sum)
		}
	}
}
