package stats

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/engine"
)

func TestHistogramCounts(t *testing.T) {
	h, err := NewHistogram(1, 4)
	if err != nil {
		t.Fatalf("NewHistogram: %v", err)
	}
	for _, v := range []int{1, 1, 2, 4, 9} {
		h.Add(v)
	}

	if h.Total() != 5 || h.Outliers() != 1 {
		t.Errorf("Total=%d Outliers=%d, want 5 and 1", h.Total(), h.Outliers())
	}
	if !h.Frequency(1).Equal(decimal.RequireFromString("0.4")) {
		t.Errorf("Frequency(1) = %s, want 0.4", h.Frequency(1))
	}
	if h.Covers(1, 4) {
		t.Error("Covers(1, 4) = true, but 3 was never seen")
	}
	if !h.Covers(1, 2) {
		t.Error("Covers(1, 2) = false")
	}
	if !h.Expected().Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("Expected = %s, want 0.25", h.Expected())
	}
	if !h.MaxDeviation().Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("MaxDeviation = %s, want 0.25", h.MaxDeviation())
	}
}

func TestHistogramRejectsInvertedBounds(t *testing.T) {
	if _, err := NewHistogram(5, 1); err == nil {
		t.Fatal("expected error for inverted bounds")
	}
}

func TestRandomNumberIsUniform(t *testing.T) {
	r := decision.NewRandom(engine.NewSeededSource(engine.Seeds{Server: "s", Client: "c"}, 1))
	h, _ := NewHistogram(1, 6)
	if err := h.Collect(12000, func() (int, error) { return r.Number(1, 6, nil, nil) }); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	rep := h.Report()
	if !rep.Covered || rep.Outliers != 0 {
		t.Errorf("report = %+v", rep)
	}
	if rep.MaxDeviation.GreaterThan(decimal.RequireFromString("0.02")) {
		t.Errorf("MaxDeviation = %s, want <= 0.02", rep.MaxDeviation)
	}
	if len(rep.Buckets) != 6 {
		t.Errorf("buckets = %d, want 6", len(rep.Buckets))
	}
}

func TestCollectStopsOnError(t *testing.T) {
	h, _ := NewHistogram(0, 1)
	err := h.Collect(10, func() (int, error) { return decision.Fail{}.CoinFlip(nil, nil) })
	if !errors.Is(err, decision.ErrUnimplemented) {
		t.Fatalf("err = %v, want ErrUnimplemented", err)
	}
	if h.Total() != 0 {
		t.Errorf("Total = %d, want 0", h.Total())
	}
}
