// Package stats summarizes the outcomes of bounded decisions so a provider
// can be checked for range coverage and uniformity.
package stats

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// frequencyPlaces is the precision of reported frequencies.
const frequencyPlaces = 8

// Histogram counts integer outcomes in [Lo, Hi].
type Histogram struct {
	Lo, Hi int

	counts   []int
	total    int
	outliers int
}

// NewHistogram creates a histogram for outcomes in [lo, hi].
func NewHistogram(lo, hi int) (*Histogram, error) {
	if hi < lo {
		return nil, fmt.Errorf("stats: inverted bounds [%d, %d]", lo, hi)
	}
	return &Histogram{Lo: lo, Hi: hi, counts: make([]int, hi-lo+1)}, nil
}

// Add records v. Values outside the bounds are counted as outliers.
func (h *Histogram) Add(v int) {
	h.total++
	if v < h.Lo || v > h.Hi {
		h.outliers++
		return
	}
	h.counts[v-h.Lo]++
}

// Collect calls draw n times and records each result. It stops at the
// first error.
func (h *Histogram) Collect(n int, draw func() (int, error)) error {
	for i := 0; i < n; i++ {
		v, err := draw()
		if err != nil {
			return fmt.Errorf("stats: draw %d: %w", i, err)
		}
		h.Add(v)
	}
	return nil
}

func (h *Histogram) Total() int    { return h.total }
func (h *Histogram) Outliers() int { return h.outliers }

// Count is the number of times v was recorded.
func (h *Histogram) Count(v int) int {
	if v < h.Lo || v > h.Hi {
		return 0
	}
	return h.counts[v-h.Lo]
}

// Frequency is Count(v) / Total, or zero for an empty histogram.
func (h *Histogram) Frequency(v int) decimal.Decimal {
	if h.total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(h.Count(v))).
		DivRound(decimal.NewFromInt(int64(h.total)), frequencyPlaces)
}

// Covers reports whether every value in [lo, hi] was seen at least once.
func (h *Histogram) Covers(lo, hi int) bool {
	for v := lo; v <= hi; v++ {
		if h.Count(v) == 0 {
			return false
		}
	}
	return true
}

// Expected is the per-value frequency of a uniform distribution over the bounds.
func (h *Histogram) Expected() decimal.Decimal {
	return decimal.NewFromInt(1).DivRound(decimal.NewFromInt(int64(h.Hi-h.Lo+1)), frequencyPlaces)
}

// MaxDeviation is the largest absolute difference between an observed
// frequency and the uniform expectation.
func (h *Histogram) MaxDeviation() decimal.Decimal {
	expected := h.Expected()
	worst := decimal.Zero
	for v := h.Lo; v <= h.Hi; v++ {
		if d := h.Frequency(v).Sub(expected).Abs(); d.GreaterThan(worst) {
			worst = d
		}
	}
	return worst
}

// Bucket is one value of a Report.
type Bucket struct {
	Value     int             `json:"value"`
	Count     int             `json:"count"`
	Frequency decimal.Decimal `json:"frequency"`
}

// Report is the JSON form of a histogram.
type Report struct {
	Lo           int             `json:"lo"`
	Hi           int             `json:"hi"`
	Total        int             `json:"total"`
	Outliers     int             `json:"outliers"`
	Covered      bool            `json:"covered"`
	Expected     decimal.Decimal `json:"expected"`
	MaxDeviation decimal.Decimal `json:"maxDeviation"`
	Buckets      []Bucket        `json:"buckets"`
}

// Report summarizes the histogram.
func (h *Histogram) Report() Report {
	buckets := make([]Bucket, 0, len(h.counts))
	for v := h.Lo; v <= h.Hi; v++ {
		buckets = append(buckets, Bucket{Value: v, Count: h.Count(v), Frequency: h.Frequency(v)})
	}
	return Report{
		Lo:           h.Lo,
		Hi:           h.Hi,
		Total:        h.total,
		Outliers:     h.outliers,
		Covered:      h.Covers(h.Lo, h.Hi),
		Expected:     h.Expected(),
		MaxDeviation: h.MaxDeviation(),
		Buckets:      buckets,
	}
}
