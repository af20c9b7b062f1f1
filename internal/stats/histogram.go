package stats

import (
	"errors"
	"fmt"
)

// Histogram counts observations into half-open bins [edge[i], edge[i+1])
// plus an underflow bucket for negative values and an overflow bucket for
// values at or above the last edge. Edges always start with 0.0 and 1.0, so
// the first bin isolates zero payouts.
type Histogram struct {
	edges     []float64
	counts    []int64
	underflow int64
	overflow  int64
}

// NewCustomHistogram builds a histogram from caller-supplied upper edges.
// Edges must be ascending and the first must be at least 1 so the implicit
// 0.0 and 1.0 leading edges stay ordered.
func NewCustomHistogram(edges []float64) (*Histogram, error) {
	if len(edges) == 0 {
		return nil, errors.New("histogram: no edges given")
	}
	if edges[0] < 1 {
		return nil, fmt.Errorf("histogram: first edge %g below 1", edges[0])
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, fmt.Errorf("histogram: edges not ascending at %d", i)
		}
	}
	full := make([]float64, 0, len(edges)+2)
	full = append(full, 0.0, 1.0)
	full = append(full, edges...)
	return &Histogram{edges: full, counts: make([]int64, len(full)-1)}, nil
}

// NewProgressiveHistogram builds the default payout histogram: fine bins
// near zero widening toward the tail (steps of 5 to 100, 10 to 500, 100 to
// 2000, then 500 to 20000).
func NewProgressiveHistogram() *Histogram {
	edges := make([]float64, 0, 96)
	for v := 5.0; v <= 100; v += 5 {
		edges = append(edges, v)
	}
	for v := 110.0; v <= 500; v += 10 {
		edges = append(edges, v)
	}
	for v := 600.0; v <= 2000; v += 100 {
		edges = append(edges, v)
	}
	for v := 2500.0; v <= 20000; v += 500 {
		edges = append(edges, v)
	}
	h, err := NewCustomHistogram(edges)
	if err != nil {
		panic(err)
	}
	return h
}

// NewFixedWidthHistogram builds bins of equal width covering (1, max].
func NewFixedWidthHistogram(max float64, bins int) (*Histogram, error) {
	if max <= 1 {
		return nil, fmt.Errorf("histogram: max %g must exceed 1", max)
	}
	if bins < 1 {
		return nil, fmt.Errorf("histogram: bins %d must be positive", bins)
	}
	width := (max - 1) / float64(bins)
	edges := make([]float64, 0, bins)
	for i := 1; i <= bins; i++ {
		edges = append(edges, 1+width*float64(i))
	}
	return NewCustomHistogram(edges)
}

// Clone returns an empty histogram with the same binning.
func (h *Histogram) Clone() *Histogram {
	return &Histogram{edges: h.edges, counts: make([]int64, len(h.counts))}
}

// Observe records one value.
func (h *Histogram) Observe(v float64) {
	if v < 0 {
		h.underflow++
		return
	}
	if v >= h.edges[len(h.edges)-1] {
		h.overflow++
		return
	}
	// Linear walk is fine here: observation cost is dominated by the round
	// simulation, and most payouts land in the first few bins.
	for i := 1; i < len(h.edges); i++ {
		if v < h.edges[i] {
			h.counts[i-1]++
			return
		}
	}
}

// Merge adds another histogram's counts. Both must share binning, which
// holds for any histogram produced by Clone.
func (h *Histogram) Merge(o *Histogram) {
	for i := range h.counts {
		h.counts[i] += o.counts[i]
	}
	h.underflow += o.underflow
	h.overflow += o.overflow
}

// Total returns the number of recorded observations including underflow and
// overflow.
func (h *Histogram) Total() int64 {
	t := h.underflow + h.overflow
	for _, c := range h.counts {
		t += c
	}
	return t
}

// Percentile estimates the value below which p percent of observations
// fall, linearly interpolating within the containing bin. Values swallowed
// by the overflow bucket clamp to the last edge.
func (h *Histogram) Percentile(p float64) float64 {
	total := h.Total()
	if total == 0 {
		return 0
	}
	target := int64(float64(total) * p / 100.0)
	cum := h.underflow
	if target <= cum {
		return h.edges[0]
	}
	for i, c := range h.counts {
		if cum+c >= target && c > 0 {
			lo, hi := h.edges[i], h.edges[i+1]
			frac := float64(target-cum) / float64(c)
			return lo + (hi-lo)*frac
		}
		cum += c
	}
	return h.edges[len(h.edges)-1]
}

// Edges returns the bin edges including the implicit leading 0.0 and 1.0.
func (h *Histogram) Edges() []float64 { return h.edges }

// Counts returns the per-bin counts.
func (h *Histogram) Counts() []int64 { return h.counts }

// Underflow returns the count of negative observations.
func (h *Histogram) Underflow() int64 { return h.underflow }

// Overflow returns the count of observations at or above the last edge.
func (h *Histogram) Overflow() int64 { return h.overflow }
