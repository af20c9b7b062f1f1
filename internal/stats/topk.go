package stats

import "sort"

// TopK tracks the k largest values seen in a stream. Values are kept
// ascending so the smallest retained value is always vals[0].
type TopK struct {
	k    int
	vals []float64
}

// NewTopK returns a tracker for the k largest values.
func NewTopK(k int) *TopK {
	return &TopK{k: k, vals: make([]float64, 0, k)}
}

// Observe offers one value to the tracker.
func (t *TopK) Observe(v float64) {
	if len(t.vals) < t.k {
		t.vals = append(t.vals, v)
		sort.Float64s(t.vals)
		return
	}
	if t.k == 0 || v <= t.vals[0] {
		return
	}
	t.vals[0] = v
	// Restore ascending order with a single bubble pass.
	for i := 1; i < len(t.vals) && t.vals[i] < t.vals[i-1]; i++ {
		t.vals[i], t.vals[i-1] = t.vals[i-1], t.vals[i]
	}
}

// Merge folds another tracker's values into this one.
func (t *TopK) Merge(o *TopK) {
	for _, v := range o.vals {
		t.Observe(v)
	}
}

// Descending returns the retained values largest first.
func (t *TopK) Descending() []float64 {
	out := make([]float64, len(t.vals))
	for i, v := range t.vals {
		out[len(out)-1-i] = v
	}
	return out
}
