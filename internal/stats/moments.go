// Package stats holds the streaming and batch statistics used by the
// simulation runner: online moments, histograms, descriptive statistics
// over stored samples, and the t-table for confidence intervals.
package stats

import "math"

// Moments accumulates the first four central moments of a stream without
// storing samples. The zero value is ready to use. Update is O(1) and
// Combine merges two independent accumulators, so per-worker Moments can be
// reduced after a parallel run.
type Moments struct {
	Count int64
	M1    float64
	M2    float64
	M3    float64
	M4    float64
}

// Update folds one observation into the accumulator.
func (m *Moments) Update(x float64) {
	n1 := float64(m.Count)
	m.Count++
	n := float64(m.Count)

	delta := x - m.M1
	deltaN := delta / n
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * n1

	m.M1 += deltaN
	m.M4 += term1*deltaN2*(n*n-3*n+3) + 6*deltaN2*m.M2 - 4*deltaN*m.M3
	m.M3 += term1*deltaN*(n-2) - 3*deltaN*m.M2
	m.M2 += term1
}

// Combine merges another accumulator into this one. The result is identical
// to having observed both streams in a single accumulator, up to floating
// point rounding.
func (m *Moments) Combine(o Moments) {
	if o.Count == 0 {
		return
	}
	if m.Count == 0 {
		*m = o
		return
	}
	na := float64(m.Count)
	nb := float64(o.Count)
	n := na + nb

	delta := o.M1 - m.M1
	delta2 := delta * delta
	delta3 := delta * delta2
	delta4 := delta2 * delta2

	M1 := (na*m.M1 + nb*o.M1) / n
	M2 := m.M2 + o.M2 + delta2*na*nb/n
	M3 := m.M3 + o.M3 + delta3*na*nb*(na-nb)/(n*n) +
		3.0*delta*(na*o.M2-nb*m.M2)/n
	M4 := m.M4 + o.M4 + delta4*na*nb*(na*na-na*nb+nb*nb)/(n*n*n) +
		6.0*delta2*(na*na*o.M2+nb*nb*m.M2)/(n*n) +
		4.0*delta*(na*o.M3-nb*m.M3)/n

	m.Count += o.Count
	m.M1, m.M2, m.M3, m.M4 = M1, M2, M3, M4
}

// Mean returns the running mean, 0 when empty.
func (m *Moments) Mean() float64 { return m.M1 }

// SampleVariance returns the unbiased variance, 0 for fewer than 2 samples.
func (m *Moments) SampleVariance() float64 {
	if m.Count < 2 {
		return 0
	}
	return m.M2 / float64(m.Count-1)
}

// StdDev returns the sample standard deviation.
func (m *Moments) StdDev() float64 { return math.Sqrt(m.SampleVariance()) }

// Skewness returns the moment-based skewness, 0 for degenerate streams.
func (m *Moments) Skewness() float64 {
	if m.Count <= 2 || m.M2 <= 0 {
		return 0
	}
	return math.Sqrt(float64(m.Count)) * m.M3 / math.Pow(m.M2, 1.5)
}

// ExcessKurtosis returns the moment-based kurtosis minus 3, 0 for
// degenerate streams.
func (m *Moments) ExcessKurtosis() float64 {
	if m.Count <= 3 || m.M2 <= 0 {
		return 0
	}
	return float64(m.Count)*m.M4/(m.M2*m.M2) - 3.0
}
