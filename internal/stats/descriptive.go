package stats

import (
	"math"
	"sort"
)

// Descriptive statistics over fully stored samples. These are the exact
// counterparts of the streaming Moments methods and are used when the
// runner keeps every round total in memory.

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance returns the population variance, 0 for fewer than 2 samples.
func Variance(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	mean := Mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(n)
}

// StdDev returns the sample standard deviation.
func StdDev(xs []float64) float64 { return math.Sqrt(Variance(xs)) }

// Skewness returns the bias-corrected sample skewness, 0 for fewer than 3
// samples or zero variance.
func Skewness(xs []float64) float64 {
	n := float64(len(xs))
	if n < 3 {
		return 0
	}
	mean := Mean(xs)
	var m2, m3 float64
	for _, x := range xs {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 <= 0 {
		return 0
	}
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// Kurtosis returns the bias-corrected excess kurtosis, 0 for fewer than 4
// samples or zero variance.
func Kurtosis(xs []float64) float64 {
	n := float64(len(xs))
	if n < 4 {
		return 0
	}
	mean := Mean(xs)
	var m2, m4 float64
	for _, x := range xs {
		d := x - mean
		d2 := d * d
		m2 += d2
		m4 += d2 * d2
	}
	if m2 <= 0 {
		return 0
	}
	// Normalizes by the population standard deviation before applying the
	// sample correction terms.
	term1 := (n + 1) * n / ((n - 1) * (n - 2) * (n - 3))
	return term1*(n*n*m4/(m2*m2)) - 3*(n-1)*(n-1)/((n-2)*(n-3))
}

// PercentileOfValue returns the percentile rank of v within a sorted
// ascending slice, counting ties at half weight.
func PercentileOfValue(sorted []float64, v float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	lo := sort.SearchFloat64s(sorted, v)
	count := lo
	if lo < n && sorted[lo] == v {
		hi := lo
		for hi < n && sorted[hi] == v {
			hi++
		}
		count += (hi - lo) / 2
	}
	return float64(count) / float64(n) * 100
}

// ValueAtPercentile returns the p-th percentile of a sorted ascending
// slice, interpolating between ranks. p is in [0, 100].
func ValueAtPercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p >= 100 {
		return sorted[n-1]
	}
	if p <= 0 {
		return sorted[0]
	}
	rank := p / 100.0 * float64(n-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
