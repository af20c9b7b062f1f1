package stats

import "math"

// tRow is one row of the two-tailed Student's t critical-value table:
// values for 90%, 95% and 99% confidence at a given df.
type tRow struct {
	df int
	t  [3]float64
}

// Two-tailed critical values for common small df. Above df 100 the
// t-distribution is close enough to normal that z-scores are used.
var tTable = []tRow{
	{1, [3]float64{6.314, 12.706, 63.657}},
	{2, [3]float64{2.920, 4.303, 9.925}},
	{3, [3]float64{2.353, 3.182, 5.841}},
	{4, [3]float64{2.132, 2.776, 4.604}},
	{5, [3]float64{2.015, 2.571, 4.032}},
	{6, [3]float64{1.943, 2.447, 3.707}},
	{7, [3]float64{1.895, 2.365, 3.499}},
	{8, [3]float64{1.860, 2.306, 3.355}},
	{9, [3]float64{1.833, 2.262, 3.250}},
	{10, [3]float64{1.812, 2.228, 3.169}},
	{15, [3]float64{1.753, 2.131, 2.947}},
	{20, [3]float64{1.725, 2.086, 2.845}},
	{25, [3]float64{1.708, 2.060, 2.787}},
	{30, [3]float64{1.697, 2.042, 2.750}},
	{40, [3]float64{1.684, 2.021, 2.704}},
	{50, [3]float64{1.676, 2.009, 2.678}},
	{60, [3]float64{1.671, 2.000, 2.660}},
	{80, [3]float64{1.664, 1.990, 2.639}},
	{100, [3]float64{1.660, 1.984, 2.626}},
}

// TValue returns the two-tailed critical t value for the given confidence
// level (90, 95 or 99) and degrees of freedom. Unsupported levels or df < 1
// return NaN. Between table rows the next larger df entry is used, which
// slightly widens the interval.
func TValue(confidence float64, df int) float64 {
	if df < 1 {
		return math.NaN()
	}
	var col int
	switch confidence {
	case 90:
		col = 0
	case 95:
		col = 1
	case 99:
		col = 2
	default:
		return math.NaN()
	}
	if df > 100 {
		return [3]float64{1.645, 1.960, 2.576}[col]
	}
	for _, row := range tTable {
		if row.df >= df {
			return row.t[col]
		}
	}
	return tTable[len(tTable)-1].t[col]
}
