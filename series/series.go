// Package series aggregates per-reader time series and renders them as
// compact sparkline graphs for the dashboard.
package series

// SumSeries adds parallel sequences element by element. The result is as long
// as the longest input; positions past the end of a shorter input count as 0.
func SumSeries(seriesList [][]float64) []float64 {
	n := 0
	for _, s := range seriesList {
		if len(s) > n {
			n = len(s)
		}
	}
	out := make([]float64, n)
	for _, s := range seriesList {
		for i, v := range s {
			out[i] += v
		}
	}
	return out
}

// SumInt64 is SumSeries for integer counters such as bytes sent per second.
func SumInt64(seriesList [][]int64) []float64 {
	converted := make([][]float64, 0, len(seriesList))
	for _, s := range seriesList {
		converted = append(converted, ToFloat(s))
	}
	return SumSeries(converted)
}

// ToFloat widens an integer sequence.
func ToFloat(values []int64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// Tail returns at most the last n points (most recent last).
func Tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
