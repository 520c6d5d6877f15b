package indicator

import "math"

// BollingerResult bundles the band columns.
type BollingerResult struct {
	Upper Column
	Lower Column
	Width Column
}

// Bollinger computes bands at mid +/- k standard deviations around the SMA.
// Uses the population standard deviation (divide by window).
func Bollinger(values []float64, window int, k float64) BollingerResult {
	n := len(values)
	if window <= 0 || n < window {
		return BollingerResult{Upper: Undefined(n), Lower: Undefined(n), Width: Undefined(n)}
	}

	upper := make([]float64, n)
	lower := make([]float64, n)
	width := make([]float64, n)

	for i := window - 1; i < n; i++ {
		win := values[i-window+1 : i+1]
		mean := 0.0
		for _, v := range win {
			mean += v
		}
		mean /= float64(window)

		variance := 0.0
		for _, v := range win {
			d := v - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(window))

		upper[i] = mean + k*sd
		lower[i] = mean - k*sd
		width[i] = upper[i] - lower[i]
	}

	first := window - 1
	return BollingerResult{
		Upper: NewColumn(upper, first),
		Lower: NewColumn(lower, first),
		Width: NewColumn(width, first),
	}
}
