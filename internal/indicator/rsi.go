package indicator

// RSI computes the Wilder relative strength index. Average gain/loss are
// seeded with the simple mean of the first window deltas and then smoothed
// with alpha = 1/window. The first defined entry is at index window.
//
// Degenerate cases are explicit: a series with no losses reads 100, a series
// with neither gains nor losses (flat prices) reads the neutral 50.
func RSI(values []float64, window int) Column {
	if window <= 0 || len(values) < window+1 {
		return Undefined(len(values))
	}

	out := make([]float64, len(values))

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= window; i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(window)
	avgLoss /= float64(window)
	out[window] = rsiValue(avgGain, avgLoss)

	w := float64(window)
	for i := window + 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*(w-1) + gain) / w
		avgLoss = (avgLoss*(w-1) + loss) / w
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return NewColumn(out, window)
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
