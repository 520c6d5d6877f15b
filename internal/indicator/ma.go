package indicator

// SMA computes the simple moving average over the given window. The first
// window-1 entries are undefined.
func SMA(values []float64, window int) Column {
	if window <= 0 || len(values) < window {
		return Undefined(len(values))
	}

	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return NewColumn(out, window-1)
}

// EMA computes the exponential moving average with smoothing 2/(window+1).
// The first defined value is seeded with the SMA of the first window values,
// matching the standard seeding used across charting libraries.
func EMA(values []float64, window int) Column {
	if window <= 0 || len(values) < window {
		return Undefined(len(values))
	}

	out := make([]float64, len(values))
	alpha := 2.0 / float64(window+1)

	seed := 0.0
	for _, v := range values[:window] {
		seed += v
	}
	out[window-1] = seed / float64(window)

	for i := window; i < len(values); i++ {
		out[i] = values[i]*alpha + out[i-1]*(1-alpha)
	}
	return NewColumn(out, window-1)
}

// RollingMean is SMA under a name that reads better for volume and range
// columns.
func RollingMean(values []float64, window int) Column {
	return SMA(values, window)
}

// emaTail runs an EMA over the defined tail of an input column, preserving
// the combined warm-up offset. Used for the MACD signal line.
func emaTail(c Column, window int) Column {
	defined := c.values[c.first:]
	tail := EMA(defined, window)
	if tail.FirstDefined() == tail.Len() {
		return Undefined(c.Len())
	}

	out := make([]float64, c.Len())
	copy(out[c.first:], tail.values)
	return NewColumn(out, c.first+tail.first)
}
