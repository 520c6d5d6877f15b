package indicator

// MACDResult bundles the three MACD columns.
type MACDResult struct {
	Line   Column
	Signal Column
	Diff   Column
}

// MACD computes the moving average convergence divergence: the fast EMA
// minus the slow EMA, its own EMA as the signal line, and their difference.
// The line is defined from index slow-1, the signal and diff from index
// slow-1 + signal-1.
func MACD(values []float64, fast, slow, signal int) MACDResult {
	n := len(values)
	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)
	if !slowEMA.Defined(n - 1) {
		return MACDResult{Line: Undefined(n), Signal: Undefined(n), Diff: Undefined(n)}
	}

	line := make([]float64, n)
	for i := slowEMA.first; i < n; i++ {
		line[i] = fastEMA.values[i] - slowEMA.values[i]
	}
	lineCol := NewColumn(line, slowEMA.first)

	signalCol := emaTail(lineCol, signal)

	diff := make([]float64, n)
	for i := signalCol.first; i < n; i++ {
		diff[i] = line[i] - signalCol.values[i]
	}
	return MACDResult{
		Line:   lineCol,
		Signal: signalCol,
		Diff:   NewColumn(diff, signalCol.first),
	}
}
