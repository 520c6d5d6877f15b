// Package setups holds the boolean pattern detectors evaluated on the most
// recent bars of an annotated series.
package setups

import (
	"fmt"

	"crypto-buy-alerts/internal/indicator"
	"crypto-buy-alerts/internal/series"
)

// Result is the outcome of one evaluator on the latest bars.
type Result struct {
	Name      string
	Satisfied bool
}

// EvalFunc inspects the last one to three bars of an annotated series. It
// must be pure and must report series.ErrInsufficientHistory instead of
// reading undefined bars or indicator entries.
type EvalFunc func(a *indicator.Annotated) (bool, error)

// Evaluator pairs a setup name with its predicate.
type Evaluator struct {
	Name string
	eval EvalFunc
}

// Evaluate runs the predicate.
func (e Evaluator) Evaluate(a *indicator.Annotated) (Result, error) {
	ok, err := e.eval(a)
	if err != nil {
		return Result{}, fmt.Errorf("setup %s: %w", e.Name, err)
	}
	return Result{Name: e.Name, Satisfied: ok}, nil
}

// Primary returns the buy-side setups counted by the decision policy.
func Primary() []Evaluator {
	return []Evaluator{
		{Name: "breakout", eval: breakout},
		{Name: "pullback_confirmed", eval: pullbackConfirmed},
		{Name: "trend_reclaim", eval: trendReclaim},
		{Name: "golden_cross", eval: goldenCross},
		{Name: "inside_bar_breakout", eval: insideBarBreakout},
	}
}

// Veto returns the disqualifier: rising price with weakening momentum. When
// it fires the decision policy rejects regardless of the primary setups.
func Veto() Evaluator {
	return Evaluator{Name: "bearish_divergence_guard", eval: bearishDivergenceGuard}
}

// breakout: close above the upper Bollinger band with positive MACD momentum.
func breakout(a *indicator.Annotated) (bool, error) {
	cur, err := a.Bar(0)
	if err != nil {
		return false, err
	}
	i := a.LastIndex()
	upper, ok1 := a.BBUpper.At(i)
	diff, ok2 := a.MACDDiff.At(i)
	if !ok1 || !ok2 {
		return false, series.ErrInsufficientHistory
	}
	return cur.Close > upper && diff > 0, nil
}

// pullbackConfirmed: close crossed back above the 20-bar EMA.
func pullbackConfirmed(a *indicator.Annotated) (bool, error) {
	cur, err := a.Bar(0)
	if err != nil {
		return false, err
	}
	prev, err := a.Bar(1)
	if err != nil {
		return false, err
	}
	i := a.LastIndex()
	curEMA, ok1 := a.EMA20.At(i)
	prevEMA, ok2 := a.EMA20.At(i - 1)
	if !ok1 || !ok2 {
		return false, series.ErrInsufficientHistory
	}
	return cur.Close > curEMA && prev.Close <= prevEMA, nil
}

// trendReclaim: close crossed back above the 200-bar EMA with momentum and
// RSI confirming.
func trendReclaim(a *indicator.Annotated) (bool, error) {
	cur, err := a.Bar(0)
	if err != nil {
		return false, err
	}
	prev, err := a.Bar(1)
	if err != nil {
		return false, err
	}
	i := a.LastIndex()
	curEMA, ok1 := a.EMA200.At(i)
	prevEMA, ok2 := a.EMA200.At(i - 1)
	diff, ok3 := a.MACDDiff.At(i)
	rsi, ok4 := a.RSI.At(i)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false, series.ErrInsufficientHistory
	}
	return cur.Close > curEMA && prev.Close <= prevEMA && diff > 0 && rsi > 50, nil
}

// goldenCross: the 20-bar EMA crossed above the 50-bar EMA.
func goldenCross(a *indicator.Annotated) (bool, error) {
	if _, err := a.Bar(1); err != nil {
		return false, err
	}
	i := a.LastIndex()
	cur20, ok1 := a.EMA20.At(i)
	cur50, ok2 := a.EMA50.At(i)
	prev20, ok3 := a.EMA20.At(i - 1)
	prev50, ok4 := a.EMA50.At(i - 1)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false, series.ErrInsufficientHistory
	}
	return prev20 < prev50 && cur20 > cur50, nil
}

// insideBarBreakout: the previous bar sat inside the bar before it (the
// mother bar) and the latest close cleared the mother bar's high.
func insideBarBreakout(a *indicator.Annotated) (bool, error) {
	cur, err := a.Bar(0)
	if err != nil {
		return false, err
	}
	inner, err := a.Bar(1)
	if err != nil {
		return false, err
	}
	mother, err := a.Bar(2)
	if err != nil {
		return false, err
	}
	return mother.High > inner.High && mother.Low < inner.Low && cur.Close > mother.High, nil
}

// bearishDivergenceGuard: price made a higher close while RSI and MACD
// momentum both weakened.
func bearishDivergenceGuard(a *indicator.Annotated) (bool, error) {
	cur, err := a.Bar(0)
	if err != nil {
		return false, err
	}
	prev, err := a.Bar(1)
	if err != nil {
		return false, err
	}
	i := a.LastIndex()
	curRSI, ok1 := a.RSI.At(i)
	prevRSI, ok2 := a.RSI.At(i - 1)
	curDiff, ok3 := a.MACDDiff.At(i)
	prevDiff, ok4 := a.MACDDiff.At(i - 1)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false, series.ErrInsufficientHistory
	}
	return cur.Close > prev.Close && curRSI < prevRSI && curDiff < prevDiff, nil
}
