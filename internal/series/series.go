// Package series holds the candle data model shared by the indicator and
// signal packages.
package series

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientHistory is returned when a series is shorter than an
// accessor or evaluator requires.
var ErrInsufficientHistory = errors.New("series: insufficient history")

// Candle is a single OHLCV bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks the OHLC ordering invariant for one bar.
func (c Candle) Validate() error {
	if c.Low > c.Open || c.Low > c.Close || c.High < c.Open || c.High < c.Close {
		return fmt.Errorf("candle at %s violates low <= open,close <= high", c.Time.UTC().Format(time.RFC3339))
	}
	if c.Volume < 0 {
		return fmt.Errorf("candle at %s has negative volume", c.Time.UTC().Format(time.RFC3339))
	}
	return nil
}

// Range is the bar's high-low spread.
func (c Candle) Range() float64 { return c.High - c.Low }

// Bullish reports whether the bar closed above its open.
func (c Candle) Bullish() bool { return c.Close > c.Open }

// Series is an ordered candle sequence for one asset, oldest first.
type Series struct {
	Symbol  string
	Candles []Candle
}

// New validates candle ordering and bar invariants and wraps them in a Series.
// Timestamps must be strictly increasing; gaps are tolerated.
func New(symbol string, candles []Candle) (Series, error) {
	for i, c := range candles {
		if err := c.Validate(); err != nil {
			return Series{}, err
		}
		if i > 0 && !candles[i-1].Time.Before(c.Time) {
			return Series{}, fmt.Errorf("candles for %s not strictly ordered at index %d", symbol, i)
		}
	}
	return Series{Symbol: symbol, Candles: candles}, nil
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Candles) }

// Latest returns the most recent bar.
func (s Series) Latest() (Candle, error) {
	return s.PreviousN(0)
}

// PreviousN returns the bar k positions before the latest one. PreviousN(0)
// is the latest bar, PreviousN(1) the one before it.
func (s Series) PreviousN(k int) (Candle, error) {
	idx := len(s.Candles) - 1 - k
	if idx < 0 {
		return Candle{}, fmt.Errorf("%w: need %d bars, have %d", ErrInsufficientHistory, k+1, len(s.Candles))
	}
	return s.Candles[idx], nil
}

// Closes extracts the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Volumes extracts the volume column.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Volume
	}
	return out
}

// Ranges extracts the high-low spread column.
func (s Series) Ranges() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Range()
	}
	return out
}
