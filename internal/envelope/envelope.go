// Package envelope derives take-profit and stop-loss levels for accepted
// decisions.
package envelope

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"crypto-buy-alerts/internal/indicator"
)

// ErrUndefined signals degenerate volatility: the envelope cannot be placed
// without collapsing the stop onto the entry price. The caller suppresses
// the alert and moves on.
var ErrUndefined = errors.New("envelope: volatility undefined")

// Mode selects how the envelope is derived.
type Mode string

const (
	// ModeVolatility offsets entry by the rolling mean of the high-low range.
	ModeVolatility Mode = "volatility"
	// ModePercent applies fixed percentage offsets.
	ModePercent Mode = "percent"
)

// Config parameterises the calculator.
type Config struct {
	Mode           Mode      `mapstructure:"mode"`
	TakeProfitPcts []float64 `mapstructure:"take_profit_pcts"`
	StopLossPct    float64   `mapstructure:"stop_loss_pct"`
	RangeWindow    int       `mapstructure:"range_window"`
}

// Validate checks mode-specific constraints.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeVolatility:
		if c.RangeWindow <= 0 {
			return fmt.Errorf("envelope.range_window must be positive")
		}
	case ModePercent:
		if len(c.TakeProfitPcts) == 0 {
			return fmt.Errorf("envelope.take_profit_pcts must not be empty")
		}
		last := 0.0
		for _, p := range c.TakeProfitPcts {
			if p <= last {
				return fmt.Errorf("envelope.take_profit_pcts must be positive and strictly increasing")
			}
			last = p
		}
		if c.StopLossPct <= 0 || c.StopLossPct >= 1 {
			return fmt.Errorf("envelope.stop_loss_pct must be in (0, 1)")
		}
	default:
		return fmt.Errorf("envelope.mode must be %q or %q", ModeVolatility, ModePercent)
	}
	return nil
}

// Envelope is the trade-management outcome: stop_loss < entry < every
// take-profit, take-profits ascending.
type Envelope struct {
	TakeProfits []decimal.Decimal
	StopLoss    decimal.Decimal
}

// Calc derives the envelope for an accepted decision priced at price.
func Calc(price float64, a *indicator.Annotated, cfg Config) (Envelope, error) {
	if price <= 0 {
		return Envelope{}, fmt.Errorf("%w: non-positive price", ErrUndefined)
	}

	switch cfg.Mode {
	case ModeVolatility:
		return volatilityEnvelope(price, a, cfg.RangeWindow)
	case ModePercent:
		return percentEnvelope(price, cfg)
	default:
		return Envelope{}, fmt.Errorf("unknown envelope mode %q", cfg.Mode)
	}
}

func volatilityEnvelope(price float64, a *indicator.Annotated, window int) (Envelope, error) {
	avgRange, ok := indicator.RollingMean(a.Candles.Ranges(), window).Last()
	if !ok {
		return Envelope{}, fmt.Errorf("%w: fewer than %d bars of range history", ErrUndefined, window)
	}
	if avgRange <= 0 {
		return Envelope{}, fmt.Errorf("%w: average range is zero", ErrUndefined)
	}

	p := decimal.NewFromFloat(price)
	r := decimal.NewFromFloat(avgRange)
	return Envelope{
		TakeProfits: []decimal.Decimal{p.Add(r)},
		StopLoss:    p.Sub(r),
	}, nil
}

func percentEnvelope(price float64, cfg Config) (Envelope, error) {
	p := decimal.NewFromFloat(price)
	one := decimal.NewFromInt(1)

	tps := make([]decimal.Decimal, 0, len(cfg.TakeProfitPcts))
	for _, pct := range cfg.TakeProfitPcts {
		tps = append(tps, p.Mul(one.Add(decimal.NewFromFloat(pct))))
	}
	return Envelope{
		TakeProfits: tps,
		StopLoss:    p.Mul(one.Sub(decimal.NewFromFloat(cfg.StopLossPct))),
	}, nil
}
