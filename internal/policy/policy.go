// Package policy combines setup evaluations and configured filters into a
// single accept/reject decision per asset.
package policy

import (
	"fmt"

	"crypto-buy-alerts/internal/indicator"
	"crypto-buy-alerts/internal/series"
	"crypto-buy-alerts/internal/setups"
)

// Config carries every tunable of the decision procedure. The historical
// iterations of this scanner disagreed on these numbers, so none of them is a
// code constant; presets live in configuration.
type Config struct {
	RSIBuyThreshold       float64 `mapstructure:"rsi_buy_threshold"`
	MinSetupsSatisfied    int     `mapstructure:"min_setups_satisfied"`
	TrendFilterRatio      float64 `mapstructure:"trend_filter_ratio"`
	VolumeFilterRatio     float64 `mapstructure:"volume_filter_ratio"`
	RequireGreenCandle    bool    `mapstructure:"require_green_candle"`
	RequireCloseAbovePrev bool    `mapstructure:"require_close_above_prev_close"`
}

// Validate rejects configurations the decision procedure cannot honour.
func (c Config) Validate() error {
	if c.MinSetupsSatisfied < 1 {
		return fmt.Errorf("signal.min_setups_satisfied must be at least 1")
	}
	if c.TrendFilterRatio <= 0 || c.TrendFilterRatio > 1 {
		return fmt.Errorf("signal.trend_filter_ratio must be in (0, 1]")
	}
	if c.VolumeFilterRatio <= 0 || c.VolumeFilterRatio > 1 {
		return fmt.Errorf("signal.volume_filter_ratio must be in (0, 1]")
	}
	return nil
}

// Decision is the outcome of evaluating one asset.
type Decision struct {
	Symbol string
	Accept bool
	Price  float64
	// Setups lists the satisfied primary setups, in evaluator order.
	Setups []string
	Vetoed bool
}

// Decide evaluates every setup plus the configured filters against the
// latest bars of an annotated series. It is state-free. When any referenced
// bar or indicator entry is undefined the error wraps
// series.ErrInsufficientHistory and the caller should treat the asset as
// "no decision".
func Decide(symbol string, a *indicator.Annotated, cfg Config) (Decision, error) {
	cur, err := a.Bar(0)
	if err != nil {
		return Decision{}, err
	}
	prev, err := a.Bar(1)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{Symbol: symbol, Price: cur.Close}

	veto, err := setups.Veto().Evaluate(a)
	if err != nil {
		return Decision{}, err
	}

	satisfied := make([]string, 0, 5)
	for _, ev := range setups.Primary() {
		res, err := ev.Evaluate(a)
		if err != nil {
			return Decision{}, err
		}
		if res.Satisfied {
			satisfied = append(satisfied, res.Name)
		}
	}
	d.Setups = satisfied

	if veto.Satisfied {
		d.Vetoed = true
		return d, nil
	}
	if len(satisfied) < cfg.MinSetupsSatisfied {
		return d, nil
	}

	i := a.LastIndex()
	rsi, ok1 := a.RSI.At(i)
	ema200, ok2 := a.EMA200.At(i)
	volMA, ok3 := a.VolumeMA.At(i)
	if !ok1 || !ok2 || !ok3 {
		return Decision{}, fmt.Errorf("filters for %s: %w", symbol, series.ErrInsufficientHistory)
	}

	if rsi <= cfg.RSIBuyThreshold {
		return d, nil
	}
	if cur.Close <= cfg.TrendFilterRatio*ema200 {
		return d, nil
	}
	if cur.Volume <= cfg.VolumeFilterRatio*volMA {
		return d, nil
	}
	if cfg.RequireGreenCandle && !cur.Bullish() {
		return d, nil
	}
	if cfg.RequireCloseAbovePrev && cur.Close <= prev.Close {
		return d, nil
	}

	d.Accept = true
	return d, nil
}
