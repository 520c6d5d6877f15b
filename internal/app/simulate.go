package app

import (
	"context"
	"errors"
	"time"

	"crypto-buy-alerts/internal/market"
	"crypto-buy-alerts/internal/scanner"
	"crypto-buy-alerts/internal/series"
)

// SimulateAlert drives a synthetic bullish series through the live pipeline
// to exercise the alert channel end to end. Nothing is recorded.
func (a *App) SimulateAlert(ctx context.Context, symbol string) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting is not enabled")
	}
	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("no alert channel configured")
	}

	cfg := *a.Config
	cfg.Universe.Symbols = []string{symbol}

	sc := scanner.New(&cfg, &staticFetcher{}, nil, notifier, a.Logger)
	sum, err := sc.Run(ctx)
	if err != nil {
		return err
	}
	if sum.Accepted == 0 {
		return errors.New("simulated series was not accepted; check signal thresholds")
	}
	return nil
}

// staticFetcher serves a crafted series: a long flat base, a shallow dip, and
// a high-volume reclaim of the 20-bar EMA on the final bar.
type staticFetcher struct{}

func (s *staticFetcher) FetchCandles(ctx context.Context, symbol string) (series.Series, error) {
	const bars = 260
	start := time.Now().UTC().Add(-bars * time.Minute).Truncate(time.Minute)

	candles := make([]series.Candle, 0, bars)
	for i := 0; i < bars; i++ {
		px := 100.0
		volume := 10.0
		switch {
		case i == bars-2:
			px = 99.2 // dip below the short EMA
		case i == bars-1:
			px = 101.5 // reclaim on the final bar
			volume = 40.0
		}
		openPx := 100.0
		if px < openPx {
			openPx = px + 0.2
		}
		candles = append(candles, series.Candle{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   openPx,
			High:   px + 0.5,
			Low:    openPx - 1.0,
			Close:  px,
			Volume: volume,
		})
	}
	return series.New(symbol, candles)
}

var _ market.CandleFetcher = (*staticFetcher)(nil)
