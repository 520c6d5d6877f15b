// Package scanner orchestrates one scan run over the asset universe.
package scanner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"crypto-buy-alerts/internal/alerting"
	"crypto-buy-alerts/internal/chart"
	"crypto-buy-alerts/internal/config"
	"crypto-buy-alerts/internal/envelope"
	"crypto-buy-alerts/internal/indicator"
	"crypto-buy-alerts/internal/market"
	"crypto-buy-alerts/internal/policy"
	"crypto-buy-alerts/internal/recorder"
	"crypto-buy-alerts/internal/series"
)

// Scanner walks the asset universe, evaluates the signal pipeline per asset,
// and dispatches accepted signals. Every asset is processed inside its own
// failure boundary: a provider error or short history skips that asset only.
type Scanner struct {
	fetcher  market.CandleFetcher
	store    recorder.SignalStore
	notifier alerting.Notifier
	logger   zerolog.Logger

	symbols     []string
	quote       string
	policyCfg   policy.Config
	envCfg      envelope.Config
	stake       decimal.Decimal
	attachChart bool
	runNotices  bool
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	Scanned  int
	Accepted int
	Rejected int
	Skipped  int
	Failed   int
}

// New constructs the scanner. The store and notifier may be nil; recording
// and alerting are then disabled but evaluation still runs.
func New(cfg *config.Config, fetcher market.CandleFetcher, store recorder.SignalStore, notifier alerting.Notifier, logger zerolog.Logger) *Scanner {
	return &Scanner{
		fetcher:     fetcher,
		store:       store,
		notifier:    notifier,
		logger:      logger.With().Str("component", "scanner").Logger(),
		symbols:     cfg.Universe.Symbols,
		quote:       cfg.Market.QuoteCurrency,
		policyCfg:   cfg.Signal,
		envCfg:      cfg.Envelope,
		stake:       decimal.NewFromFloat(cfg.Stake.Nominal),
		attachChart: cfg.Alerting.Telegram.AttachChart,
		runNotices:  cfg.Alerting.RunNotices,
	}
}

// Run processes the full universe sequentially and returns a summary. Only
// context cancellation aborts the run early.
func (s *Scanner) Run(ctx context.Context) (Summary, error) {
	s.announce(ctx, "Starting buy-opportunity scan...")

	var sum Summary
	for _, symbol := range s.symbols {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		sum.Scanned++
		switch s.scanSymbol(ctx, symbol) {
		case outcomeAccepted:
			sum.Accepted++
		case outcomeRejected:
			sum.Rejected++
		case outcomeSkipped:
			sum.Skipped++
		case outcomeFailed:
			sum.Failed++
		}
	}

	s.logger.Info().
		Int("scanned", sum.Scanned).
		Int("accepted", sum.Accepted).
		Int("rejected", sum.Rejected).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Msg("scan finished")
	s.announce(ctx, "Scan finished.")

	return sum, nil
}

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeRejected
	outcomeSkipped
	outcomeFailed
)

func (s *Scanner) scanSymbol(ctx context.Context, symbol string) outcome {
	candles, err := s.fetcher.FetchCandles(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("no data for asset, skipping")
		return outcomeSkipped
	}

	annotated := indicator.Annotate(candles)

	decision, err := policy.Decide(symbol, annotated, s.policyCfg)
	if err != nil {
		if errors.Is(err, series.ErrInsufficientHistory) {
			s.logger.Debug().Err(err).Str("symbol", symbol).Msg("insufficient history, no decision")
			return outcomeSkipped
		}
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("decision failed")
		return outcomeFailed
	}

	if !decision.Accept {
		s.logger.Debug().Str("symbol", symbol).
			Bool("vetoed", decision.Vetoed).
			Strs("setups", decision.Setups).
			Msg("rejected")
		return outcomeRejected
	}

	env, err := envelope.Calc(decision.Price, annotated, s.envCfg)
	if err != nil {
		// A degenerate envelope suppresses the alert but is not fatal.
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("envelope undefined, alert suppressed")
		return outcomeSkipped
	}

	rec := recorder.SignalRecord{
		Symbol:      symbol,
		EntryPrice:  decimal.NewFromFloat(decision.Price),
		TakeProfits: env.TakeProfits,
		StopLoss:    env.StopLoss,
		Stake:       s.stake,
		Setups:      decision.Setups,
		SignaledAt:  time.Now().UTC(),
	}

	if s.store != nil {
		if err := s.store.Append(ctx, rec); err != nil {
			s.logger.Error().Err(err).Str("symbol", symbol).Msg("failed to record signal")
		}
	}

	s.logger.Info().Str("symbol", symbol).
		Str("price", rec.EntryPrice.String()).
		Strs("setups", decision.Setups).
		Msg("buy signal accepted")

	if s.notifier != nil {
		alert := alerting.Alert{
			Symbol:      symbol,
			Price:       rec.EntryPrice,
			TakeProfits: env.TakeProfits,
			StopLoss:    env.StopLoss,
			Stake:       s.stake,
			Quote:       s.quote,
			Setups:      decision.Setups,
			SignaledAt:  rec.SignaledAt,
		}
		if s.attachChart {
			png, chartErr := chart.Render(symbol, annotated)
			if chartErr != nil {
				s.logger.Warn().Err(chartErr).Str("symbol", symbol).Msg("chart rendering failed, sending text only")
			} else {
				alert.Chart = png
			}
		}
		if err := s.notifier.Notify(ctx, alert); err != nil {
			s.logger.Error().Err(err).Str("symbol", symbol).Msg("failed to dispatch alert")
		}
	}

	return outcomeAccepted
}

func (s *Scanner) announce(ctx context.Context, text string) {
	if !s.runNotices || s.notifier == nil {
		return
	}
	if err := s.notifier.Announce(ctx, text); err != nil {
		s.logger.Error().Err(err).Msg("failed to send run notice")
	}
}
