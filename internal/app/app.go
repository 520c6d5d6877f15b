package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"crypto-buy-alerts/internal/alerting"
	"crypto-buy-alerts/internal/config"
	"crypto-buy-alerts/internal/market"
	"crypto-buy-alerts/internal/recorder"
	"crypto-buy-alerts/internal/scanner"
	"crypto-buy-alerts/internal/scheduler"
	"crypto-buy-alerts/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() market.CandleFetcher {
	return market.NewCryptoCompare(market.Options{
		BaseURL:       a.Config.Market.BaseURL,
		APIKey:        a.Config.Market.APIKey,
		QuoteCurrency: a.Config.Market.QuoteCurrency,
		BarLimit:      a.Config.Market.BarLimit,
		Timeout:       a.Config.Market.RequestTimeout,
		UserAgent:     a.Config.Market.UserAgent,
	}, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Enabled && a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

// openStore returns the signal log: PostgreSQL when a DSN is configured,
// the JSON file store otherwise.
func (a *App) openStore(ctx context.Context) (recorder.SignalStore, func(), error) {
	if a.Config.Database.DSN == "" {
		return recorder.NewFileStore(a.Config.SignalLog.Path, a.Logger), nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	return store, store.Close, nil
}

// Scan executes one pass over the asset universe.
func (a *App) Scan(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	sc := scanner.New(a.Config, a.newFetcher(), store, a.newNotifier(), a.Logger)

	sum, err := sc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.Logger.Info().Int("accepted", sum.Accepted).Int("scanned", sum.Scanned).Msg("scan complete")
	return nil
}

// Watch runs scans on the configured interval until interrupted. When the
// store exposes advisory locking, a lock guards against overlapping runs
// from other deployments.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	var locker storage.AdvisoryLocker
	if l, ok := store.(storage.AdvisoryLocker); ok {
		locker = l
	}
	lockKey := a.Config.Scheduler.AdvisoryLockKey

	sc := scanner.New(a.Config, a.newFetcher(), store, a.newNotifier(), a.Logger)

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToBucket,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	a.Logger.Info().Dur("interval", a.Config.Scheduler.Interval).Msg("starting watch loop")
	err = sched.Run(ctx, func(ctx context.Context, bucket time.Time) error {
		if locker != nil && lockKey != 0 {
			unlock, acquired, lockErr := locker.TryAdvisoryLock(ctx, lockKey)
			if lockErr != nil {
				return lockErr
			}
			if !acquired {
				a.Logger.Debug().Time("bucket", bucket).Msg("skip scan, advisory lock held elsewhere")
				return nil
			}
			defer unlock()
		}
		_, runErr := sc.Run(ctx)
		return runErr
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.Logger.Info().Msg("watch loop stopped")
	return nil
}

// ReportOptions configure the report command.
type ReportOptions struct {
	Window time.Duration
	Limit  int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// ExportOptions hold parameters for exporting the signal log.
type ExportOptions struct {
	CSVPath string
	PNGPath string
	Limit   int
}
