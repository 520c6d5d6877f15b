package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"crypto-buy-alerts/internal/envelope"
	"crypto-buy-alerts/internal/logging"
	"crypto-buy-alerts/internal/policy"
	"crypto-buy-alerts/internal/storage"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  storage.Config  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Market    MarketConfig    `mapstructure:"market"`
	Universe  UniverseConfig  `mapstructure:"universe"`
	Signal    policy.Config   `mapstructure:"signal"`
	Envelope  envelope.Config `mapstructure:"envelope"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	SignalLog SignalLogConfig `mapstructure:"signal_log"`
	Report    ReportConfig    `mapstructure:"report"`
	Stake     StakeConfig     `mapstructure:"stake"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// SchedulerConfig governs the watch command cadence.
type SchedulerConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	AlignToBucket   bool          `mapstructure:"align_to_bucket"`
	AdvisoryLockKey int64         `mapstructure:"advisory_lock_key"`
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
}

// MarketConfig covers CryptoCompare data access.
type MarketConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	QuoteCurrency  string        `mapstructure:"quote_currency"`
	BarLimit       int           `mapstructure:"bar_limit"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// UniverseConfig lists the assets scanned per run, in order.
type UniverseConfig struct {
	Symbols []string `mapstructure:"symbols"`
}

// AlertingConfig defines alert routing.
type AlertingConfig struct {
	Enabled    bool           `mapstructure:"enabled"`
	RunNotices bool           `mapstructure:"run_notices"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram channel.
type TelegramConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BotToken    string `mapstructure:"bot_token"`
	ChatID      string `mapstructure:"chat_id"`
	APIBase     string `mapstructure:"api_base"`
	AttachChart bool   `mapstructure:"attach_chart"`
}

// SignalLogConfig locates the file-backed signal log, used when no database
// DSN is configured.
type SignalLogConfig struct {
	Path string `mapstructure:"path"`
}

// ReportConfig sets summary behaviour.
type ReportConfig struct {
	Window time.Duration `mapstructure:"window"`
	Limit  int           `mapstructure:"limit"`
}

// StakeConfig is the fixed nominal stake quoted in every alert.
type StakeConfig struct {
	Nominal float64 `mapstructure:"nominal"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BUYSCANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "buyscanner")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("scheduler.interval", "5m")
	v.SetDefault("scheduler.align_to_bucket", true)
	v.SetDefault("scheduler.advisory_lock_key", int64(0x62757973))
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("market.base_url", "https://min-api.cryptocompare.com")
	v.SetDefault("market.quote_currency", "EUR")
	v.SetDefault("market.bar_limit", 300)
	v.SetDefault("market.request_timeout", "10s")
	v.SetDefault("market.user_agent", "buyscanner/1.0")

	v.SetDefault("universe.symbols", []string{
		"BTC", "ETH", "XRP", "ADA", "DOGE", "AVAX", "MATIC", "SOL", "DOT", "LTC",
		"BCH", "ATOM", "UNI", "APE", "CRV", "ANKR", "LINK", "ETC", "AAVE", "XTZ",
		"SHIB", "GRT", "EOS", "USDC", "SNX", "XLM", "ALGO", "1INCH", "MANA", "CHZ", "ICP",
	})

	// Historical threshold iterations live here as presets, not code paths.
	v.SetDefault("signal.rsi_buy_threshold", 48.0)
	v.SetDefault("signal.min_setups_satisfied", 1)
	v.SetDefault("signal.trend_filter_ratio", 0.98)
	v.SetDefault("signal.volume_filter_ratio", 0.5)
	v.SetDefault("signal.require_green_candle", false)
	v.SetDefault("signal.require_close_above_prev_close", false)

	v.SetDefault("envelope.mode", "percent")
	v.SetDefault("envelope.take_profit_pcts", []float64{0.15, 0.30})
	v.SetDefault("envelope.stop_loss_pct", 0.10)
	v.SetDefault("envelope.range_window", 20)

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.run_notices", false)
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")
	v.SetDefault("alerting.telegram.attach_chart", true)

	v.SetDefault("signal_log.path", "signals.json")

	v.SetDefault("report.window", "168h")
	v.SetDefault("report.limit", 500)

	v.SetDefault("stake.nominal", 1.0)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs sanity checks on the configuration values. Configuration
// errors are the only fatal errors in the process; everything downstream is
// per-asset and recoverable.
func (c *Config) Validate() error {
	if len(c.Universe.Symbols) == 0 {
		return fmt.Errorf("universe.symbols must not be empty")
	}
	if c.Market.QuoteCurrency == "" {
		return fmt.Errorf("market.quote_currency must be configured")
	}
	if c.Market.BarLimit <= 0 {
		return fmt.Errorf("market.bar_limit must be greater than zero")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if err := c.Signal.Validate(); err != nil {
		return err
	}
	if err := c.Envelope.Validate(); err != nil {
		return err
	}
	if c.Stake.Nominal <= 0 {
		return fmt.Errorf("stake.nominal must be greater than zero")
	}
	if c.Report.Limit <= 0 {
		return fmt.Errorf("report.limit must be greater than zero")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token must be configured")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id must be configured")
		}
	}
	return nil
}
