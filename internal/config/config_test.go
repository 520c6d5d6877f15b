package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"crypto-buy-alerts/internal/envelope"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Market.QuoteCurrency != "EUR" {
		t.Fatalf("quote currency = %s", cfg.Market.QuoteCurrency)
	}
	if cfg.Market.BarLimit != 300 {
		t.Fatalf("bar limit = %d", cfg.Market.BarLimit)
	}
	if len(cfg.Universe.Symbols) != 31 {
		t.Fatalf("universe size = %d, want 31", len(cfg.Universe.Symbols))
	}
	if cfg.Signal.MinSetupsSatisfied != 1 || cfg.Signal.RSIBuyThreshold != 48.0 {
		t.Fatalf("signal defaults = %+v", cfg.Signal)
	}
	if cfg.Envelope.Mode != envelope.ModePercent {
		t.Fatalf("envelope mode = %s", cfg.Envelope.Mode)
	}
	if cfg.Scheduler.Interval != 5*time.Minute {
		t.Fatalf("scheduler interval = %s", cfg.Scheduler.Interval)
	}
	if cfg.Alerting.Enabled {
		t.Fatal("alerting must be off by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	payload := []byte(`
market:
  quote_currency: USD
universe:
  symbols: ["BTC", "ETH"]
signal:
  min_setups_satisfied: 2
envelope:
  mode: volatility
  range_window: 30
`)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Market.QuoteCurrency != "USD" {
		t.Fatalf("quote currency = %s", cfg.Market.QuoteCurrency)
	}
	if len(cfg.Universe.Symbols) != 2 {
		t.Fatalf("universe = %v", cfg.Universe.Symbols)
	}
	if cfg.Signal.MinSetupsSatisfied != 2 {
		t.Fatalf("min setups = %d", cfg.Signal.MinSetupsSatisfied)
	}
	if cfg.Envelope.Mode != envelope.ModeVolatility || cfg.Envelope.RangeWindow != 30 {
		t.Fatalf("envelope = %+v", cfg.Envelope)
	}
	// Untouched sections keep their defaults.
	if cfg.Market.BarLimit != 300 {
		t.Fatalf("bar limit = %d", cfg.Market.BarLimit)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		return cfg
	}

	cfg := base(t)
	cfg.Universe.Symbols = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty universe must be rejected")
	}

	cfg = base(t)
	cfg.Signal.MinSetupsSatisfied = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("min_setups_satisfied 0 must be rejected")
	}

	cfg = base(t)
	cfg.Alerting.Telegram.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("telegram without credentials must be rejected")
	}
}
