package envelope

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crypto-buy-alerts/internal/indicator"
	"crypto-buy-alerts/internal/series"
)

func annotate(t *testing.T, candles []series.Candle) *indicator.Annotated {
	t.Helper()
	s, err := series.New("TEST", candles)
	if err != nil {
		t.Fatalf("series.New: %v", err)
	}
	return indicator.Annotate(s)
}

func rangedCandles(bars int, spread float64) []series.Candle {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]series.Candle, bars)
	for i := range out {
		out[i] = series.Candle{
			Time: start.Add(time.Duration(i) * time.Minute),
			Open: 100, High: 100 + spread, Low: 100, Close: 100, Volume: 10,
		}
	}
	return out
}

func assertOrdering(t *testing.T, price float64, env Envelope) {
	t.Helper()
	p := decimal.NewFromFloat(price)
	if !env.StopLoss.LessThan(p) {
		t.Fatalf("stop loss %s not below entry %s", env.StopLoss, p)
	}
	prev := p
	for _, tp := range env.TakeProfits {
		if !tp.GreaterThan(prev) {
			t.Fatalf("take profit %s not above %s", tp, prev)
		}
		prev = tp
	}
}

func TestPercentEnvelope(t *testing.T) {
	cfg := Config{Mode: ModePercent, TakeProfitPcts: []float64{0.15, 0.30}, StopLossPct: 0.10}

	env, err := Calc(100, nil, cfg)
	if err != nil {
		t.Fatalf("Calc: %v", err)
	}
	assertOrdering(t, 100, env)

	if want := decimal.NewFromFloat(115.0); !env.TakeProfits[0].Equal(want) {
		t.Fatalf("tp1 = %s, want %s", env.TakeProfits[0], want)
	}
	if want := decimal.NewFromFloat(130.0); !env.TakeProfits[1].Equal(want) {
		t.Fatalf("tp2 = %s, want %s", env.TakeProfits[1], want)
	}
	if want := decimal.NewFromFloat(90.0); !env.StopLoss.Equal(want) {
		t.Fatalf("sl = %s, want %s", env.StopLoss, want)
	}
}

func TestVolatilityEnvelope(t *testing.T) {
	cfg := Config{Mode: ModeVolatility, RangeWindow: 20}
	a := annotate(t, rangedCandles(40, 2))

	env, err := Calc(100, a, cfg)
	if err != nil {
		t.Fatalf("Calc: %v", err)
	}
	assertOrdering(t, 100, env)

	if want := decimal.NewFromFloat(102.0); !env.TakeProfits[0].Equal(want) {
		t.Fatalf("tp = %s, want %s", env.TakeProfits[0], want)
	}
	if want := decimal.NewFromFloat(98.0); !env.StopLoss.Equal(want) {
		t.Fatalf("sl = %s, want %s", env.StopLoss, want)
	}
}

func TestVolatilityUndefined(t *testing.T) {
	cfg := Config{Mode: ModeVolatility, RangeWindow: 20}

	// Zero spread: the average range collapses.
	if _, err := Calc(100, annotate(t, rangedCandles(40, 0)), cfg); !errors.Is(err, ErrUndefined) {
		t.Fatalf("zero-range series: expected ErrUndefined, got %v", err)
	}

	// Too little history for the range window.
	if _, err := Calc(100, annotate(t, rangedCandles(5, 2)), cfg); !errors.Is(err, ErrUndefined) {
		t.Fatalf("short series: expected ErrUndefined, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"percent ok", Config{Mode: ModePercent, TakeProfitPcts: []float64{0.15, 0.30}, StopLossPct: 0.10}, false},
		{"volatility ok", Config{Mode: ModeVolatility, RangeWindow: 20}, false},
		{"unknown mode", Config{Mode: "atr"}, true},
		{"descending tps", Config{Mode: ModePercent, TakeProfitPcts: []float64{0.30, 0.15}, StopLossPct: 0.10}, true},
		{"empty tps", Config{Mode: ModePercent, StopLossPct: 0.10}, true},
		{"stop loss too big", Config{Mode: ModePercent, TakeProfitPcts: []float64{0.15}, StopLossPct: 1.2}, true},
		{"zero range window", Config{Mode: ModeVolatility}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
