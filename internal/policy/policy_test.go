package policy

import (
	"errors"
	"testing"
	"time"

	"crypto-buy-alerts/internal/indicator"
	"crypto-buy-alerts/internal/series"
)

func defaultConfig() Config {
	return Config{
		RSIBuyThreshold:    48,
		MinSetupsSatisfied: 1,
		TrendFilterRatio:   0.98,
		VolumeFilterRatio:  0.5,
	}
}

func annotate(t *testing.T, candles []series.Candle) *indicator.Annotated {
	t.Helper()
	s, err := series.New("TEST", candles)
	if err != nil {
		t.Fatalf("series.New: %v", err)
	}
	return indicator.Annotate(s)
}

func flatCandles(bars int) []series.Candle {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]series.Candle, bars)
	for i := range out {
		out[i] = series.Candle{
			Time: start.Add(time.Duration(i) * time.Minute),
			Open: 100, High: 100.5, Low: 99, Close: 100, Volume: 10,
		}
	}
	return out
}

func reclaimCandles(bars int) []series.Candle {
	out := flatCandles(bars)

	dip := &out[bars-2]
	dip.Open, dip.High, dip.Low, dip.Close = 99.4, 99.7, 98.4, 99.2

	last := &out[bars-1]
	last.Open, last.High, last.Low, last.Close = 100, 102, 99, 101.5
	last.Volume = 40
	return out
}

func TestFlatSeriesRejected(t *testing.T) {
	d, err := Decide("BTC", annotate(t, flatCandles(260)), defaultConfig())
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Accept {
		t.Fatal("flat series must not be accepted")
	}
	if len(d.Setups) != 0 {
		t.Fatalf("flat series satisfied %v", d.Setups)
	}
}

func TestReclaimAccepted(t *testing.T) {
	d, err := Decide("BTC", annotate(t, reclaimCandles(260)), defaultConfig())
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.Accept {
		t.Fatal("reclaim series must be accepted")
	}
	if d.Vetoed {
		t.Fatal("reclaim series must not be vetoed")
	}
	if d.Price != 101.5 {
		t.Fatalf("price = %v, want 101.5", d.Price)
	}

	found := false
	for _, name := range d.Setups {
		if name == "pullback_confirmed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected pullback_confirmed among %v", d.Setups)
	}
}

func TestMinSetupsUnreachable(t *testing.T) {
	cfg := defaultConfig()
	cfg.MinSetupsSatisfied = 5

	d, err := Decide("BTC", annotate(t, reclaimCandles(260)), cfg)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Accept {
		t.Fatalf("accepted with only %d setups, needed 5", len(d.Setups))
	}
}

func TestRSIFilterRejects(t *testing.T) {
	cfg := defaultConfig()
	cfg.RSIBuyThreshold = 99

	d, err := Decide("BTC", annotate(t, reclaimCandles(260)), cfg)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Accept {
		t.Fatal("unreachable RSI threshold must reject")
	}
	if len(d.Setups) == 0 {
		t.Fatal("setups should still be reported on a filter reject")
	}
}

func TestVetoIsAbsolute(t *testing.T) {
	a := annotate(t, reclaimCandles(260))

	// Price rises into the final bar while both momentum columns fall.
	n := a.Candles.Len()
	falling := func(last, drop float64) indicator.Column {
		values := make([]float64, n)
		for i := range values {
			values[i] = last + drop
		}
		values[n-1] = last
		return indicator.NewColumn(values, 0)
	}
	a.RSI = falling(50, 10)
	a.MACDDiff = falling(0.2, 0.5)

	d, err := Decide("BTC", a, defaultConfig())
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.Vetoed {
		t.Fatal("expected the divergence guard to veto")
	}
	if d.Accept {
		t.Fatal("vetoed decision must never be accepted")
	}
}

func TestInsufficientHistory(t *testing.T) {
	_, err := Decide("BTC", annotate(t, flatCandles(30)), defaultConfig())
	if !errors.Is(err, series.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}

	cfg := defaultConfig()
	cfg.MinSetupsSatisfied = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("min_setups_satisfied 0 must be rejected")
	}

	cfg = defaultConfig()
	cfg.TrendFilterRatio = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("trend_filter_ratio above 1 must be rejected")
	}
}
