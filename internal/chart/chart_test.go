package chart

import (
	"bytes"
	"math"
	"testing"
	"time"

	"crypto-buy-alerts/internal/indicator"
	"crypto-buy-alerts/internal/series"
)

func wavySeries(t *testing.T, bars int) *indicator.Annotated {
	t.Helper()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]series.Candle, bars)
	for i := range candles {
		px := 100 + 5*math.Sin(float64(i)/10)
		candles[i] = series.Candle{
			Time: start.Add(time.Duration(i) * time.Minute),
			Open: px, High: px + 1, Low: px - 1, Close: px, Volume: 10,
		}
	}
	s, err := series.New("BTC", candles)
	if err != nil {
		t.Fatalf("series.New: %v", err)
	}
	return indicator.Annotate(s)
}

func TestRenderProducesPNG(t *testing.T) {
	png, err := Render("BTC", wavySeries(t, 260))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("output is not a PNG")
	}
}

func TestRenderOmitsUndefinedEMA(t *testing.T) {
	// 60 bars: the 200-bar EMA has no defined region but rendering still works.
	png, err := Render("BTC", wavySeries(t, 60))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("empty image")
	}
}

func TestRenderRejectsTinySeries(t *testing.T) {
	if _, err := Render("BTC", wavySeries(t, 1)); err == nil {
		t.Fatal("single bar must be rejected")
	}
}
