package series

import (
	"errors"
	"testing"
	"time"
)

func minuteCandles(closes ...float64) []Candle {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := make([]Candle, len(closes))
	for i, c := range closes {
		out[i] = Candle{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 10,
		}
	}
	return out
}

func TestCandleValidate(t *testing.T) {
	good := Candle{Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid candle rejected: %v", err)
	}

	bad := Candle{Open: 10, High: 9.5, Low: 9, Close: 9.2, Volume: 1}
	if err := bad.Validate(); err == nil {
		t.Fatal("high below open should be rejected")
	}

	negVol := Candle{Open: 10, High: 11, Low: 9, Close: 10, Volume: -1}
	if err := negVol.Validate(); err == nil {
		t.Fatal("negative volume should be rejected")
	}
}

func TestNewRejectsUnorderedTimestamps(t *testing.T) {
	candles := minuteCandles(1, 2, 3)
	candles[2].Time = candles[1].Time

	if _, err := New("BTC", candles); err == nil {
		t.Fatal("equal timestamps should be rejected")
	}
}

func TestLatestAndPreviousN(t *testing.T) {
	s, err := New("BTC", minuteCandles(1, 2, 3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Close != 3 {
		t.Fatalf("expected latest close 3, got %v", latest.Close)
	}

	prev, err := s.PreviousN(2)
	if err != nil {
		t.Fatalf("PreviousN(2): %v", err)
	}
	if prev.Close != 1 {
		t.Fatalf("expected close 1, got %v", prev.Close)
	}

	if _, err := s.PreviousN(3); !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestColumnsExtraction(t *testing.T) {
	s, err := New("ETH", minuteCandles(10, 20))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	closes := s.Closes()
	if len(closes) != 2 || closes[0] != 10 || closes[1] != 20 {
		t.Fatalf("unexpected closes %v", closes)
	}
	ranges := s.Ranges()
	if ranges[0] != 2 {
		t.Fatalf("expected range 2, got %v", ranges[0])
	}
}
