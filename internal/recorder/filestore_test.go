package recorder

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func testRecord(symbol string, price float64) SignalRecord {
	p := decimal.NewFromFloat(price)
	return SignalRecord{
		Symbol:      symbol,
		EntryPrice:  p,
		TakeProfits: []decimal.Decimal{p.Mul(decimal.NewFromFloat(1.15))},
		StopLoss:    p.Mul(decimal.NewFromFloat(0.9)),
		Stake:       decimal.NewFromInt(1),
		Setups:      []string{"breakout"},
		SignaledAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileStoreAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "signals.json"), zerolog.Nop())

	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, testRecord(fmt.Sprintf("SYM%d", i), 100+float64(i))); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 5 {
		t.Fatalf("count = %d, want 5", count)
	}

	recent, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("got %d records, want 3", len(recent))
	}
	for i, want := range []string{"SYM2", "SYM3", "SYM4"} {
		if recent[i].Symbol != want {
			t.Fatalf("recent[%d] = %s, want %s", i, recent[i].Symbol, want)
		}
	}
}

func TestFileStoreEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "signals.json"), zerolog.Nop())

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("got %d records, want 0", len(recent))
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "signals.json")

	first := NewFileStore(path, zerolog.Nop())
	rec := testRecord("BTC", 50000)
	if err := first.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	second := NewFileStore(path, zerolog.Nop())
	recent, err := second.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("got %d records, want 1", len(recent))
	}
	got := recent[0]
	if got.Symbol != "BTC" || !got.EntryPrice.Equal(rec.EntryPrice) || !got.StopLoss.Equal(rec.StopLoss) {
		t.Fatalf("record round trip mismatch: %+v", got)
	}
	if !got.SignaledAt.Equal(rec.SignaledAt) {
		t.Fatalf("signaled_at = %s, want %s", got.SignaledAt, rec.SignaledAt)
	}
}
