// Package recorder persists accepted signals to an append-only log.
package recorder

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SignalRecord captures one accepted signal. Records are immutable once
// written and are only ever read back in insertion order.
type SignalRecord struct {
	Symbol      string            `json:"symbol"`
	EntryPrice  decimal.Decimal   `json:"entry_price"`
	TakeProfits []decimal.Decimal `json:"take_profits"`
	StopLoss    decimal.Decimal   `json:"stop_loss"`
	Stake       decimal.Decimal   `json:"stake"`
	Setups      []string          `json:"setups"`
	SignaledAt  time.Time         `json:"signaled_at"`
}

// SignalStore is the durable signal log. Append preserves insertion order;
// Recent returns the last n records oldest-first.
type SignalStore interface {
	Append(ctx context.Context, rec SignalRecord) error
	Recent(ctx context.Context, n int) ([]SignalRecord, error)
	Count(ctx context.Context) (int64, error)
}
