package market

import (
	"context"

	"crypto-buy-alerts/internal/series"
)

// CandleFetcher retrieves recent minute candles for one asset, oldest first.
// Any provider failure means "no data for this asset"; the scanner skips the
// asset and continues.
type CandleFetcher interface {
	FetchCandles(ctx context.Context, symbol string) (series.Series, error)
}
