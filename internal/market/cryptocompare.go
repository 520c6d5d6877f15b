package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"crypto-buy-alerts/internal/series"
)

const histoMinutePath = "/data/v2/histominute"

// Options parameterise the CryptoCompare client.
type Options struct {
	BaseURL       string
	APIKey        string
	QuoteCurrency string
	BarLimit      int
	Timeout       time.Duration
	UserAgent     string
}

// CryptoCompare fetches minute candles from the CryptoCompare REST API.
type CryptoCompare struct {
	opts    Options
	client  *http.Client
	baseURL string
	logger  zerolog.Logger
}

// NewCryptoCompare constructs a candle fetcher.
func NewCryptoCompare(opts Options, logger zerolog.Logger) *CryptoCompare {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://min-api.cryptocompare.com"
	}

	return &CryptoCompare{
		opts:    opts,
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  logger.With().Str("component", "market_fetcher").Logger(),
	}
}

// FetchCandles retrieves the configured number of minute bars for a symbol,
// oldest first, validated against the OHLC ordering invariant.
func (c *CryptoCompare) FetchCandles(ctx context.Context, symbol string) (series.Series, error) {
	if symbol == "" {
		return series.Series{}, fmt.Errorf("symbol is required")
	}
	if c.opts.QuoteCurrency == "" {
		return series.Series{}, fmt.Errorf("quote currency is required")
	}

	query := url.Values{}
	query.Set("fsym", symbol)
	query.Set("tsym", c.opts.QuoteCurrency)
	query.Set("limit", strconv.Itoa(c.opts.BarLimit))
	if c.opts.APIKey != "" {
		query.Set("api_key", c.opts.APIKey)
	}

	endpoint := c.baseURL + histoMinutePath + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return series.Series{}, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return series.Series{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return series.Series{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return series.Series{}, fmt.Errorf("cryptocompare http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var body histoResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		return series.Series{}, fmt.Errorf("decode cryptocompare response: %w", err)
	}
	if body.Response != "Success" {
		return series.Series{}, fmt.Errorf("cryptocompare error for %s: %s", symbol, body.Message)
	}

	candles := make([]series.Candle, 0, len(body.Data.Data))
	for _, bar := range body.Data.Data {
		candles = append(candles, series.Candle{
			Time:   time.Unix(bar.Time, 0).UTC(),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.VolumeFrom,
		})
	}

	s, err := series.New(symbol, candles)
	if err != nil {
		return series.Series{}, fmt.Errorf("invalid candle data for %s: %w", symbol, err)
	}

	c.logger.Debug().Str("symbol", symbol).Int("bars", s.Len()).Msg("candles fetched")
	return s, nil
}

type histoResponse struct {
	Response string    `json:"Response"`
	Message  string    `json:"Message"`
	Data     histoData `json:"Data"`
}

type histoData struct {
	Data []histoBar `json:"Data"`
}

// histoBar mirrors one CryptoCompare minute bar. volumefrom is the traded
// volume in base-asset units.
type histoBar struct {
	Time       int64   `json:"time"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	VolumeFrom float64 `json:"volumefrom"`
	VolumeTo   float64 `json:"volumeto"`
}

var _ CandleFetcher = (*CryptoCompare)(nil)
