// Package alerting delivers accepted signals to the configured channel.
package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Alert carries everything a channel needs to announce one accepted signal.
type Alert struct {
	Symbol      string
	Price       decimal.Decimal
	TakeProfits []decimal.Decimal
	StopLoss    decimal.Decimal
	Stake       decimal.Decimal
	Quote       string
	Setups      []string
	SignaledAt  time.Time
	// Chart is an optional PNG attached to the alert.
	Chart []byte
}

// Notifier is the alert delivery channel. Delivery failures must never abort
// a scan run; callers log and continue.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
	// Announce sends a plain text notice (run start/finish messages).
	Announce(ctx context.Context, text string) error
}

// TelegramNotifier pushes alerts through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram channel.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify renders the alert text and sends it, attaching the chart via
// sendPhoto when present.
func (n *TelegramNotifier) Notify(ctx context.Context, alert Alert) error {
	text := renderAlert(alert)

	var err error
	if len(alert.Chart) > 0 {
		err = n.sendPhoto(ctx, text, alert.Chart)
	} else {
		err = n.sendMessage(ctx, text)
	}
	if err != nil {
		return err
	}

	n.logger.Info().Str("symbol", alert.Symbol).
		Str("price", alert.Price.String()).
		Str("setups", strings.Join(alert.Setups, ",")).
		Msg("alert delivered")
	return nil
}

// Announce sends a plain text message.
func (n *TelegramNotifier) Announce(ctx context.Context, text string) error {
	return n.sendMessage(ctx, text)
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return n.do(req)
}

func (n *TelegramNotifier) sendPhoto(ctx context.Context, caption string, photo []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", n.chatID); err != nil {
		return fmt.Errorf("write chat_id field: %w", err)
	}
	if err := writer.WriteField("caption", caption); err != nil {
		return fmt.Errorf("write caption field: %w", err)
	}
	part, err := writer.CreateFormFile("photo", "chart.png")
	if err != nil {
		return fmt.Errorf("create photo part: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return fmt.Errorf("write photo part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return n.do(req)
}

func (n *TelegramNotifier) do(req *http.Request) error {
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}
	return nil
}

func renderAlert(alert Alert) string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("[Buy Signal] %s\n", alert.Symbol))
	builder.WriteString(fmt.Sprintf("Time: %s UTC\n", alert.SignaledAt.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf("Price: %s %s\n", alert.Price.StringFixed(4), alert.Quote))

	tps := make([]string, len(alert.TakeProfits))
	for i, tp := range alert.TakeProfits {
		tps[i] = tp.StringFixed(4)
	}
	builder.WriteString(fmt.Sprintf("Take-Profit: %s\n", strings.Join(tps, " / ")))
	builder.WriteString(fmt.Sprintf("Stop-Loss: %s\n", alert.StopLoss.StringFixed(4)))
	builder.WriteString(fmt.Sprintf("Stake: %s %s\n", alert.Stake.String(), alert.Quote))
	if len(alert.Setups) > 0 {
		builder.WriteString(fmt.Sprintf("Setups: %s\n", strings.Join(alert.Setups, ", ")))
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
