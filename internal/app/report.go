package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// Report prints an aggregate summary of recent signals and, when alerting is
// enabled, pushes the same summary through the alert channel.
func (a *App) Report(ctx context.Context, opts ReportOptions) error {
	window := opts.Window
	if window <= 0 {
		window = a.Config.Report.Window
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = a.Config.Report.Limit
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	records, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-window)
	type tally struct {
		count     int
		lastPrice string
		lastAt    time.Time
	}
	perSymbol := map[string]*tally{}
	total := 0
	for _, rec := range records {
		if rec.SignaledAt.Before(cutoff) {
			continue
		}
		total++
		t := perSymbol[rec.Symbol]
		if t == nil {
			t = &tally{}
			perSymbol[rec.Symbol] = t
		}
		t.count++
		if rec.SignaledAt.After(t.lastAt) {
			t.lastAt = rec.SignaledAt
			t.lastPrice = rec.EntryPrice.StringFixed(4)
		}
	}

	if total == 0 {
		fmt.Fprintln(os.Stdout, "no signals recorded in the report window")
		return nil
	}

	symbols := make([]string, 0, len(perSymbol))
	for sym := range perSymbol {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Signal summary, last %s (%d total)\n", window, total)
	fmt.Fprintln(writer, "Symbol\tSignals\tLast Price\tLast Signal (UTC)")
	for _, sym := range symbols {
		t := perSymbol[sym]
		fmt.Fprintf(writer, "%s\t%d\t%s\t%s\n", sym, t.count, t.lastPrice, t.lastAt.Format(time.RFC3339))
	}
	writer.Flush()

	if notifier := a.newNotifier(); notifier != nil {
		text := renderReportText(window, total, symbols, func(sym string) int { return perSymbol[sym].count })
		if err := notifier.Announce(ctx, text); err != nil {
			a.Logger.Error().Err(err).Msg("failed to send report notice")
		}
	}
	return nil
}

func renderReportText(window time.Duration, total int, symbols []string, count func(string) int) string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("[Signal Report] last %s: %d signals\n", window, total))
	for _, sym := range symbols {
		builder.WriteString(fmt.Sprintf("%s: %d\n", sym, count(sym)))
	}
	return builder.String()
}
