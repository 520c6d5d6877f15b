package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
)

// Show prints recent signal records.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	records, err := store.Recent(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no signals recorded")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tSymbol\tEntry\tTake-Profit\tStop-Loss\tSetups")

	for _, rec := range records {
		tps := make([]string, len(rec.TakeProfits))
		for i, tp := range rec.TakeProfits {
			tps[i] = formatDecimal(tp, 4)
		}
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.SignaledAt.UTC().Format(time.RFC3339),
			rec.Symbol,
			formatDecimal(rec.EntryPrice, 4),
			strings.Join(tps, "/"),
			formatDecimal(rec.StopLoss, 4),
			strings.Join(rec.Setups, ","),
		)
	}

	writer.Flush()
	return nil
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}
