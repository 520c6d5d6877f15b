package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"crypto-buy-alerts/internal/recorder"
)

// Export writes the recent signal log as CSV and/or a PNG of entry prices
// over time.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
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
	if len(records) == 0 {
		a.Logger.Info().Msg("no signals to export")
		return nil
	}

	a.Logger.Info().Int("records", len(records)).Msg("exporting signal log")

	if opts.CSVPath != "" {
		if err := writeSignalsCSV(opts.CSVPath, records); err != nil {
			return err
		}
	}
	if opts.PNGPath != "" {
		if err := writeSignalsPNG(opts.PNGPath, records); err != nil {
			return err
		}
	}
	return nil
}

func writeSignalsCSV(path string, records []recorder.SignalRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"signaled_at", "symbol", "entry_price", "take_profits", "stop_loss", "stake", "setups"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		tps := make([]string, len(rec.TakeProfits))
		for i, tp := range rec.TakeProfits {
			tps[i] = tp.String()
		}
		row := []string{
			rec.SignaledAt.Format(time.RFC3339),
			rec.Symbol,
			rec.EntryPrice.String(),
			strings.Join(tps, "/"),
			rec.StopLoss.String(),
			rec.Stake.String(),
			strings.Join(rec.Setups, "/"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeSignalsPNG(path string, records []recorder.SignalRecord) error {
	if len(records) < 2 {
		return errors.New("need at least two signals for a PNG export")
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(records))
	entries := make([]float64, len(records))
	for i, rec := range records {
		x[i] = rec.SignaledAt
		entries[i] = rec.EntryPrice.InexactFloat64()
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Entry price",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Entry",
				XValues: x,
				YValues: entries,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
