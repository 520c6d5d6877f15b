// Package chart renders alert attachments and export images.
package chart

import (
	"bytes"
	"errors"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"crypto-buy-alerts/internal/indicator"
)

// Render draws the close price with the 20- and 200-bar EMAs for an
// annotated series and returns the PNG bytes. EMA series are clipped to
// their defined region; an EMA whose window exceeds the series is omitted.
func Render(symbol string, a *indicator.Annotated) ([]byte, error) {
	n := a.Candles.Len()
	if n < 2 {
		return nil, errors.New("chart: need at least two bars")
	}

	x := make([]time.Time, n)
	closes := make([]float64, n)
	for i, c := range a.Candles.Candles {
		x[i] = c.Time
		closes[i] = c.Close
	}

	seriesList := []chart.Series{
		chart.TimeSeries{
			Name:    "Close",
			XValues: x,
			YValues: closes,
		},
	}
	if s, ok := emaSeries("EMA20", x, a.EMA20); ok {
		seriesList = append(seriesList, s)
	}
	if s, ok := emaSeries("EMA200", x, a.EMA200); ok {
		seriesList = append(seriesList, s)
	}

	graph := chart.Chart{
		Title:  symbol,
		Width:  1024,
		Height: 420,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeMinuteValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Price",
		},
		Series: seriesList,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func emaSeries(name string, x []time.Time, col indicator.Column) (chart.Series, bool) {
	first := col.FirstDefined()
	if col.Len()-first < 2 {
		return nil, false
	}

	ys := make([]float64, 0, col.Len()-first)
	for i := first; i < col.Len(); i++ {
		v, _ := col.At(i)
		ys = append(ys, v)
	}
	return chart.TimeSeries{
		Name:    name,
		XValues: x[first:],
		YValues: ys,
		Style: chart.Style{
			StrokeDashArray: []float64{4.0, 4.0},
		},
	}, true
}
