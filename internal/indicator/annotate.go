package indicator

import "crypto-buy-alerts/internal/series"

// Default windows. Evaluators reference these columns by name; the windows
// themselves follow the standard charting conventions.
const (
	EMAShortWindow  = 14
	EMAPullWindow   = 20
	EMACrossWindow  = 50
	EMATrendWindow  = 200
	RSIWindow       = 14
	MACDFastWindow  = 12
	MACDSlowWindow  = 26
	MACDSignalWin   = 9
	BollingerWindow = 20
	BollingerK      = 2.0
	VolumeMAWindow  = 20
)

// Annotated is a candle series extended with the indicator columns the setup
// evaluators and the decision policy read.
type Annotated struct {
	Candles series.Series

	EMA14  Column
	EMA20  Column
	EMA50  Column
	EMA200 Column

	RSI Column

	MACD       Column
	MACDSignal Column
	MACDDiff   Column

	BBUpper Column
	BBLower Column
	BBWidth Column

	VolumeMA Column
}

// Annotate computes the full indicator battery for a series. Columns whose
// window exceeds the series length come back entirely undefined; evaluation
// over them surfaces as an insufficient-history outcome downstream.
func Annotate(s series.Series) *Annotated {
	closes := s.Closes()
	macd := MACD(closes, MACDFastWindow, MACDSlowWindow, MACDSignalWin)
	bands := Bollinger(closes, BollingerWindow, BollingerK)

	return &Annotated{
		Candles:    s,
		EMA14:      EMA(closes, EMAShortWindow),
		EMA20:      EMA(closes, EMAPullWindow),
		EMA50:      EMA(closes, EMACrossWindow),
		EMA200:     EMA(closes, EMATrendWindow),
		RSI:        RSI(closes, RSIWindow),
		MACD:       macd.Line,
		MACDSignal: macd.Signal,
		MACDDiff:   macd.Diff,
		BBUpper:    bands.Upper,
		BBLower:    bands.Lower,
		BBWidth:    bands.Width,
		VolumeMA:   RollingMean(s.Volumes(), VolumeMAWindow),
	}
}

// LastIndex returns the index of the latest bar, or -1 for an empty series.
func (a *Annotated) LastIndex() int { return a.Candles.Len() - 1 }

// Bar returns the candle back positions before the latest one.
func (a *Annotated) Bar(back int) (series.Candle, error) {
	return a.Candles.PreviousN(back)
}
