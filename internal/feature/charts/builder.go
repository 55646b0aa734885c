// Package charts assembles renderable chart specifications from a candle
// series and its indicator series. No computation happens here: the
// builder only assigns visual encoding (series, colors, labels, axes),
// so the client can hand the specs to any charting library.
package charts

import (
	"fmt"
	"math"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/indicators/engine"
)

// Candlestick is the OHLC trace of the price chart.
type Candlestick struct {
	Name  string    `json:"name"`
	X     []string  `json:"x"` // calendar dates, "2006-01-02"
	Open  []float64 `json:"open"`
	High  []float64 `json:"high"`
	Low   []float64 `json:"low"`
	Close []float64 `json:"close"`
}

// Line is a single line trace. Undefined indicator positions are encoded
// as null so the renderer leaves a gap instead of drawing zero.
type Line struct {
	Name  string     `json:"name"`
	Color string     `json:"color"`
	X     []string   `json:"x"`
	Y     []*float64 `json:"y"`
}

// RefLine is a fixed horizontal reference line on an oscillator panel.
type RefLine struct {
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Dash  string  `json:"dash"`
	Label string  `json:"label"`
}

// PriceChart is the primary chart: candlesticks with moving-average overlays.
type PriceChart struct {
	Title       string      `json:"title"`
	XAxisTitle  string      `json:"xaxis_title"`
	YAxisTitle  string      `json:"yaxis_title"`
	Candlestick Candlestick `json:"candlestick"`
	Overlays    []Line      `json:"overlays"`
}

// RSIChart is the secondary oscillator panel with a fixed [0,100] range.
type RSIChart struct {
	Title      string     `json:"title"`
	XAxisTitle string     `json:"xaxis_title"`
	YAxisTitle string     `json:"yaxis_title"`
	YRange     [2]float64 `json:"yrange"`
	Line       Line       `json:"line"`
	RefLines   []RefLine  `json:"reflines"`
}

const dateLayout = "2006-01-02"

// BuildPriceChart builds the candlestick chart with SMA and EMA overlays.
func BuildPriceChart(candles []entity.Candle, sma, ema engine.Series, smaWindow, emaWindow int) PriceChart {
	x := dates(candles)
	cs := Candlestick{
		Name:  "Price",
		X:     x,
		Open:  make([]float64, len(candles)),
		High:  make([]float64, len(candles)),
		Low:   make([]float64, len(candles)),
		Close: make([]float64, len(candles)),
	}
	for i, c := range candles {
		cs.Open[i] = c.Open
		cs.High[i] = c.High
		cs.Low[i] = c.Low
		cs.Close[i] = c.Close
	}

	return PriceChart{
		Title:       "Stock Price History with SMA and EMA",
		XAxisTitle:  "Date",
		YAxisTitle:  "Price",
		Candlestick: cs,
		Overlays: []Line{
			{Name: fmt.Sprintf("SMA (%d)", smaWindow), Color: "blue", X: x, Y: nullable(sma)},
			{Name: fmt.Sprintf("EMA (%d)", emaWindow), Color: "orange", X: x, Y: nullable(ema)},
		},
	}
}

// BuildRSIChart builds the RSI panel with overbought/oversold reference
// lines at 70 and 30.
func BuildRSIChart(candles []entity.Candle, rsi engine.Series, window int) RSIChart {
	return RSIChart{
		Title:      "Relative Strength Index (RSI)",
		XAxisTitle: "Date",
		YAxisTitle: "RSI",
		YRange:     [2]float64{0, 100},
		Line: Line{
			Name:  fmt.Sprintf("RSI (%d)", window),
			Color: "purple",
			X:     dates(candles),
			Y:     nullable(rsi),
		},
		RefLines: []RefLine{
			{Y: 70, Color: "red", Dash: "dash", Label: "Overbought"},
			{Y: 30, Color: "green", Dash: "dash", Label: "Oversold"},
		},
	}
}

func dates(candles []entity.Candle) []string {
	x := make([]string, len(candles))
	for i, c := range candles {
		x[i] = c.Time.UTC().Format(dateLayout)
	}
	return x
}

// nullable converts a series to pointers, NaN becoming nil. encoding/json
// cannot marshal NaN, so undefined values must leave the process as null.
func nullable(s engine.Series) []*float64 {
	out := make([]*float64, len(s))
	for i, v := range s {
		if math.IsNaN(v) {
			continue
		}
		v := v
		out[i] = &v
	}
	return out
}
