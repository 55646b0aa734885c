// Package dto defines the dashboard response and its presentation-time
// formatting. Per-field presence and type checks on the loosely-typed
// provider metadata happen here, at the boundary, and degrade to a
// placeholder string instead of failing the request.
package dto

import (
	"fmt"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/charts"
	"stock_dashboard/internal/feature/dashboard/usecase"
)

// Placeholder is shown for any metadata field that is absent or not numeric.
const Placeholder = "N/A"

// KeyMetrics is the formatted headline row of the dashboard.
type KeyMetrics struct {
	CurrentPrice string `json:"current_price"` // e.g. "$185.14"
	MarketCap    string `json:"market_cap"`    // e.g. "$2871.45B"
	PERatio      string `json:"pe_ratio"`      // e.g. "28.91"
	LatestRSI    string `json:"latest_rsi"`    // e.g. "55.32"
}

// DashboardResponse は1回の描画サイクルの完全な出力です。
type DashboardResponse struct {
	Symbol     string               `json:"symbol"`
	Metrics    KeyMetrics           `json:"metrics"`
	LatestRSI  *float64             `json:"latest_rsi"` // 数値としての最新RSI、未定義ならnull
	PriceChart charts.PriceChart    `json:"price_chart"`
	RSIChart   charts.RSIChart      `json:"rsi_chart"`
	Table      []api.CandleResponse `json:"table"`
}

// NewDashboardResponse converts a usecase result into the response document.
func NewDashboardResponse(res *usecase.Result) DashboardResponse {
	table := make([]api.CandleResponse, 0, len(res.Candles))
	for _, x := range res.Candles {
		table = append(table, api.CandleResponse{
			Date:   x.Time.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}

	var latest *float64
	if res.HasRSI {
		v := res.LatestRSI
		latest = &v
	}

	return DashboardResponse{
		Symbol:     res.Symbol,
		Metrics:    newKeyMetrics(res),
		LatestRSI:  latest,
		PriceChart: charts.BuildPriceChart(res.Candles, res.SMA, res.EMA, res.SMAWindow, res.EMAWindow),
		RSIChart:   charts.BuildRSIChart(res.Candles, res.RSI, res.RSIWindow),
		Table:      table,
	}
}

func newKeyMetrics(res *usecase.Result) KeyMetrics {
	m := KeyMetrics{
		CurrentPrice: Placeholder,
		MarketCap:    Placeholder,
		PERatio:      Placeholder,
		LatestRSI:    Placeholder,
	}

	if price, ok := res.Quote.Number(entity.QuoteClose); ok {
		m.CurrentPrice = fmt.Sprintf("$%.2f", price)
	}
	if mcap, ok := res.Quote.Number(entity.QuoteMarketCap); ok {
		m.MarketCap = fmt.Sprintf("$%.2fB", mcap/1e9)
	}
	// P/E は数値でなければ文字列のまま表示する（"N/A" を含む）
	if pe, ok := res.Quote.Number(entity.QuoteTrailingPE); ok {
		m.PERatio = fmt.Sprintf("%.2f", pe)
	} else if s, ok := res.Quote.Text(entity.QuoteTrailingPE); ok && s != "" {
		m.PERatio = s
	}
	if res.HasRSI {
		m.LatestRSI = fmt.Sprintf("%.2f", res.LatestRSI)
	}

	return m
}
