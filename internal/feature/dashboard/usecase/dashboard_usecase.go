// Package usecase はダッシュボード1回分の描画サイクルを組み立てます。
// 1リクエスト＝プロバイダ取得1回＋同期的な指標計算1回で、リクエスト間で
// 共有する状態はありません。
package usecase

import (
	"context"
	"time"

	"stock_dashboard/internal/feature/candles/domain/entity"
	candlesusecase "stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/feature/indicators/engine"
	"stock_dashboard/internal/platform/metrics"
)

const (
	// DefaultSMAWindow はSMA窓のデフォルト値です。
	DefaultSMAWindow = 20
	// DefaultEMAWindow はEMAスパンのデフォルト値です。
	DefaultEMAWindow = 20
	// DefaultRSIWindow はRSI窓のデフォルト値です。
	DefaultRSIWindow = 14
)

// MarketRepository は外部市場データプロバイダを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error)
	GetQuote(ctx context.Context, symbol string) (entity.Quote, error)
}

// Params はダッシュボード1回分の入力です。窓が0以下の場合はデフォルト値を
// 使用します（窓同士の制約はありません）。
type Params struct {
	Symbol     string
	Start, End time.Time
	SMAWindow  int
	EMAWindow  int
	RSIWindow  int
}

// Result はダッシュボード1回分の計算結果です。指標系列は入力ロウソク足と
// 日付で1:1に整列し、未定義位置はNaNを保持します。
type Result struct {
	Symbol    string
	Candles   []entity.Candle
	Quote     entity.Quote
	SMA       engine.Series
	EMA       engine.Series
	RSI       engine.Series
	LatestRSI float64
	HasRSI    bool
	SMAWindow int
	EMAWindow int
	RSIWindow int
}

// dashboardUsecase はダッシュボード組み立てのユースケースを定義します。
type dashboardUsecase struct {
	market  MarketRepository
	metrics *metrics.Metrics
}

// NewDashboardUsecase はdashboardUsecaseの新しいインスタンスを生成します。
// metricsはnilでも動作します。
func NewDashboardUsecase(market MarketRepository, m *metrics.Metrics) *dashboardUsecase {
	return &dashboardUsecase{market: market, metrics: m}
}

// GetDashboard は価格系列とメタデータを取得し、SMA/EMA/RSIを計算します。
// どちらかのプロバイダ呼び出しが失敗した場合はそのまま失敗を返し、
// 以降の計算は行いません。指標計算自体は決してエラーになりません。
func (du *dashboardUsecase) GetDashboard(ctx context.Context, p Params) (*Result, error) {
	if p.SMAWindow < 1 {
		p.SMAWindow = DefaultSMAWindow
	}
	if p.EMAWindow < 1 {
		p.EMAWindow = DefaultEMAWindow
	}
	if p.RSIWindow < 1 {
		p.RSIWindow = DefaultRSIWindow
	}

	start, end, err := candlesusecase.NormalizeRange(p.Start, p.End)
	if err != nil {
		return nil, err
	}

	candles, err := du.market.GetTimeSeries(ctx, p.Symbol, start, end)
	if err != nil {
		return nil, err
	}
	quote, err := du.market.GetQuote(ctx, p.Symbol)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	closes := engine.Closes(candles)
	res := &Result{
		Symbol:    p.Symbol,
		Candles:   candles,
		Quote:     quote,
		SMA:       engine.SMA(closes, p.SMAWindow),
		EMA:       engine.EMA(closes, p.EMAWindow),
		RSI:       engine.RSI(closes, p.RSIWindow),
		SMAWindow: p.SMAWindow,
		EMAWindow: p.EMAWindow,
		RSIWindow: p.RSIWindow,
	}
	res.LatestRSI, res.HasRSI = res.RSI.Latest()
	du.metrics.ObserveIndicatorCompute(time.Since(began))

	return res, nil
}
