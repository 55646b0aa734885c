// Package usecase はロウソク足データ取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"time"

	"stock_dashboard/internal/feature/candles/domain/entity"
)

const (
	// DefaultRangeDays は日付範囲が未指定の場合に遡る日数です。
	DefaultRangeDays = 365
)

// ErrIncompleteDateRange は日付範囲の片側だけが指定された場合に返されます。
var ErrIncompleteDateRange = errors.New("both start and end dates must be selected")

// MarketRepository は外部市場データプロバイダを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	// GetTimeSeries は指定期間の日足ロウソク足を日付昇順で取得します。
	GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error)
	// GetQuote は銘柄の緩い型のメタデータを取得します。
	GetQuote(ctx context.Context, symbol string) (entity.Quote, error)
}

// candlesUsecase はロウソク足データ取得のユースケースを定義します。
type candlesUsecase struct {
	market MarketRepository
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
func NewCandlesUsecase(market MarketRepository) *candlesUsecase {
	return &candlesUsecase{market: market}
}

// GetCandles は指定された銘柄と期間のロウソク足データを取得します。
// 期間が両方ゼロ値の場合は直近 DefaultRangeDays 日を使用し、片側だけ
// ゼロ値の場合は ErrIncompleteDateRange を返します。
func (cu *candlesUsecase) GetCandles(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	start, end, err := NormalizeRange(start, end)
	if err != nil {
		return nil, err
	}
	return cu.market.GetTimeSeries(ctx, symbol, start, end)
}

// NormalizeRange は日付範囲のデフォルト適用と検証を行います。
// dashboardユースケースも同じ規則を共有します。
func NormalizeRange(start, end time.Time) (time.Time, time.Time, error) {
	switch {
	case start.IsZero() && end.IsZero():
		end = time.Now().UTC()
		start = end.AddDate(0, 0, -DefaultRangeDays)
	case start.IsZero() || end.IsZero():
		return time.Time{}, time.Time{}, ErrIncompleteDateRange
	}
	return start, end, nil
}
