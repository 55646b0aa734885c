// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
)

const dateLayout = "2006-01-02"

// CandlesUsecase はロウソク足データ取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error)
}

// CandlesHandler はロウソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler は銘柄と期間を受け取り、ロウソク足データをJSONで返します。
//
// エンドポイント例:
// GET /api/candles/AAPL?start=2024-01-01&end=2024-06-30
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	candles, ok := h.fetch(c)
	if !ok {
		return
	}

	out := make([]api.CandleResponse, 0, len(candles))
	for _, x := range candles {
		out = append(out, api.CandleResponse{
			Date:   x.Time.UTC().Format(dateLayout),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}

	c.JSON(http.StatusOK, out)
}

// ExportCSVHandler は同じデータをCSV添付ファイルとして返します。
// ヘッダー行は Date,Open,High,Low,Close,Volume、日付は暦日のみです。
//
// エンドポイント例:
// GET /api/candles/AAPL/export?start=2024-01-01&end=2024-06-30
func (h *CandlesHandler) ExportCSVHandler(c *gin.Context) {
	candles, ok := h.fetch(c)
	if !ok {
		return
	}

	symbol := c.Param("symbol")
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", symbol+"_stock_data.csv"))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Date", "Open", "High", "Low", "Close", "Volume"})
	for _, x := range candles {
		_ = w.Write([]string{
			x.Time.UTC().Format(dateLayout),
			// 'g'/-1 は往復変換で値が保存される最短表現
			strconv.FormatFloat(x.Open, 'g', -1, 64),
			strconv.FormatFloat(x.High, 'g', -1, 64),
			strconv.FormatFloat(x.Low, 'g', -1, 64),
			strconv.FormatFloat(x.Close, 'g', -1, 64),
			strconv.FormatInt(x.Volume, 10),
		})
	}
	w.Flush()
	// ステータス送信後なのでエラーはクライアント切断など書き込み起因のみ
	if err := w.Error(); err != nil {
		slog.Warn("failed to write csv export", "symbol", symbol, "error", err)
	}
}

// fetch はクエリを解釈してロウソク足を取得し、エラー時はレスポンスを書き込み済みにします。
func (h *CandlesHandler) fetch(c *gin.Context) ([]entity.Candle, bool) {
	symbol := c.Param("symbol")

	start, end, ok := ParseRange(c)
	if !ok {
		return nil, false
	}

	candles, err := h.uc.GetCandles(c.Request.Context(), symbol, start, end)
	if err != nil {
		if errors.Is(err, usecase.ErrIncompleteDateRange) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Please select both start and end dates."})
			return nil, false
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return candles, true
}

// ParseRange はstart/endクエリパラメータを暦日として解釈します。
// 未指定はゼロ値のまま返し、書式不正の場合は400を書き込みfalseを返します。
func ParseRange(c *gin.Context) (time.Time, time.Time, bool) {
	var start, end time.Time
	if s := c.Query("start"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: fmt.Sprintf("invalid start date %q", s)})
			return start, end, false
		}
		start = t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: fmt.Sprintf("invalid end date %q", s)})
			return start, end, false
		}
		end = t
	}
	return start, end, true
}
