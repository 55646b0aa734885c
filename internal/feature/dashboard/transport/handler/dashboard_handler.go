// Package handler はdashboardフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	candleshandler "stock_dashboard/internal/feature/candles/transport/handler"
	candlesusecase "stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/feature/dashboard/transport/http/dto"
	"stock_dashboard/internal/feature/dashboard/usecase"
)

// DashboardUsecase はダッシュボード組み立てのユースケースインターフェースを定義します。
type DashboardUsecase interface {
	GetDashboard(ctx context.Context, p usecase.Params) (*usecase.Result, error)
}

// DashboardHandler はダッシュボードのHTTPリクエストを処理します。
type DashboardHandler struct {
	uc DashboardUsecase
}

// NewDashboardHandler は指定されたusecaseでDashboardHandlerの新しいインスタンスを生成します。
func NewDashboardHandler(uc DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetDashboardHandler は銘柄・期間・指標窓を受け取り、1回の描画サイクル分の
// 主要指標・チャート仕様・テーブルをJSONで返します。
//
// エンドポイント例:
// GET /api/dashboard/AAPL?start=2024-01-01&end=2024-06-30&sma_window=20&ema_window=20&rsi_window=14
func (h *DashboardHandler) GetDashboardHandler(c *gin.Context) {
	symbol := c.Param("symbol")

	start, end, ok := candleshandler.ParseRange(c)
	if !ok {
		return
	}

	p := usecase.Params{
		Symbol: symbol,
		Start:  start,
		End:    end,
		// 未指定・不正値はユースケース側でデフォルトに倒れる
		SMAWindow: intQuery(c, "sma_window"),
		EMAWindow: intQuery(c, "ema_window"),
		RSIWindow: intQuery(c, "rsi_window"),
	}

	res, err := h.uc.GetDashboard(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, candlesusecase.ErrIncompleteDateRange) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Please select both start and end dates."})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewDashboardResponse(res))
}

func intQuery(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}
