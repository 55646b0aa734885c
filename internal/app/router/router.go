// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	candleshandler "stock_dashboard/internal/feature/candles/transport/handler"
	dashboardhandler "stock_dashboard/internal/feature/dashboard/transport/handler"
	"stock_dashboard/internal/platform/http/handler"
	"stock_dashboard/internal/platform/metrics"
)

// NewRouter はすべてのルートを登録したGinエンジンを生成します。
func NewRouter(m *metrics.Metrics, dashboard *dashboardhandler.DashboardHandler,
	candles *candleshandler.CandlesHandler) *gin.Engine {
	r := gin.Default()
	r.Use(m.GinMiddleware())

	// 導通確認用
	r.GET("/healthz", handler.Health)
	// Prometheusメトリクス
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// 1回分の描画サイクル（主要指標＋チャート仕様＋テーブル）
		api.GET("/dashboard/:symbol", dashboard.GetDashboardHandler)
		// 生のOHLCVテーブル
		api.GET("/candles/:symbol", candles.GetCandlesHandler)
		// 同じデータのCSVエクスポート
		api.GET("/candles/:symbol/export", candles.ExportCSVHandler)
	}

	return r
}
