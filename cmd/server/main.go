package main

import (
	"flag"
	"log"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	"stock_dashboard/internal/config"
	candleshandler "stock_dashboard/internal/feature/candles/transport/handler"
	candlesusecase "stock_dashboard/internal/feature/candles/usecase"
	dashboardhandler "stock_dashboard/internal/feature/dashboard/transport/handler"
	dashboardusecase "stock_dashboard/internal/feature/dashboard/usecase"
	"stock_dashboard/internal/platform/metrics"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	if cfg.TwelveData.APIKey == "" {
		log.Println("[WARN] TWELVE_DATA_API_KEY is not set. Provider calls will be rejected.")
	}

	m := metrics.NewMetrics()

	// Market data provider
	market := di.NewMarket(cfg, m)

	// Usecase
	candlesUC := candlesusecase.NewCandlesUsecase(market)
	dashboardUC := dashboardusecase.NewDashboardUsecase(market, m)

	// Handler
	candlesH := candleshandler.NewCandlesHandler(candlesUC)
	dashboardH := dashboardhandler.NewDashboardHandler(dashboardUC)

	// ルータ生成
	r := router.NewRouter(m, dashboardH, candlesH)

	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatal(err)
	}
}
