// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"stock_dashboard/internal/config"
	"stock_dashboard/internal/platform/externalapi/twelvedata"
	infrahttp "stock_dashboard/internal/platform/http"
	"stock_dashboard/internal/platform/metrics"
	"stock_dashboard/internal/shared/ratelimiter"
)

// NewMarket creates a fully configured TwelveDataMarket with HTTP client
// and rate limiter.
func NewMarket(cfg *config.Config, m *metrics.Metrics) *twelvedata.TwelveDataMarket {
	tdCfg := twelvedata.Config{
		APIKey:  cfg.TwelveData.APIKey,
		BaseURL: cfg.TwelveData.BaseURL,
		Timeout: cfg.Timeout(),
	}
	httpClient := infrahttp.NewHTTPClient(tdCfg.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.TwelveData.RateLimitPerMinute, time.Minute)
	return twelvedata.NewTwelveDataMarket(tdCfg, httpClient, limiter, m)
}
