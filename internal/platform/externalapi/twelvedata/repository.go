package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/externalapi/twelvedata/dto"
	"stock_dashboard/internal/platform/metrics"
	"stock_dashboard/internal/shared/ratelimiter"
)

const (
	// interval はダッシュボードが扱う唯一の時間間隔（日足）です。
	interval = "1day"
	// dateLayout はstart_date/end_dateクエリの日付書式です。
	dateLayout = "2006-01-02"
)

// TwelveDataMarket はTwelve Data外部APIから株価データと銘柄メタデータを
// 取得するMarketRepository実装です。すべての呼び出しはレートリミッタを
// 経由します（無料プランのクレジット上限対策）。
type TwelveDataMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
	metrics *metrics.Metrics
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの
// 新しいインスタンスを生成します。limiterとmetricsはnilでも動作します。
func NewTwelveDataMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface, m *metrics.Metrics) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client, limiter: limiter, metrics: m}
}

// GetTimeSeries はTwelve Data APIから指定期間の日足時系列データを取得し、
// 日付昇順のdomain.Candleスライスとして返します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("start_date", start.Format(dateLayout))
	q.Set("end_date", end.Format(dateLayout))
	q.Set("apikey", t.cfg.APIKey)

	var body dto.TimeSeriesResponse
	if err := t.get(ctx, "time_series", q, &body); err != nil {
		t.metrics.IncProviderError("time_series")
		return nil, err
	}
	if body.Status == "error" {
		t.metrics.IncProviderError("time_series")
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	candles := make([]entity.Candle, 0, len(body.Values))
	for _, v := range body.Values {

		// タイムスタンプをパース（日足は日付のみだが時刻付きも許容）
		tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			tm, err = time.Parse(dateLayout, v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("parse time %q: %w", v.Datetime, err)
			}
		}
		o, err := strconv.ParseFloat(v.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("parse open %q: %w", v.Open, err)
		}
		h, err := strconv.ParseFloat(v.High, 64)
		if err != nil {
			return nil, fmt.Errorf("parse high %q: %w", v.High, err)
		}
		l, err := strconv.ParseFloat(v.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("parse low %q: %w", v.Low, err)
		}
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		vol64, err := strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}

		candles = append(candles, entity.Candle{
			Time:   tm,
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: vol64,
		})
	}

	// APIは新しい順に返すため、日付昇順に並べ替える
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
	return candles, nil
}

// GetQuote はTwelve Data APIから銘柄メタデータを取得します。レスポンスの
// スキーマはプランや銘柄により変動するため、フィールドの型を決め打ちせず
// 緩い型のマッピングとして返します。個々のフィールドの有無・型の検査は
// 表示境界（dashboard）側で行います。
func (t *TwelveDataMarket) GetQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("apikey", t.cfg.APIKey)

	var fields map[string]any
	if err := t.get(ctx, "quote", q, &fields); err != nil {
		t.metrics.IncProviderError("quote")
		return entity.Quote{}, err
	}
	if status, ok := fields["status"].(string); ok && status == "error" {
		t.metrics.IncProviderError("quote")
		msg, _ := fields["message"].(string)
		return entity.Quote{}, fmt.Errorf("twelvedata: %s", msg)
	}

	return entity.NewQuote(fields), nil
}

// get は1回のAPI呼び出しを実行し、JSONレスポンスをoutへデコードします。
func (t *TwelveDataMarket) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	if t.limiter != nil {
		t.limiter.WaitIfNeeded()
	}

	u := fmt.Sprintf("%s/%s?%s", t.cfg.BaseURL, endpoint, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}
