package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testRange() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
}

func TestTwelveDataMarket_GetTimeSeries_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request parameters
		if r.URL.Query().Get("symbol") != "AAPL" {
			t.Errorf("expected symbol AAPL, got %s", r.URL.Query().Get("symbol"))
		}
		if r.URL.Query().Get("interval") != "1day" {
			t.Errorf("expected interval 1day, got %s", r.URL.Query().Get("interval"))
		}
		if r.URL.Query().Get("start_date") != "2024-01-01" {
			t.Errorf("expected start_date 2024-01-01, got %s", r.URL.Query().Get("start_date"))
		}
		if r.URL.Query().Get("end_date") != "2024-06-30" {
			t.Errorf("expected end_date 2024-06-30, got %s", r.URL.Query().Get("end_date"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		// APIは新しい順に返す
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"symbol": "AAPL",
			"interval": "1day",
			"values": [
				{
					"datetime": "2024-01-03",
					"open": "184.22",
					"high": "185.88",
					"low": "183.43",
					"close": "184.25",
					"volume": "58414460"
				},
				{
					"datetime": "2024-01-02",
					"open": "185.64",
					"high": "186.95",
					"low": "185.01",
					"close": "185.14",
					"volume": "52455980"
				}
			]
		}`))
	}))
	defer server.Close()

	market := NewTwelveDataMarket(Config{APIKey: "test-key", BaseURL: server.URL}, server.Client(), nil, nil)

	start, end := testRange()
	candles, err := market.GetTimeSeries(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}

	// 日付昇順に並べ替えられていること
	if !candles[0].Time.Before(candles[1].Time) {
		t.Errorf("candles should be sorted ascending: %v, %v", candles[0].Time, candles[1].Time)
	}
	if candles[0].Open != 185.64 {
		t.Errorf("expected open 185.64, got %f", candles[0].Open)
	}
	if candles[0].Close != 185.14 {
		t.Errorf("expected close 185.14, got %f", candles[0].Close)
	}
	if candles[0].Volume != 52455980 {
		t.Errorf("expected volume 52455980, got %d", candles[0].Volume)
	}
}

func TestTwelveDataMarket_GetTimeSeries_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Twelve Dataはエラーでも200を返すことがある
		_, _ = w.Write([]byte(`{"status":"error","message":"symbol not found"}`))
	}))
	defer server.Close()

	market := NewTwelveDataMarket(Config{APIKey: "test-key", BaseURL: server.URL}, server.Client(), nil, nil)

	start, end := testRange()
	if _, err := market.GetTimeSeries(context.Background(), "ZZZZ", start, end); err == nil {
		t.Fatal("expected error for provider error body")
	}
}

func TestTwelveDataMarket_GetTimeSeries_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	market := NewTwelveDataMarket(Config{APIKey: "test-key", BaseURL: server.URL}, server.Client(), nil, nil)

	start, end := testRange()
	if _, err := market.GetTimeSeries(context.Background(), "AAPL", start, end); err == nil {
		t.Fatal("expected error for HTTP 429")
	}
}

func TestTwelveDataMarket_GetTimeSeries_BadNumeric(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"values": [{"datetime":"2024-01-02","open":"not-a-number","high":"1","low":"1","close":"1","volume":"1"}]
		}`))
	}))
	defer server.Close()

	market := NewTwelveDataMarket(Config{APIKey: "k", BaseURL: server.URL}, server.Client(), nil, nil)

	start, end := testRange()
	if _, err := market.GetTimeSeries(context.Background(), "AAPL", start, end); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTwelveDataMarket_GetQuote(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"symbol":"AAPL","name":"Apple Inc","close":"185.14","market_cap":2871000000000}`))
	}))
	defer server.Close()

	market := NewTwelveDataMarket(Config{APIKey: "k", BaseURL: server.URL}, server.Client(), nil, nil)

	quote, err := market.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 緩い型のまま保持され、数値は両方の形を受け付ける
	if v, ok := quote.Number("close"); !ok || v != 185.14 {
		t.Errorf("close: got %v (ok=%v)", v, ok)
	}
	if v, ok := quote.Number("market_cap"); !ok || v != 2.871e12 {
		t.Errorf("market_cap: got %v (ok=%v)", v, ok)
	}
	if _, ok := quote.Number("trailing_pe"); ok {
		t.Error("absent field should not report ok")
	}
}

func TestTwelveDataMarket_GetQuote_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":400,"message":"symbol not found","status":"error"}`))
	}))
	defer server.Close()

	market := NewTwelveDataMarket(Config{APIKey: "k", BaseURL: server.URL}, server.Client(), nil, nil)

	if _, err := market.GetQuote(context.Background(), "ZZZZ"); err == nil {
		t.Fatal("expected error for provider error body")
	}
}
