package handler_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/transport/handler"
	"stock_dashboard/internal/feature/candles/usecase"
)

// mockCandlesUsecase はCandlesUsecaseインターフェースのモック実装です。
type mockCandlesUsecase struct {
	GetCandlesFunc func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error)
}

func (m *mockCandlesUsecase) GetCandles(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	return m.GetCandlesFunc(ctx, symbol, start, end)
}

func setupRouter(uc handler.CandlesUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewCandlesHandler(uc)
	r := gin.New()
	r.GET("/api/candles/:symbol", h.GetCandlesHandler)
	r.GET("/api/candles/:symbol/export", h.ExportCSVHandler)
	return r
}

// TestCandlesHandler_GetCandlesHandler はJSONテーブル出力のリクエスト/レスポンス処理をテストします。
func TestCandlesHandler_GetCandlesHandler(t *testing.T) {
	testTime := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		url            string
		mockGetCandles func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error)
		expectedStatus int
		expectedBody   string // JSON文字列として比較
	}{
		{
			name: "success: explicit range",
			url:  "/api/candles/AAPL?start=2024-01-01&end=2024-06-30",
			mockGetCandles: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
				assert.Equal(t, "AAPL", symbol)
				assert.Equal(t, "2024-01-01", start.Format("2006-01-02"))
				assert.Equal(t, "2024-06-30", end.Format("2006-01-02"))
				return []entity.Candle{
					{Time: testTime, Open: 100, High: 110, Low: 90, Close: 105, Volume: 1000},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"date":"2024-01-02","open":100,"high":110,"low":90,"close":105,"volume":1000}]`,
		},
		{
			name: "success: no range uses defaults",
			url:  "/api/candles/AAPL",
			mockGetCandles: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
				assert.True(t, start.IsZero())
				assert.True(t, end.IsZero())
				return []entity.Candle{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "error: incomplete range is a user input error",
			url:  "/api/candles/AAPL?start=2024-01-01",
			mockGetCandles: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
				return nil, usecase.ErrIncompleteDateRange
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Please select both start and end dates."}`,
		},
		{
			name:           "error: malformed date",
			url:            "/api/candles/AAPL?start=01-01-2024&end=2024-06-30",
			mockGetCandles: nil, // 呼ばれない
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid start date \"01-01-2024\""}`,
		},
		{
			name: "error: provider failure",
			url:  "/api/candles/BAD?start=2024-01-01&end=2024-06-30",
			mockGetCandles: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
				return nil, errors.New("twelvedata: symbol not found")
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"twelvedata: symbol not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockCandlesUsecase{GetCandlesFunc: tt.mockGetCandles})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestCandlesHandler_ExportCSVHandler はCSVエクスポートのヘッダーと往復精度をテストします。
func TestCandlesHandler_ExportCSVHandler(t *testing.T) {
	candles := []entity.Candle{
		{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 185.64, High: 186.95, Low: 185.01, Close: 185.14, Volume: 52455980},
		{Time: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Open: 184.22, High: 185.88, Low: 183.43, Close: 184.25, Volume: 58414460},
	}
	router := setupRouter(&mockCandlesUsecase{
		GetCandlesFunc: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
			return candles, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/candles/AAPL/export", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "AAPL_stock_data.csv")

	// 再パースして値が失われていないことを検証
	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, []string{"Date", "Open", "High", "Low", "Close", "Volume"}, records[0])
	assert.Equal(t, []string{"2024-01-02", "185.64", "186.95", "185.01", "185.14", "52455980"}, records[1])
	assert.Equal(t, []string{"2024-01-03", "184.22", "185.88", "183.43", "184.25", "58414460"}, records[2])
}

// brokenResponseWriter はクライアント切断を模擬し、ボディ書き込みを常に失敗させます。
type brokenResponseWriter struct {
	header http.Header
}

func (w *brokenResponseWriter) Header() http.Header { return w.header }

func (w *brokenResponseWriter) WriteHeader(int) {}

func (w *brokenResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("write: broken pipe")
}

// TestCandlesHandler_ExportCSVHandler_WriteFailure はCSVストリーム書き込みの
// 失敗が黙殺されず、警告ログとして記録されることを検証します。
func TestCandlesHandler_ExportCSVHandler_WriteFailure(t *testing.T) {
	router := setupRouter(&mockCandlesUsecase{
		GetCandlesFunc: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
			return []entity.Candle{
				{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 1, Low: 1, Close: 1, Volume: 1},
			}, nil
		},
	})

	// ログ出力を捕捉する
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	req := httptest.NewRequest(http.MethodGet, "/api/candles/AAPL/export", nil)
	router.ServeHTTP(&brokenResponseWriter{header: http.Header{}}, req)

	assert.Contains(t, buf.String(), "failed to write csv export")
	assert.Contains(t, buf.String(), "AAPL")
}

// TestCandlesHandler_ExportCSVHandler_Error はプロバイダ失敗時にCSVが
// 生成されないことを検証します。
func TestCandlesHandler_ExportCSVHandler_Error(t *testing.T) {
	router := setupRouter(&mockCandlesUsecase{
		GetCandlesFunc: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
			return nil, errors.New("network error")
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/candles/AAPL/export", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"network error"}`, w.Body.String())
}
