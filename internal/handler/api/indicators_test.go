package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"CafePull/internal/domain/models"
	"CafePull/internal/usecase"
	"CafePull/pkg/cache"
	xhttp "CafePull/pkg/http"
	xlogger "CafePull/pkg/logger"
)

type stubCoffeeSource struct{}

func (stubCoffeeSource) ScrapeCoffeePrice(context.Context) (*models.RawIndicatorSet, error) {
	return &models.RawIndicatorSet{
		PrecioInternoReferencia: "$2.780.000",
		BolsaNY:                 "343,60",
		TasaCambio:              "$4.015",
	}, nil
}

type stubFuturesSource struct{}

func (stubFuturesSource) GetFuturesData(_ context.Context, _ models.TimeRange) (*models.FuturesHistory, error) {
	points := make([]models.FuturesPoint, 30)
	for i := range points {
		points[i] = models.FuturesPoint{Price: 300, Volume: 10, Timestamp: time.Now().UnixMilli()}
	}
	return &models.FuturesHistory{Symbol: "KC", Data: points}, nil
}

type stubMetrics struct{}

func (stubMetrics) RecordScrape(string, string)         {}
func (stubMetrics) RecordCacheRequest(string, string)   {}
func (stubMetrics) RecordLastIndicator(string, float64) {}
func (stubMetrics) RecordLatency(string, float64)       {}

func newTestHandler() *IndicatorHandler {
	logger := xlogger.Nop()
	coffee := usecase.NewCoffeePriceUseCase(stubCoffeeSource{}, cache.NewMemoryCache(), stubMetrics{}, logger, time.Minute, "https://example.org")
	stats := usecase.NewLiveStatisticsUseCase(stubFuturesSource{}, cache.NewMemoryCache(), stubMetrics{}, logger, time.Minute)
	return NewIndicatorHandler(coffee, stats, logger)
}

func doRequest(t *testing.T, target string) (*httptest.ResponseRecorder, xhttp.APIResponse) {
	t.Helper()

	e := echo.New()
	newTestHandler().RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, body
}

func TestGetCoffeePriceToday(t *testing.T) {
	rec, body := doRequest(t, "/api/precio-hoy")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !body.Success {
		t.Fatalf("expected success envelope")
	}
	if body.Message != "Precio obtenido exitosamente" {
		t.Fatalf("message = %q", body.Message)
	}
	if body.Data == nil {
		t.Fatalf("expected data")
	}
}

func TestGetLiveStatisticsDefaultRange(t *testing.T) {
	rec, body := doRequest(t, "/api/estadisticas-en-vivo")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body.Message != "Estadísticas en vivo obtenidas exitosamente para período 1M" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestGetLiveStatisticsInvalidRange(t *testing.T) {
	rec, body := doRequest(t, "/api/estadisticas-en-vivo?range=2Y")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body.Success {
		t.Fatalf("expected failure envelope")
	}
}

func TestHealth(t *testing.T) {
	e := echo.New()
	newTestHandler().RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %q", body["status"])
	}
}
