package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"CafePull/internal/domain/apperrors"
	"CafePull/internal/domain/models"
	"CafePull/pkg/cache"
	xlogger "CafePull/pkg/logger"
)

type fakeCoffeeSource struct {
	calls int
	raw   *models.RawIndicatorSet
	err   error
}

func (f *fakeCoffeeSource) ScrapeCoffeePrice(context.Context) (*models.RawIndicatorSet, error) {
	f.calls++
	return f.raw, f.err
}

type fakeFuturesSource struct {
	calls   int
	history *models.FuturesHistory
	err     error
}

func (f *fakeFuturesSource) GetFuturesData(context.Context, models.TimeRange) (*models.FuturesHistory, error) {
	f.calls++
	return f.history, f.err
}

type nopMetrics struct{}

func (nopMetrics) RecordScrape(string, string)         {}
func (nopMetrics) RecordCacheRequest(string, string)   {}
func (nopMetrics) RecordLastIndicator(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)       {}

func validRaw() *models.RawIndicatorSet {
	return &models.RawIndicatorSet{
		PrecioInternoReferencia: "$2.780.000",
		PrecioInternoFecha:      "2024-03-15",
		BolsaNY:                 "343,60",
		BolsaFecha:              "2024-03-15",
		TasaCambio:              "$4.015",
		TasaFecha:               "2024-03-15",
	}
}

func futuresHistory(n int) *models.FuturesHistory {
	points := make([]models.FuturesPoint, n)
	for i := range points {
		points[i] = models.FuturesPoint{
			Price:     300 + float64(i),
			Volume:    100,
			Timestamp: int64(i) * 86400000,
		}
	}
	// A recent timestamp on the newest point keeps the staleness check quiet.
	if n > 0 {
		points[n-1].Timestamp = time.Now().UnixMilli()
	}
	return &models.FuturesHistory{
		Symbol:   "KC",
		Exchange: "ICE",
		Data:     points,
	}
}

func TestCoffeePriceCacheMissThenHit(t *testing.T) {
	source := &fakeCoffeeSource{raw: validRaw()}
	uc := NewCoffeePriceUseCase(source, cache.NewMemoryCache(), nopMetrics{}, xlogger.Nop(), time.Minute, "https://example.org")

	first, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("first execute: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("calls after miss = %d", source.calls)
	}
	if first.PrecioInternoReferencia.Valor != 2780000 {
		t.Fatalf("precio = %v", first.PrecioInternoReferencia.Valor)
	}

	second, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("cache hit still invoked the source, calls = %d", source.calls)
	}
	if second.PrecioInternoReferencia.Valor != first.PrecioInternoReferencia.Valor {
		t.Fatalf("cached value differs")
	}
}

func TestCoffeePriceTypedErrorPropagates(t *testing.T) {
	wantErr := apperrors.NewNetworkError("Network error after 3 attempts", "dial refused")
	source := &fakeCoffeeSource{err: wantErr}
	uc := NewCoffeePriceUseCase(source, cache.NewMemoryCache(), nopMetrics{}, xlogger.Nop(), time.Minute, "https://example.org")

	_, err := uc.Execute(context.Background())
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.CodeNetwork {
		t.Fatalf("code = %q", appErr.Code)
	}
}

func TestCoffeePriceUntypedErrorWrapped(t *testing.T) {
	source := &fakeCoffeeSource{err: errors.New("boom")}
	uc := NewCoffeePriceUseCase(source, cache.NewMemoryCache(), nopMetrics{}, xlogger.Nop(), time.Minute, "https://example.org")

	_, err := uc.Execute(context.Background())
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.CodeScraping {
		t.Fatalf("code = %q", appErr.Code)
	}
}

func TestLiveStatisticsInvalidRange(t *testing.T) {
	source := &fakeFuturesSource{history: futuresHistory(30)}
	uc := NewLiveStatisticsUseCase(source, cache.NewMemoryCache(), nopMetrics{}, xlogger.Nop(), time.Minute)

	_, err := uc.Execute(context.Background(), models.TimeRange("2Y"))
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("code = %q", appErr.Code)
	}
	if source.calls != 0 {
		t.Fatalf("invalid range still hit the source, calls = %d", source.calls)
	}
}

func TestLiveStatisticsInsufficientData(t *testing.T) {
	source := &fakeFuturesSource{history: futuresHistory(10)}
	uc := NewLiveStatisticsUseCase(source, cache.NewMemoryCache(), nopMetrics{}, xlogger.Nop(), time.Minute)

	_, err := uc.Execute(context.Background(), models.TimeRange1M)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("code = %q", appErr.Code)
	}
}

func TestLiveStatisticsEnrichment(t *testing.T) {
	source := &fakeFuturesSource{history: futuresHistory(30)}
	uc := NewLiveStatisticsUseCase(source, cache.NewMemoryCache(), nopMetrics{}, xlogger.Nop(), time.Minute)

	got, err := uc.Execute(context.Background(), models.TimeRange1M)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got.TimeRange != models.TimeRange1M {
		t.Fatalf("time range = %q", got.TimeRange)
	}
	if got.DataPoints != 30 {
		t.Fatalf("data points = %d", got.DataPoints)
	}
	if got.Statistics == nil {
		t.Fatalf("expected statistics")
	}
	if got.DataQuality == nil {
		t.Fatalf("expected data quality")
	}
	if got.DataQuality.TotalDataPoints != 30 {
		t.Fatalf("quality total = %d", got.DataQuality.TotalDataPoints)
	}
	if got.Source.ScrapeTime == "" {
		t.Fatalf("expected scrape time to be stamped")
	}
}

func TestLiveStatisticsCacheHit(t *testing.T) {
	source := &fakeFuturesSource{history: futuresHistory(30)}
	uc := NewLiveStatisticsUseCase(source, cache.NewMemoryCache(), nopMetrics{}, xlogger.Nop(), time.Minute)

	if _, err := uc.Execute(context.Background(), models.TimeRange1M); err != nil {
		t.Fatalf("first execute: %v", err)
	}
	if _, err := uc.Execute(context.Background(), models.TimeRange1M); err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("cache hit still invoked the source, calls = %d", source.calls)
	}
}
