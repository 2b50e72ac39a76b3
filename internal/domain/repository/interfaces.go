package repository

import (
	"context"

	"CafePull/internal/domain/models"
)

// CoffeePriceSource fetches the raw indicator set from the federation site.
// Retries happen inside the source; callers see only the final result.
type CoffeePriceSource interface {
	ScrapeCoffeePrice(ctx context.Context) (*models.RawIndicatorSet, error)
}

// FuturesSource fetches a futures history for a time range. The returned
// aggregate is sorted ascending by timestamp.
type FuturesSource interface {
	GetFuturesData(ctx context.Context, timeRange models.TimeRange) (*models.FuturesHistory, error)
}

type Metrics interface {
	RecordScrape(source, status string)
	RecordCacheRequest(key, result string)
	RecordLastIndicator(indicator string, value float64)
	RecordLatency(op string, seconds float64)
}
