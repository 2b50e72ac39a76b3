package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"CafePull/internal/domain/apperrors"
	"CafePull/internal/domain/models"
	drepo "CafePull/internal/domain/repository"
	"CafePull/internal/service/analytics"
	"CafePull/pkg/cache"
	xlogger "CafePull/pkg/logger"
)

const futuresCacheKeyPrefix = "ice_futures_"

// stalenessThreshold is how old the newest data point may be before the
// series is logged as stale. Weekends routinely trip this, so it only warns.
const stalenessThreshold = 24 * time.Hour

// LiveStatisticsUseCase orchestrates the futures read path: range
// validation, cache-aside, then enrichment of the scraped series.
type LiveStatisticsUseCase struct {
	source   drepo.FuturesSource
	cache    cache.Service
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	cacheTTL time.Duration
}

func NewLiveStatisticsUseCase(
	source drepo.FuturesSource,
	cacheSvc cache.Service,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	cacheTTL time.Duration,
) *LiveStatisticsUseCase {
	return &LiveStatisticsUseCase{
		source:   source,
		cache:    cacheSvc,
		metrics:  metrics,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Execute returns the enriched futures history for the requested range.
// The range is validated before the cache or the source is touched.
func (uc *LiveStatisticsUseCase) Execute(ctx context.Context, timeRange models.TimeRange) (*models.FuturesHistory, error) {
	if !isValidRange(timeRange) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Rango de tiempo inválido: %s", timeRange),
			fmt.Sprintf("Los rangos válidos son: %s", joinRanges()),
		)
	}

	key := futuresCacheKeyPrefix + string(timeRange)

	if cached, err := cache.GetTyped[models.FuturesHistory](ctx, uc.cache, key); err == nil {
		uc.logger.Debug("cache hit", xlogger.String("key", key))
		uc.metrics.RecordCacheRequest(key, "hit")
		return cached, nil
	}

	uc.logger.Debug("cache miss", xlogger.String("key", key))
	uc.metrics.RecordCacheRequest(key, "miss")

	start := time.Now()

	history, err := uc.source.GetFuturesData(ctx, timeRange)
	if err != nil {
		return nil, uc.fail(err, time.Since(start))
	}

	if len(history.Data) < timeRange.MinDataPoints() {
		uc.metrics.RecordScrape("ice", "insufficient")
		return nil, apperrors.NewValidationError(
			"Datos insuficientes para el análisis",
			fmt.Sprintf("Se requieren al menos %d puntos para el rango %s, se obtuvieron %d",
				timeRange.MinDataPoints(), timeRange, len(history.Data)),
		)
	}

	uc.warnIfStale(history)

	enriched := uc.enrich(history, timeRange)

	if err := uc.cache.Set(ctx, key, enriched, uc.cacheTTL); err != nil {
		uc.logger.Warn("cache set failed", xlogger.Error(err))
	}

	duration := time.Since(start)
	uc.logger.Info("futures data scraped",
		xlogger.String("range", string(timeRange)),
		xlogger.Int("points", len(enriched.Data)),
		xlogger.Duration("duration", duration),
	)
	uc.metrics.RecordScrape("ice", "success")
	uc.metrics.RecordLatency("live_statistics", duration.Seconds())
	if enriched.Statistics != nil {
		uc.metrics.RecordLastIndicator("ice_avg_price", enriched.Statistics.AvgPrice)
	}

	return enriched, nil
}

// enrich returns a new aggregate with the time range stamped, statistics
// filled in when the source did not compute them, and quality always
// reassessed. The input is not mutated.
func (uc *LiveStatisticsUseCase) enrich(history *models.FuturesHistory, timeRange models.TimeRange) *models.FuturesHistory {
	out := *history
	out.TimeRange = timeRange
	out.DataPoints = len(out.Data)
	out.Source.ScrapeTime = time.Now().UTC().Format(time.RFC3339)
	if out.Statistics == nil {
		out.Statistics = analytics.Summarize(out.Data)
	}
	out.DataQuality = analytics.AssessQuality(out.Data)
	return &out
}

func (uc *LiveStatisticsUseCase) warnIfStale(history *models.FuturesHistory) {
	if len(history.Data) == 0 {
		return
	}
	newest := history.Data[len(history.Data)-1]
	age := time.Since(time.UnixMilli(newest.Timestamp))
	if age > stalenessThreshold {
		uc.logger.Warn("futures data is stale",
			xlogger.String("newest_date", newest.Date),
			xlogger.Duration("age", age),
		)
	}
}

func (uc *LiveStatisticsUseCase) fail(err error, duration time.Duration) error {
	uc.logger.Error("futures scraping failed",
		xlogger.Duration("duration", duration),
		xlogger.Error(err),
	)
	uc.metrics.RecordScrape("ice", "failure")

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewScrapingError("Error al obtener estadísticas en vivo de ICE", err.Error()).WithError(err)
}

func isValidRange(r models.TimeRange) bool {
	for _, valid := range models.ValidTimeRanges() {
		if r == valid {
			return true
		}
	}
	return false
}

func joinRanges() string {
	ranges := models.ValidTimeRanges()
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
