package usecase

import (
	"context"
	"errors"
	"time"

	"CafePull/internal/domain/apperrors"
	"CafePull/internal/domain/models"
	drepo "CafePull/internal/domain/repository"
	"CafePull/internal/service/normalize"
	"CafePull/pkg/cache"
	xlogger "CafePull/pkg/logger"
)

const coffeePriceCacheKey = "coffee_price_today"

// CoffeePriceUseCase orchestrates the coffee price read path: cache-aside
// around scrape + normalize.
type CoffeePriceUseCase struct {
	source    drepo.CoffeePriceSource
	cache     cache.Service
	metrics   drepo.Metrics
	logger    *xlogger.Logger
	cacheTTL  time.Duration
	sourceURL string
}

func NewCoffeePriceUseCase(
	source drepo.CoffeePriceSource,
	cacheSvc cache.Service,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	cacheTTL time.Duration,
	sourceURL string,
) *CoffeePriceUseCase {
	return &CoffeePriceUseCase{
		source:    source,
		cache:     cacheSvc,
		metrics:   metrics,
		logger:    logger,
		cacheTTL:  cacheTTL,
		sourceURL: sourceURL,
	}
}

// Execute returns today's normalized coffee price indicators. On cache hit
// the source is never invoked.
func (uc *CoffeePriceUseCase) Execute(ctx context.Context) (*models.CoffeePriceIndicator, error) {
	if cached, err := cache.GetTyped[models.CoffeePriceIndicator](ctx, uc.cache, coffeePriceCacheKey); err == nil {
		uc.logger.Debug("cache hit", xlogger.String("key", coffeePriceCacheKey))
		uc.metrics.RecordCacheRequest(coffeePriceCacheKey, "hit")
		return cached, nil
	}

	uc.logger.Debug("cache miss", xlogger.String("key", coffeePriceCacheKey))
	uc.metrics.RecordCacheRequest(coffeePriceCacheKey, "miss")

	start := time.Now()

	raw, err := uc.source.ScrapeCoffeePrice(ctx)
	if err != nil {
		return nil, uc.fail(err, time.Since(start))
	}

	indicator, err := normalize.CoffeePrice(raw, uc.sourceURL)
	if err != nil {
		return nil, uc.fail(err, time.Since(start))
	}

	if err := uc.cache.Set(ctx, coffeePriceCacheKey, indicator, uc.cacheTTL); err != nil {
		// A broken cache degrades hit rate, not correctness.
		uc.logger.Warn("cache set failed", xlogger.Error(err))
	}

	duration := time.Since(start)
	uc.logger.Info("coffee price scraped",
		xlogger.Duration("duration", duration),
		xlogger.Float64("precio_interno", indicator.PrecioInternoReferencia.Valor),
	)
	uc.metrics.RecordScrape("federacion", "success")
	uc.metrics.RecordLatency("coffee_price", duration.Seconds())
	uc.metrics.RecordLastIndicator("precio_interno_referencia", indicator.PrecioInternoReferencia.Valor)
	uc.metrics.RecordLastIndicator("bolsa_ny", indicator.BolsaNY.Valor)
	uc.metrics.RecordLastIndicator("tasa_cambio", indicator.TasaCambio.Valor)

	return indicator, nil
}

// fail logs the failure, records metrics and ensures the caller only ever
// sees a typed error.
func (uc *CoffeePriceUseCase) fail(err error, duration time.Duration) error {
	uc.logger.Error("coffee price scraping failed",
		xlogger.Duration("duration", duration),
		xlogger.Error(err),
	)
	uc.metrics.RecordScrape("federacion", "failure")

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewScrapingError("No fue posible obtener el precio del café", err.Error()).WithError(err)
}
