package di

import (
	"fmt"

	"CafePull/internal/domain/repository"
	"CafePull/internal/handler/api"
	"CafePull/internal/service/federacion"
	"CafePull/internal/service/ice"
	"CafePull/internal/usecase"
	"CafePull/pkg/cache"
	"CafePull/pkg/config"
	xlogger "CafePull/pkg/logger"
	"CafePull/pkg/metrics"
	"CafePull/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	l, err := xlogger.New(&xlogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideCache creates the cache backend selected by config.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryCache(
			cache.WithMemoryDefaultTTL(cfg.Cache.DefaultTTL),
		), nil
	case "redis":
		return provideRedis(cfg)
	case "layered":
		redisCache, err := provideRedis(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(redisCache,
			cache.WithMemoryDefaultTTL(cfg.Cache.DefaultTTL),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

func provideRedis(cfg *config.Config) (*cache.RedisCache, error) {
	opts := []cache.RedisOption{
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	}
	if cfg.Cache.Redis.Password != "" {
		opts = append(opts, cache.WithRedisPassword(cfg.Cache.Redis.Password))
	}
	if cfg.Cache.Redis.Prefix != "" {
		opts = append(opts, cache.WithRedisPrefix(cfg.Cache.Redis.Prefix))
	}

	redisCache, err := cache.NewRedisCache(opts...)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return redisCache, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCoffeePriceSource creates the federacion scraping client.
func ProvideCoffeePriceSource(cfg *config.Config, logger *xlogger.Logger) repository.CoffeePriceSource {
	return federacion.New(
		cfg.Federacion.BaseURL,
		cfg.Federacion.Timeout,
		cfg.Federacion.MaxRetries,
		cfg.Federacion.RetryDelay,
		logger,
	)
}

// ProvideFuturesSource creates the ICE futures scraping client.
func ProvideFuturesSource(cfg *config.Config, logger *xlogger.Logger) repository.FuturesSource {
	return ice.New(
		cfg.Ice.BaseURL,
		cfg.Ice.Timeout,
		cfg.Ice.MaxRetries,
		logger,
	)
}

// ProvideCoffeePriceUseCase creates the coffee price orchestrator.
func ProvideCoffeePriceUseCase(
	cfg *config.Config,
	source repository.CoffeePriceSource,
	cacheSvc cache.Service,
	m repository.Metrics,
	logger *xlogger.Logger,
) *usecase.CoffeePriceUseCase {
	return usecase.NewCoffeePriceUseCase(source, cacheSvc, m, logger, cfg.Cache.PriceTTL, cfg.Federacion.BaseURL)
}

// ProvideLiveStatisticsUseCase creates the futures orchestrator.
func ProvideLiveStatisticsUseCase(
	cfg *config.Config,
	source repository.FuturesSource,
	cacheSvc cache.Service,
	m repository.Metrics,
	logger *xlogger.Logger,
) *usecase.LiveStatisticsUseCase {
	return usecase.NewLiveStatisticsUseCase(source, cacheSvc, m, logger, cfg.Cache.FuturesTTL)
}

// ProvideHandler creates the API handler exposing the indicator routes.
func ProvideHandler(
	coffeePrice *usecase.CoffeePriceUseCase,
	liveStats *usecase.LiveStatisticsUseCase,
	logger *xlogger.Logger,
) *api.IndicatorHandler {
	return api.NewIndicatorHandler(coffeePrice, liveStats, logger)
}

// InitializeApp builds the full dependency graph and returns the
// application, ready to run.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	cacheSvc, err := ProvideCache(cfg)
	if err != nil {
		return nil, err
	}

	m := ProvideMetrics()
	coffeeSource := ProvideCoffeePriceSource(cfg, logger)
	futuresSource := ProvideFuturesSource(cfg, logger)
	coffeePrice := ProvideCoffeePriceUseCase(cfg, coffeeSource, cacheSvc, m, logger)
	liveStats := ProvideLiveStatisticsUseCase(cfg, futuresSource, cacheSvc, m, logger)
	handler := ProvideHandler(coffeePrice, liveStats, logger)

	return server.New(cfg, logger, cacheSvc, handler), nil
}
