package di

import (
	"context"
	"fmt"
	"time"

	"FinSight/internal/catalog"
	"FinSight/internal/domain/repository"
	"FinSight/internal/handler/api"
	internalrepo "FinSight/internal/repository"
	"FinSight/internal/resolver"
	"FinSight/internal/service/advisory"
	icache "FinSight/internal/service/cache"
	"FinSight/internal/service/twelvedata"
	"FinSight/internal/session"
	"FinSight/internal/usecase"
	pkgcache "FinSight/pkg/cache"
	pkgch "FinSight/pkg/clickhouse"
	"FinSight/pkg/config"
	pkgkafka "FinSight/pkg/kafka"
	"FinSight/pkg/logger"
	"FinSight/pkg/metrics"
	"FinSight/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return logger.New(&logger.Config{
		Level:  "info",
		Format: format,
		Output: "stdout",
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideDataCache creates the time-windowed data cache, with a shared
// memory-plus-Redis L2 when configured. The backing TTL is the shortest
// freshness window: L2 entries outliving their window would otherwise be
// pulled back in as fresh.
func ProvideDataCache(cfg *config.Config) (*icache.Store, error) {
	if !cfg.Cache.Redis.Enabled {
		return icache.NewStore(), nil
	}
	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	layered := pkgcache.NewLayeredCache(redisCache, pkgcache.WithMemoryMaxSize(10000))
	return icache.NewStore(icache.WithBacking(layered, cfg.Freshness.Quote)), nil
}

// ProvideMarketData creates the upstream market-data client.
func ProvideMarketData(cfg *config.Config, l *logger.Logger, m repository.Metrics) repository.MarketData {
	return twelvedata.New(
		cfg.Upstream.APIKey,
		cfg.Upstream.BaseURL,
		l,
		m,
		twelvedata.WithTimeout(cfg.Upstream.Timeout),
		twelvedata.WithRetry(cfg.Upstream.MaxRetries, cfg.Upstream.RetryDelay, cfg.Upstream.NetRetryDelay),
	)
}

// ProvideAdvisory creates the sentiment/intelligence client.
func ProvideAdvisory(cfg *config.Config) repository.Advisory {
	return advisory.New(cfg.Advisory.SentimentURL, cfg.Advisory.IntelligenceURL, cfg.Advisory.Timeout)
}

// ProvideCatalog creates the instrument catalog.
func ProvideCatalog(market repository.MarketData, cache *icache.Store, cfg *config.Config, l *logger.Logger) *catalog.Catalog {
	return catalog.New(market, cache, cfg.Freshness.Catalog, l)
}

// ProvideCatalogRepo exposes the catalog through the domain interface.
func ProvideCatalogRepo(c *catalog.Catalog) repository.Catalog {
	return c
}

// ProvideResolver creates the symbol resolver.
func ProvideResolver(c *catalog.Catalog, cfg *config.Config) *resolver.Resolver {
	return resolver.New(c, cfg.Resolver.DefaultSymbol)
}

// ProvideSessions creates the conversation store.
func ProvideSessions(cfg *config.Config) *session.Store {
	return session.NewStore(cfg.Session.IdleTTL, cfg.Session.MaxHistory, cfg.Session.SweepPeriod)
}

// ProvideEventSink selects the query event sink backend from config.
func ProvideEventSink(cfg *config.Config) (repository.EventSink, error) {
	switch cfg.Sink.Type {
	case "kafka":
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Sink.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Sink.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Sink.Kafka.RequiredAcks),
			pkgkafka.WithMaxAttempts(cfg.Sink.Kafka.MaxAttempts),
			pkgkafka.WithBatchTimeout(cfg.Sink.Kafka.Linger),
			pkgkafka.WithTimeouts(cfg.Sink.Kafka.WriteTimeout, cfg.Sink.Kafka.ReadTimeout),
			pkgkafka.WithAsync(cfg.Sink.Kafka.Async),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return internalrepo.NewKafkaSink(producer, cfg.Sink.Kafka.Topic)
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.Sink.ClickHouse.Host),
			pkgch.WithPort(cfg.Sink.ClickHouse.Port),
			pkgch.WithDatabase(cfg.Sink.ClickHouse.Database),
			pkgch.WithCredentials(cfg.Sink.ClickHouse.User, cfg.Sink.ClickHouse.Password),
			pkgch.WithHTTP(cfg.Sink.ClickHouse.UseHTTP),
			pkgch.WithAsyncInsert(cfg.Sink.ClickHouse.AsyncInsert, cfg.Sink.ClickHouse.WaitForAsync),
			pkgch.WithTimeouts(cfg.Sink.ClickHouse.DialTimeout, cfg.Sink.ClickHouse.ReadTimeout, cfg.Sink.ClickHouse.WriteTimeout),
			pkgch.WithMaxExecutionTime(cfg.Sink.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sink, err := internalrepo.NewClickHouseSink(ctx, client, cfg.Sink.ClickHouse.Database, cfg.Sink.ClickHouse.Table)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return sink, nil
	default:
		return internalrepo.NewNoopSink(), nil
	}
}

// ProvideAdvisorUsecase wires the aggregation pipeline.
func ProvideAdvisorUsecase(
	res *resolver.Resolver,
	cat repository.Catalog,
	market repository.MarketData,
	adv repository.Advisory,
	cache *icache.Store,
	sessions *session.Store,
	sink repository.EventSink,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.Advisor {
	return usecase.NewAdvisor(res, cat, market, adv, cache, sessions, sink, m, l, usecase.Limits{
		ByteBudget:           cfg.Aggregate.ByteBudget,
		SeriesPoints:         cfg.Aggregate.SeriesPoints,
		IntelCharBudget:      cfg.Aggregate.IntelCharBudget,
		ComprehensiveTimeout: cfg.Aggregate.ComprehensiveTimeout,
		BudgetThreshold:      cfg.Upstream.BudgetThreshold,
		ThrottleDelay:        cfg.Upstream.ThrottleDelay,
		QuoteWindow:          cfg.Freshness.Quote,
		SeriesWindow:         cfg.Freshness.Series,
		IndicatorWindow:      cfg.Freshness.Indicator,
		SentimentWindow:      cfg.Freshness.Sentiment,
		IntelligenceWindow:   cfg.Freshness.Intelligence,
	})
}

// ProvideAdvisorHandler creates the advisor HTTP handler.
func ProvideAdvisorHandler(advisor *usecase.Advisor, l *logger.Logger) *api.AdvisorHandler {
	return api.NewAdvisorHandler(advisor, l)
}

// ProvideStreamHandler creates the websocket quote stream handler.
func ProvideStreamHandler(advisor *usecase.Advisor, l *logger.Logger, cfg *config.Config) *api.StreamHandler {
	return api.NewStreamHandler(advisor, l, cfg.Stream.RefreshInterval)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	advisorHandler *api.AdvisorHandler,
	streamHandler *api.StreamHandler,
	sessions *session.Store,
	sink repository.EventSink,
) *server.App {
	return server.New(cfg, l, advisorHandler, streamHandler, sessions, sink)
}
