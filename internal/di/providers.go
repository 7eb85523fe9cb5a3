package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"FundPull/internal/domain/repository"
	dservice "FundPull/internal/domain/service"
	"FundPull/internal/handler/api"
	internalrepo "FundPull/internal/repository"
	"FundPull/internal/service/feeds"
	"FundPull/internal/service/marketdata"
	"FundPull/internal/service/ratelimit"
	"FundPull/internal/services/scoring"
	"FundPull/internal/usecase"
	"FundPull/pkg/cache"
	pkgch "FundPull/pkg/clickhouse"
	"FundPull/pkg/config"
	xhttp "FundPull/pkg/http"
	pkgkafka "FundPull/pkg/kafka"
	applogger "FundPull/pkg/logger"
	"FundPull/pkg/metrics"
	"FundPull/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS fundpull",
		`CREATE TABLE IF NOT EXISTS fundpull.forex_events (
            event_id String,
            country LowCardinality(String),
            currency LowCardinality(String),
            title String,
            impact LowCardinality(String),
            actual String,
            forecast String,
            previous String,
            event_date Date,
            event_time String,
            score Float64,
            processed_at DateTime
        ) ENGINE=ReplacingMergeTree(processed_at) ORDER BY event_id`,
		`CREATE TABLE IF NOT EXISTS fundpull.currency_scores (
            window_start DateTime,
            window_end DateTime,
            currency LowCardinality(String),
            data_score Float64,
            cb_tone_score Float64,
            commodity_score Float64,
            market_score Float64,
            rate_diff_score Float64,
            total_score Float64,
            notes String,
            created_at DateTime64(3)
        ) ENGINE=MergeTree ORDER BY (currency, window_start)`,
		`CREATE TABLE IF NOT EXISTS fundpull.fundamental_bias (
            pair String,
            base_currency LowCardinality(String),
            quote_currency LowCardinality(String),
            base_score Float64,
            quote_score Float64,
            total_bias Float64,
            bias_text LowCardinality(String),
            summary String,
            confidence Int32,
            updated_at DateTime
        ) ENGINE=ReplacingMergeTree(updated_at) ORDER BY pair`,
		`CREATE TABLE IF NOT EXISTS fundpull.index_bias (
            instrument String,
            currency LowCardinality(String),
            score Float64,
            bias_text LowCardinality(String),
            summary String,
            confidence Int32,
            updated_at DateTime
        ) ENGINE=ReplacingMergeTree(updated_at) ORDER BY instrument`,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache builds the market-data cache backend from config.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Type {
	case "redis", "layered":
		host, port, err := splitRedisAddr(cfg.Cache.Redis.Addr)
		if err != nil {
			return nil, err
		}
		redisCache, err := cache.NewRedisCache(
			cache.WithRedisHost(host),
			cache.WithRedisPort(port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cfg.Cache.Type == "layered" {
			return cache.NewLayeredCache(redisCache), nil
		}
		return redisCache, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

func splitRedisAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("redis addr %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("redis port %q: %w", portStr, err)
	}
	return host, port, nil
}

// ProvideEventStore creates the ClickHouse event store.
func ProvideEventStore(chClient *pkgch.Client, log *applogger.Logger) repository.EventStore {
	store := internalrepo.NewCHEventStore(chClient)
	store.SetLogger(log)
	return store
}

// ProvideBiasStore creates the ClickHouse bias store.
func ProvideBiasStore(chClient *pkgch.Client, log *applogger.Logger) repository.BiasStore {
	store := internalrepo.NewCHBiasStore(chClient)
	store.SetLogger(log)
	return store
}

// ProvideBiasPublisher creates the Kafka publisher, or nil when Kafka is off.
func ProvideBiasPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideTables returns the scoring lookup tables.
func ProvideTables() *scoring.Tables {
	return scoring.DefaultTables()
}

// ProvideCalendarIngest wires the feed chain into the ingest use case.
func ProvideCalendarIngest(
	cfg *config.Config,
	store repository.EventStore,
	m repository.Metrics,
	tables *scoring.Tables,
	log *applogger.Logger,
) *usecase.CalendarIngest {
	timeout := cfg.Calendar.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client := xhttp.NewClient(xhttp.WithTimeout(timeout))

	var primary, fallback dservice.CalendarFeed
	if cfg.Calendar.ForexFactoryURL != "" {
		primary = feeds.NewForexFactoryFeed(cfg.Calendar.ForexFactoryURL, client, log)
	}
	if cfg.Calendar.RapidAPIURL != "" {
		fallback = feeds.NewRapidAPIFeed(cfg.Calendar.RapidAPIURL, cfg.Calendar.RapidAPIHost, cfg.Calendar.RapidAPIKey, client, log)
	}
	if primary == nil {
		primary, fallback = fallback, nil
	}
	return usecase.NewCalendarIngest(primary, fallback, store, m, tables, log)
}

// ProvideMarketData wires the hybrid market-data service.
func ProvideMarketData(cfg *config.Config, c cache.Service, log *applogger.Logger) dservice.MarketData {
	timeout := cfg.MarketData.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	client := xhttp.NewClient(xhttp.WithTimeout(timeout))

	var primary, secondary dservice.MarketSource
	if cfg.MarketData.PolygonAPIKey != "" {
		primary = marketdata.NewPolygonSource(cfg.MarketData.PolygonBaseURL, cfg.MarketData.PolygonAPIKey, client, log)
	}
	secondary = marketdata.NewYahooSource(cfg.MarketData.YahooBaseURL, client, log)
	if primary == nil {
		primary, secondary = secondary, nil
	}

	ttl := cfg.Cache.MarketTTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	return marketdata.NewHybridService(primary, secondary, c, ratelimit.New(), log, ttl)
}

// ProvideBiasRunner wires the full engine use case.
func ProvideBiasRunner(
	cfg *config.Config,
	ingest *usecase.CalendarIngest,
	market dservice.MarketData,
	events repository.EventStore,
	bias repository.BiasStore,
	publisher repository.Publisher,
	m repository.Metrics,
	tables *scoring.Tables,
	log *applogger.Logger,
) *usecase.BiasRunner {
	return usecase.NewBiasRunner(ingest, market, events, bias, publisher, m, tables, usecase.BiasRunnerConfig{
		Alpha:         cfg.Engine.Alpha,
		HalfLifeHours: cfg.Engine.HalfLifeHours,
		ReadWindow:    time.Duration(cfg.Engine.ReadWindowDays) * 24 * time.Hour,
	}, log)
}

// ProvideHTTPHandler creates the cron API handler.
func ProvideHTTPHandler(
	log *applogger.Logger,
	runner *usecase.BiasRunner,
	ingest *usecase.CalendarIngest,
	events repository.EventStore,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewCronHandler(log, runner, ingest, events, cfg.Server.CronSecret)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	runner *usecase.BiasRunner,
	ingest *usecase.CalendarIngest,
	publisher repository.Publisher,
	chClient *pkgch.Client,
	c cache.Service,
	handler xhttp.Handler,
) *server.App {
	// Error logs aggregate onto the bias producer when Kafka is wired.
	if lp, ok := publisher.(applogger.Publisher); ok {
		log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "fundpull-logs",
			Publisher:      lp,
		})
	}
	return server.New(cfg, log, runner, ingest, publisher, chClient, c, handler)
}
