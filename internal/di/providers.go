package di

import (
	"context"
	"fmt"

	domrepo "FxScore/internal/domain/repository"
	"FxScore/internal/handler/api"
	"FxScore/internal/handler/ws"
	internalrepo "FxScore/internal/repository"
	svcmetrics "FxScore/internal/service/metrics"
	"FxScore/internal/service/ratelimit"
	"FxScore/internal/services/scoring"
	"FxScore/internal/usecase"
	"FxScore/pkg/cache"
	pkgch "FxScore/pkg/clickhouse"
	"FxScore/pkg/config"
	xhttp "FxScore/pkg/http"
	pkgkafka "FxScore/pkg/kafka"
	applogger "FxScore/pkg/logger"
	"FxScore/pkg/metrics"
	"FxScore/pkg/queue"
	"FxScore/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ResultSinks are the workspace's fan-out targets, disabled ones left out.
type ResultSinks []domrepo.ResultSink

// ProvideLogger builds the process logger from the logging section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Logging.Config)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideRedisClient dials Redis when the cache or the queue needs it, nil otherwise.
func ProvideRedisClient(cfg *config.Config) (redis.UniversalClient, error) {
	if !cfg.UsesRedis() {
		return nil, nil
	}
	r := cfg.Cache.Redis
	client, _, err := cache.NewRedisClient(
		cache.WithRedisAddr(r.Host, r.Port),
		cache.WithRedisAuth(r.Password, r.DB),
		cache.WithRedisPool(r.PoolSize, r.MinIdleConns, r.PoolTimeout),
		cache.WithRedisPrefix(r.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis client: %w", err)
	}
	return client, nil
}

// ProvideCache selects the workspace cache backend.
func ProvideCache(cfg *config.Config, rdb redis.UniversalClient) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("cache backend redis without a redis client")
		}
		return cache.NewRedisCache(rdb, cfg.Cache.Redis.Prefix), nil
	case "layered":
		if rdb == nil {
			return nil, fmt.Errorf("cache backend layered without a redis client")
		}
		return cache.NewLayeredCache(cache.NewRedisCache(rdb, cfg.Cache.Redis.Prefix), cfg.Cache.MemoryMaxSize, cfg.Cache.L1TTL), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

func ProvideSnapshotStore(c cache.Service) *internalrepo.CacheSnapshotStore {
	return internalrepo.NewCacheSnapshotStore(c, 0)
}

func ProvideEngine() *scoring.Engine {
	return scoring.NewEngine()
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

func ProvideRecalculator(cfg *config.Config, engine *scoring.Engine, m domrepo.Metrics, l *applogger.Logger) *usecase.Recalculator {
	return usecase.NewRecalculator(engine, engine, engine, m,
		usecase.WithWorkers(cfg.Scoring.Workers),
		usecase.WithRecalculatorLogger(l),
	)
}

// ProvideClickHouseClient connects to ClickHouse when history is enabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(pkgch.WithConfig(cfg.ClickHouse.ClientConfig))
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

func ProvideHistory(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) *internalrepo.ClickHouseHistory {
	if ch == nil {
		return nil
	}
	return internalrepo.NewClickHouseHistory(ch, cfg.ClickHouse.Database, l)
}

// ProvideKafkaProducer creates a Kafka producer when Kafka is enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithDefaultTopic(cfg.Kafka.ResultsTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

func ProvideResultPublisher(cfg *config.Config, p *pkgkafka.Producer) *internalrepo.KafkaResultPublisher {
	if p == nil {
		return nil
	}
	return internalrepo.NewKafkaResultPublisher(p, cfg.Kafka.ResultsTopic)
}

// ProvideHub builds the websocket hub. New clients are seeded from the stored result.
func ProvideHub(cfg *config.Config, store *internalrepo.CacheSnapshotStore, l *applogger.Logger) *ws.Hub {
	if !cfg.WebSocket.Enabled {
		return nil
	}
	return ws.NewHub(l, ws.Config{
		Path:         cfg.WebSocket.Path,
		WriteWait:    cfg.WebSocket.WriteWait,
		PongWait:     cfg.WebSocket.PongWait,
		SendBuffer:   cfg.WebSocket.SendBuffer,
		AllowOrigins: cfg.Server.AllowOrigins,
	}, ws.WithSeed(store.LoadResult))
}

// ProvideResultSinks collects the enabled sinks, keeping nil pointers out of the interface slice.
func ProvideResultSinks(hub *ws.Hub, pub *internalrepo.KafkaResultPublisher, history *internalrepo.ClickHouseHistory) ResultSinks {
	var sinks ResultSinks
	if hub != nil {
		sinks = append(sinks, hub)
	}
	if pub != nil {
		sinks = append(sinks, pub)
	}
	if history != nil {
		sinks = append(sinks, history)
	}
	return sinks
}

func ProvideWorkspace(cfg *config.Config, store *internalrepo.CacheSnapshotStore, calc *usecase.Recalculator, m domrepo.Metrics, sinks ResultSinks, l *applogger.Logger) *usecase.Workspace {
	return usecase.NewWorkspace(store, calc, m,
		usecase.WithSinks(sinks...),
		usecase.WithSeedDefaults(cfg.Scoring.SeedDefaults),
		usecase.WithSinkTimeout(cfg.Scoring.SinkTimeout),
		usecase.WithTopSignals(cfg.Scoring.TopSignals),
		usecase.WithWorkspaceLogger(l),
	)
}

// ProvideQueue creates the Redis job queue with the recalculation job registered.
func ProvideQueue(cfg *config.Config, rdb redis.UniversalClient, workspace *usecase.Workspace, l *applogger.Logger) *queue.RedisQueue {
	if !cfg.Queue.Enabled || rdb == nil {
		return nil
	}
	qc := cfg.Queue.QueueConfig
	q := queue.NewRedisQueue(l, &qc, rdb, queue.ModeProducerConsumer, queue.WithKeyPrefix(cfg.Queue.KeyPrefix))
	q.RegisterJobs(usecase.NewRecalculateJob(workspace))
	return q
}

// LogQueue is the producer-only queue behind the log collector.
type LogQueue struct{ *queue.RedisQueue }

// ProvideLogQueue creates the collector's queue under its own key prefix. The App starts it.
func ProvideLogQueue(cfg *config.Config, rdb redis.UniversalClient, l *applogger.Logger) LogQueue {
	if !cfg.Logging.Collector.Enabled || rdb == nil {
		return LogQueue{}
	}
	return LogQueue{queue.NewRedisQueue(l, &queue.QueueConfig{}, rdb, queue.ModeProducerOnly,
		queue.WithKeyPrefix(cfg.Logging.Collector.KeyPrefix))}
}

// ProvideKafkaConsumer creates the inputs consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	c := cfg.Kafka.Consumer
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(c.GroupID),
		pkgkafka.WithConsumerWorkers(c.Workers),
		pkgkafka.WithConsumerBufferSize(c.BufferSize),
		pkgkafka.WithConsumerRetry(c.RetryMax, c.BackoffMin, c.BackoffMax),
		pkgkafka.WithConsumerDLQ(c.DLQTopic),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewHookChain(pkgkafka.TraceHook(), pkgkafka.LoggingHook(l)))
	return consumer, nil
}

func ProvideInputsHandler(cfg *config.Config, workspace *usecase.Workspace, m domrepo.Metrics) *usecase.KafkaInputsHandler {
	return usecase.NewKafkaInputsHandler(cfg.Kafka.InputsTopic, workspace, m)
}

func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSecond)
}

func ProvideScoringHandler(l *applogger.Logger, engine *scoring.Engine, calc *usecase.Recalculator) *api.ScoringHandler {
	return api.NewScoringHandler(l, engine, engine, engine, calc)
}

func ProvideWorkspaceHandler(l *applogger.Logger, workspace *usecase.Workspace, q *queue.RedisQueue) *api.WorkspaceHandler {
	var qs queue.QueueService
	if q != nil {
		qs = q
	}
	return api.NewWorkspaceHandler(l, workspace, qs)
}

func ProvideHistoryHandler(l *applogger.Logger, history *internalrepo.ClickHouseHistory) *api.HistoryHandler {
	var h domrepo.ScoreHistory
	if history != nil {
		h = history
	}
	return api.NewHistoryHandler(l, h)
}

// ProvideHealthHandler probes every enabled backend.
func ProvideHealthHandler(rdb redis.UniversalClient, ch *pkgch.Client, workspace *usecase.Workspace) *api.HealthHandler {
	checks := []api.HealthCheck{{
		Name: "workspace",
		Check: func(ctx context.Context) error {
			_, err := workspace.Snapshot(ctx)
			return err
		},
	}}
	if rdb != nil {
		checks = append(checks, api.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }})
	}
	if ch != nil {
		checks = append(checks, api.HealthCheck{Name: "clickhouse", Check: ch.Health})
	}
	return api.NewHealthHandler(checks...)
}

// ProvideHTTPServer registers every handler on one Echo server. Write routes go
// through the per-IP limiter when it is enabled.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	limiter *ratelimit.Limiter,
	scoringHandler *api.ScoringHandler,
	workspaceHandler *api.WorkspaceHandler,
	historyHandler *api.HistoryHandler,
	healthHandler *api.HealthHandler,
	hub *ws.Hub,
) *xhttp.Server {
	handlers := []xhttp.Handler{scoringHandler, workspaceHandler, historyHandler, healthHandler}
	if hub != nil {
		handlers = append(handlers, hub)
	}
	opts := []xhttp.ServerOption{xhttp.WithConfig(cfg.Server)}
	if limiter != nil {
		svcmetrics.Register()
		opts = append(opts, xhttp.WithMiddleware(ratelimit.Middleware(limiter, func(string) {
			svcmetrics.RateLimited.Inc()
		})))
	}
	return xhttp.NewServer(l, handlers, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	workspace *usecase.Workspace,
	hub *ws.Hub,
	q *queue.RedisQueue,
	logs LogQueue,
	consumer *pkgkafka.Consumer,
	inputs *usecase.KafkaInputsHandler,
	producer *pkgkafka.Producer,
	ch *pkgch.Client,
	history *internalrepo.ClickHouseHistory,
	limiter *ratelimit.Limiter,
	c cache.Service,
	rdb redis.UniversalClient,
) *server.App {
	return server.New(cfg, l, server.Components{
		HTTP:       httpServer,
		Workspace:  workspace,
		Hub:        hub,
		Queue:      q,
		Logs:       logs.RedisQueue,
		Consumer:   consumer,
		Inputs:     inputs,
		Producer:   producer,
		ClickHouse: ch,
		History:    history,
		Limiter:    limiter,
		Cache:      c,
		Redis:      rdb,
	})
}
