package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"FxScore/internal/handler/ws"
	internalrepo "FxScore/internal/repository"
	"FxScore/internal/service/ratelimit"
	"FxScore/internal/usecase"
	"FxScore/pkg/cache"
	pkgch "FxScore/pkg/clickhouse"
	"FxScore/pkg/config"
	xhttp "FxScore/pkg/http"
	pkgkafka "FxScore/pkg/kafka"
	applogger "FxScore/pkg/logger"
	"FxScore/pkg/queue"

	"github.com/redis/go-redis/v9"
)

// Components are the wired parts the App starts and stops. Disabled parts are nil.
type Components struct {
	HTTP       *xhttp.Server
	Workspace  *usecase.Workspace
	Hub        *ws.Hub
	Queue      *queue.RedisQueue
	Logs       *queue.RedisQueue
	Consumer   *pkgkafka.Consumer
	Inputs     *usecase.KafkaInputsHandler
	Producer   *pkgkafka.Producer
	ClickHouse *pkgch.Client
	History    *internalrepo.ClickHouseHistory
	Limiter    *ratelimit.Limiter
	Cache      cache.Service
	Redis      redis.UniversalClient
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg *config.Config
	l   *applogger.Logger
	c   Components

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, c Components) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{cfg: cfg, l: l, c: c}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		a.shutdown()
		return err
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// Start brings every component up in dependency order and returns once the HTTP server listens.
func (a *App) Start(ctx context.Context) error {
	bg, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.c.History != nil {
		ictx, icancel := context.WithTimeout(ctx, 10*time.Second)
		err := a.c.History.Init(ictx)
		icancel()
		if err != nil {
			return err
		}
		a.l.Info("clickhouse history ready", applogger.String("database", a.cfg.ClickHouse.Database))
	}

	if a.c.Hub != nil {
		a.goRun(func() { a.c.Hub.Run(bg) })
	}

	if a.c.Logs != nil {
		if err := a.c.Logs.Start(); err != nil {
			return fmt.Errorf("start log queue: %w", err)
		}
		a.l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   a.cfg.Logging.Collector.Interval,
			CountThreshold: a.cfg.Logging.Collector.Threshold,
			Topic:          a.cfg.Logging.Collector.Topic,
			Publisher:      a.c.Logs,
		})
	}

	if a.c.Queue != nil {
		if err := a.c.Queue.Start(); err != nil {
			return fmt.Errorf("start queue: %w", err)
		}
	}

	if a.c.Workspace != nil {
		if err := a.c.Workspace.Init(ctx); err != nil {
			// an empty workspace is valid; it fills in as inputs arrive
			a.l.Warn("initial recalculation skipped", applogger.Error(err))
		}
	}

	if a.c.Consumer != nil && a.c.Inputs != nil {
		a.c.Consumer.RegisterHandler(a.c.Inputs)
		if err := a.c.Consumer.Start(); err != nil {
			return fmt.Errorf("start kafka consumer: %w", err)
		}
		a.l.Info("kafka consumer started", applogger.String("topic", a.c.Inputs.Topic()))
	}

	if a.c.Limiter != nil {
		a.goRun(func() { a.sweepLimiter(bg) })
	}

	return a.c.HTTP.Start()
}

func (a *App) goRun(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}

// sweepLimiter forgets buckets of clients that went quiet.
func (a *App) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.c.Limiter.Sweep(10 * time.Minute); n > 0 {
				a.l.Debug("rate limiter swept", applogger.Int("removed", n))
			}
		}
	}
}

// shutdown stops intake first (HTTP, Kafka, queue), then the hub and the backends.
func (a *App) shutdown() error {
	a.l.Info("shutting down...")
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if a.c.HTTP != nil {
		if err := a.c.HTTP.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.c.Consumer != nil {
		if err := a.c.Consumer.Stop(ctx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.c.Queue != nil {
		if err := a.c.Queue.Stop(ctx); err != nil {
			a.l.Warn("queue stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	// flushes the last batch, so the log queue must still be running
	a.l.RemoveCollector()
	if a.c.Logs != nil {
		if err := a.c.Logs.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	if a.c.Producer != nil {
		if err := a.c.Producer.Close(); err != nil {
			a.l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.c.ClickHouse != nil {
		if err := a.c.ClickHouse.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.c.Cache != nil {
		if err := a.c.Cache.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.c.Redis != nil {
		// already closed when the cache owns the client
		if err := a.c.Redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			a.l.Warn("redis close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return errors.Join(errs...)
}
