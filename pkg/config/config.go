package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"FxScore/pkg/cache"
	pkgch "FxScore/pkg/clickhouse"
	xhttp "FxScore/pkg/http"
	applogger "FxScore/pkg/logger"
	"FxScore/pkg/queue"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "FXSCORE_"

type Config struct {
	Environment string             `yaml:"environment" default:"development" validate:"oneof=development test staging production"`
	Server      xhttp.ServerConfig `yaml:"server"`
	Logging     LoggingConfig      `yaml:"logging"`
	Cache       cache.Config       `yaml:"cache"`
	Queue       QueueConfig        `yaml:"queue"`
	Kafka       KafkaConfig        `yaml:"kafka"`
	ClickHouse  ClickHouseConfig   `yaml:"clickhouse"`
	Scoring     ScoringConfig      `yaml:"scoring"`
	WebSocket   WebSocketConfig    `yaml:"websocket"`
	RateLimit   RateLimitConfig    `yaml:"rate_limit"`
}

type LoggingConfig struct {
	applogger.Config `yaml:",inline"`
	Collector        CollectorConfig `yaml:"collector"`
}

// CollectorConfig ships aggregated error logs to a producer-only Redis queue
// kept apart from the job queue.
type CollectorConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval" default:"30s"`
	Threshold int           `yaml:"threshold" default:"100" validate:"gte=1"`
	Topic     string        `yaml:"topic" default:"logs.errors"`
	KeyPrefix string        `yaml:"key_prefix" default:"fxscore:logs"`
}

type QueueConfig struct {
	Enabled           bool   `yaml:"enabled"`
	KeyPrefix         string `yaml:"key_prefix" default:"fxscore:queue"`
	queue.QueueConfig `yaml:",inline"`
}

type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers" validate:"required_if=Enabled true"`
	ResultsTopic string   `yaml:"results_topic" default:"fxscore.results"`
	InputsTopic  string   `yaml:"inputs_topic" default:"fxscore.inputs"`
	Compression  string   `yaml:"compression" default:"snappy" validate:"oneof=gzip snappy lz4 zstd"`
	RequiredAcks int      `yaml:"required_acks" default:"-1" validate:"oneof=-1 0 1"`
	Producer     struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"50ms"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"producer"`
	Consumer struct {
		Enabled    bool          `yaml:"enabled" default:"true"`
		GroupID    string        `yaml:"group_id" default:"fxscore"`
		Workers    int           `yaml:"workers" default:"2" validate:"gte=1"`
		BufferSize int           `yaml:"buffer_size" default:"64" validate:"gte=1"`
		RetryMax   int           `yaml:"retry_max" default:"3" validate:"gte=0"`
		BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
		BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
		DLQTopic   string        `yaml:"dlq_topic" default:"fxscore.inputs.dlq"`
	} `yaml:"consumer"`
}

type ClickHouseConfig struct {
	Enabled            bool `yaml:"enabled"`
	pkgch.ClientConfig `yaml:",inline"`
}

type ScoringConfig struct {
	Workers      int           `yaml:"workers" default:"4" validate:"gte=1,lte=64"`
	TopSignals   int           `yaml:"top_signals" default:"5" validate:"gte=1"`
	SeedDefaults bool          `yaml:"seed_defaults" default:"true"`
	SinkTimeout  time.Duration `yaml:"sink_timeout" default:"5s"`
}

type WebSocketConfig struct {
	Enabled    bool          `yaml:"enabled" default:"true"`
	Path       string        `yaml:"path" default:"/ws/results" validate:"startswith=/"`
	WriteWait  time.Duration `yaml:"write_wait" default:"10s"`
	PongWait   time.Duration `yaml:"pong_wait" default:"60s"`
	SendBuffer int           `yaml:"send_buffer" default:"16" validate:"gte=1"`
}

// RateLimitConfig is a per-IP token bucket on write endpoints.
type RateLimitConfig struct {
	Enabled         bool    `yaml:"enabled" default:"true"`
	Capacity        float64 `yaml:"capacity" default:"20" validate:"gt=0"`
	RefillPerSecond float64 `yaml:"refill_per_second" default:"5" validate:"gt=0"`
}

// Default returns a config with only tag defaults applied.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load applies defaults, overlays the YAML file, then validates.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv is Load with FXSCORE_* environment overrides applied before validation.
// An empty path skips the file.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			parts := strings.Split(v, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			*dst = parts
		}
	}

	str("ENV", &c.Environment)
	num("HTTP_PORT", &c.Server.Port)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("CACHE_BACKEND", &c.Cache.Backend)
	str("REDIS_HOST", &c.Cache.Redis.Host)
	num("REDIS_PORT", &c.Cache.Redis.Port)
	str("REDIS_PASSWORD", &c.Cache.Redis.Password)
	flag("QUEUE_ENABLED", &c.Queue.Enabled)
	flag("KAFKA_ENABLED", &c.Kafka.Enabled)
	list("KAFKA_BROKERS", &c.Kafka.Brokers)
	str("KAFKA_RESULTS_TOPIC", &c.Kafka.ResultsTopic)
	str("KAFKA_INPUTS_TOPIC", &c.Kafka.InputsTopic)
	flag("CLICKHOUSE_ENABLED", &c.ClickHouse.Enabled)
	str("CLICKHOUSE_HOST", &c.ClickHouse.Host)
	num("CLICKHOUSE_PORT", &c.ClickHouse.Port)
	str("CLICKHOUSE_PASSWORD", &c.ClickHouse.Password)
	num("SCORING_WORKERS", &c.Scoring.Workers)

	return errors.Join(errs...)
}

var validate = validator.New()

// Validate checks tag rules plus the cross-section ones tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Logging.Collector.Enabled && !c.Queue.Enabled {
		return errors.New("logging.collector requires queue.enabled")
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis client.
func (c *Config) UsesRedis() bool {
	return c.Cache.Backend != "memory" || c.Queue.Enabled
}
