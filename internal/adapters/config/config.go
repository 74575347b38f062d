package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"sentiguard/pkg/errors"
)

type Config struct {
	App           AppConfig
	Analysis      AnalysisConfig
	HTTP          HTTPConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"sentiguard"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

// AnalysisConfig points at the external sentiment/fake-news service
type AnalysisConfig struct {
	BaseURL                    string        `envconfig:"ANALYSIS_BASE_URL" default:"http://localhost:8000"`
	Timeout                    time.Duration `envconfig:"ANALYSIS_TIMEOUT" default:"60s"`
	RequestsPerMinute          int           `envconfig:"ANALYSIS_REQUESTS_PER_MINUTE" default:"60"`
	DomainRequestsPerMinute    int           `envconfig:"ANALYSIS_DOMAIN_REQUESTS_PER_MINUTE" default:"20"`
	ShutdownAbortsInflightCall bool          `envconfig:"ANALYSIS_SHUTDOWN_ABORTS_INFLIGHT" default:"true"`
}

// HTTPConfig is the view/health/metrics listener
type HTTPConfig struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
}

// RedisConfig enables the recent-query history when Host is set
type RedisConfig struct {
	Host         string `envconfig:"REDIS_HOST"`
	Port         int    `envconfig:"REDIS_PORT" default:"6379"`
	Password     string `envconfig:"REDIS_PASSWORD"`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	HistoryLimit int    `envconfig:"REDIS_HISTORY_LIMIT" default:"20"`
}

// EffectiveLogLevel is LogLevel, forced to debug when Debug is set
func (c AppConfig) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// KafkaConfig enables analysis event publishing when Brokers is set
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"sentiguard.analysis"`
	Async   bool     `envconfig:"KAFKA_ASYNC" default:"true"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig configures the scheduled news refresh
type WorkerConfig struct {
	NewsRefreshEnabled      bool          `envconfig:"WORKER_NEWS_REFRESH_ENABLED" default:"false"`
	NewsRefreshInterval     time.Duration `envconfig:"WORKER_NEWS_REFRESH_INTERVAL" default:"30m"`
	NewsRefreshCategory     string        `envconfig:"WORKER_NEWS_REFRESH_CATEGORY" default:"Finance"`
	NewsRefreshLanguage     string        `envconfig:"WORKER_NEWS_REFRESH_LANGUAGE" default:"en"`
	NewsRefreshLookbackDays int           `envconfig:"WORKER_NEWS_REFRESH_LOOKBACK_DAYS" default:"7"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values envconfig cannot express
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Analysis.BaseURL) == "" {
		return errors.NewValidationError("ANALYSIS_BASE_URL", "is required", nil)
	}
	if c.Analysis.Timeout <= 0 {
		return errors.NewValidationError("ANALYSIS_TIMEOUT", "must be positive", c.Analysis.Timeout)
	}
	if c.Workers.NewsRefreshEnabled {
		if c.Workers.NewsRefreshInterval <= 0 {
			return errors.NewValidationError("WORKER_NEWS_REFRESH_INTERVAL", "must be positive", c.Workers.NewsRefreshInterval)
		}
		if c.Workers.NewsRefreshLookbackDays < 0 {
			return errors.NewValidationError("WORKER_NEWS_REFRESH_LOOKBACK_DAYS", "must not be negative", c.Workers.NewsRefreshLookbackDays)
		}
	}
	return nil
}
