package bootstrap

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sentiguard/internal/adapters/analysisapi"
	"sentiguard/internal/adapters/config"
	errnoop "sentiguard/internal/adapters/errors/noop"
	"sentiguard/internal/adapters/errors/sentry"
	"sentiguard/internal/adapters/kafka"
	"sentiguard/internal/adapters/ratelimit"
	redisclient "sentiguard/internal/adapters/redis"
	"sentiguard/internal/api"
	"sentiguard/internal/api/health"
	"sentiguard/internal/api/view"
	"sentiguard/internal/domain/analysis"
	"sentiguard/internal/domain/history"
	"sentiguard/internal/events"
	"sentiguard/internal/metrics"
	redisrepo "sentiguard/internal/repository/redis"
	analysisservice "sentiguard/internal/services/analysis"
	"sentiguard/internal/services/fetch"
	"sentiguard/internal/services/request"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger and error tracker
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.EffectiveLogLevel(), cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s %s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)

	metrics.Init()
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure connects to Redis when configured. Redis is
// optional: without it the service runs with history disabled.
func (c *Container) MustInitInfrastructure() {
	if !c.Config.Redis.Enabled() {
		c.Log.Info("Redis not configured, query history disabled")
		return
	}

	c.Log.Infow("Connecting to Redis...", "addr", c.Config.Redis.Addr())
	ctx, cancel := context.WithTimeout(c.Context, 5*time.Second)
	defer cancel()

	client, err := redisclient.NewClient(ctx, c.Config.Redis)
	if err != nil {
		c.Log.Fatalf("failed to connect redis: %v", err)
	}
	c.Redis = client
	c.Log.Info("✓ Redis connected")
}

// ========================================
// Phase 3: External Adapters
// ========================================

// MustInitAdapters creates the analysis client and the optional event pipeline
func (c *Container) MustInitAdapters() {
	domains := make([]string, 0, len(analysis.Domains))
	for _, d := range analysis.Domains {
		domains = append(domains, d.String())
	}
	c.Adapters.Limiters = ratelimit.NewAnalysisLimiters(
		c.Config.Analysis.RequestsPerMinute,
		c.Config.Analysis.DomainRequestsPerMinute,
		domains...,
	)

	c.Adapters.AnalysisClient = analysisapi.NewClient(analysisapi.Config{
		BaseURL: c.Config.Analysis.BaseURL,
		Timeout: c.Config.Analysis.Timeout,
	}, c.Adapters.Limiters, c.Log)
	c.Log.Infow("✓ Analysis client initialized", "base_url", c.Adapters.AnalysisClient.BaseURL())

	if c.Config.Kafka.Enabled() {
		c.Adapters.KafkaProducer = provideKafkaProducer(c.Config, c.Log)
		c.Adapters.Publisher = events.NewPublisher(c.Adapters.KafkaProducer, c.Config.Kafka.Topic, c.Log)
	} else {
		c.Log.Info("Kafka not configured, analysis events disabled")
	}
}

// ========================================
// Phase 4: Services
// ========================================

// MustInitServices wires the history and analysis services
func (c *Container) MustInitServices() {
	var repo history.Repository
	if c.Redis != nil {
		repo = redisrepo.NewHistoryRepository(c.Redis, c.Config.Redis.HistoryLimit)
	}
	c.Services.History = history.NewService(repo, c.Log)

	deps := analysisservice.Deps{
		Client:  c.Adapters.AnalysisClient,
		Builder: request.NewBuilder(),
		History: c.Services.History,
		Tracker: c.ErrorTracker,
		Logger:  c.Log,
	}
	// A typed nil *events.Publisher would defeat the service's nil check
	if c.Adapters.Publisher != nil {
		deps.Publisher = c.Adapters.Publisher
	}

	c.Services.Analysis = analysisservice.NewService(deps, analysisservice.Config{
		Timeout: c.Config.Analysis.Timeout,
		Context: c.callCtx,
	})

	registerPhaseCollector(c.Services.Analysis, c.Log)
	c.Log.Info("✓ Analysis service initialized")
}

// ========================================
// Phase 5: Application Layer
// ========================================

// MustInitApplication builds health checks and the HTTP server
func (c *Container) MustInitApplication() {
	checks := []health.Check{
		{Name: "analysis_service", Probe: c.Adapters.AnalysisClient.Ping},
	}
	if c.Redis != nil {
		checks = append(checks, health.Check{Name: "redis", Probe: c.Redis.Health, Optional: true})
	}

	c.Application.HealthHandler = health.New(c.Log, c.Config.App.Name, c.Config.App.Version, checks...)
	c.Application.HTTPServer = provideHTTPServer(c.Config, c.Application.HealthHandler, c.Services.Analysis, c.Log)
	c.Log.Infow("✓ HTTP server configured", "addr", c.Config.HTTP.Addr, "checks", c.Application.HealthHandler.Names())
}

// ========================================
// Phase 6: Background
// ========================================

// MustInitBackground registers scheduled workers
func (c *Container) MustInitBackground() {
	c.Background.WorkerScheduler = provideWorkers(c.Config, c.Services.Analysis, c.Log)
}

// ========================================
// Helper Provider Functions
// ========================================

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return errnoop.New()
	}
	if !strings.EqualFold(cfg.ErrorTracking.Provider, "sentry") {
		log.Warnw("Unknown error tracking provider, falling back to no-op", "provider", cfg.ErrorTracking.Provider)
		return errnoop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return errnoop.New()
	}

	log.Info("✓ Error tracking initialized (Sentry)")
	return tracker
}

func provideKafkaProducer(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: cfg.Kafka.Brokers,
		Async:   cfg.Kafka.Async,
	})
	log.Infow("✓ Kafka producer initialized", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic, "async", cfg.Kafka.Async)
	return producer
}

func provideHTTPServer(
	cfg *config.Config,
	healthHandler *health.Handler,
	analyzer view.Analyzer,
	log *logger.Logger,
) *api.Server {
	return api.NewServer(api.ServerConfig{
		Addr:         cfg.HTTP.Addr,
		ServiceName:  cfg.App.Name,
		Version:      cfg.App.Version,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, healthHandler, view.New(analyzer, log), log)
}

func registerPhaseCollector(source metrics.PhaseSource, log *logger.Logger) {
	phases := make([]string, 0, len(fetch.Phases))
	for _, p := range fetch.Phases {
		phases = append(phases, string(p))
	}

	if err := prometheus.Register(metrics.NewPhaseCollector(source, phases)); err != nil {
		log.Warnw("Phase collector not registered", "error", err)
	}
}
