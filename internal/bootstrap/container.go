package bootstrap

import (
	"context"
	"sync"

	"sentiguard/internal/adapters/analysisapi"
	"sentiguard/internal/adapters/config"
	"sentiguard/internal/adapters/kafka"
	"sentiguard/internal/adapters/ratelimit"
	redisclient "sentiguard/internal/adapters/redis"
	"sentiguard/internal/api"
	"sentiguard/internal/api/health"
	"sentiguard/internal/domain/history"
	"sentiguard/internal/events"
	analysisservice "sentiguard/internal/services/analysis"
	"sentiguard/internal/workers"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

// Container holds all application dependencies and their lifecycle.
// Components are organized in initialization order.
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure (optional data stores)
	Redis *redisclient.Client

	Adapters    *Adapters
	Services    *Services
	Application *Application
	Background  *Background

	// Lifecycle management
	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc

	// callCtx parents every outbound analysis call; cancelling it aborts
	// in-flight calls without touching the rest of the app
	callCtx    context.Context
	callCancel context.CancelFunc
}

// Adapters groups external adapters
type Adapters struct {
	Limiters       *ratelimit.MultiLimiter
	AnalysisClient *analysisapi.Client
	KafkaProducer  *kafka.Producer
	Publisher      *events.Publisher
}

// Services groups domain and application services
type Services struct {
	History  *history.Service
	Analysis *analysisservice.Service
}

// Application groups the HTTP surface
type Application struct {
	HTTPServer    *api.Server
	HealthHandler *health.Handler
}

// Background groups background processing components
type Background struct {
	WorkerScheduler *workers.Scheduler
}

// NewContainer creates an empty dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())
	callCtx, callCancel := context.WithCancel(context.Background())

	return &Container{
		Adapters:    &Adapters{},
		Services:    &Services{},
		Application: &Application{},
		Background:  &Background{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
		callCtx:     callCtx,
		callCancel:  callCancel,
	}
}

// MustInit initializes all components in order.
// Panics on any initialization error (fail-fast at startup).
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitAdapters()
	c.MustInitServices()
	c.MustInitApplication()
	c.MustInitBackground()
}

// Start launches the HTTP server and the worker scheduler
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorf("HTTP server failed: %v", err)
			c.Cancel()
		}
	}()

	if err := c.Background.WorkerScheduler.Start(c.Context); err != nil {
		return errors.Wrap(err, "failed to start workers")
	}

	c.Log.Infow("✓ All systems operational",
		"addr", c.Config.HTTP.Addr,
		"analysis_service", c.Adapters.AnalysisClient.BaseURL(),
		"history", c.Services.History.Enabled(),
		"events", c.Adapters.Publisher != nil,
	)
	return nil
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")

	c.Cancel()

	c.Lifecycle.Shutdown(ShutdownDeps{
		WG:                 c.WG,
		HTTPServer:         c.Application.HTTPServer,
		HTTPTimeout:        c.Config.HTTP.ShutdownTimeout,
		WorkerScheduler:    c.Background.WorkerScheduler,
		Analysis:           c.Services.Analysis,
		AbortInflight:      c.Config.Analysis.ShutdownAbortsInflightCall,
		AbortInflightCalls: c.callCancel,
		KafkaProducer:      c.Adapters.KafkaProducer,
		Redis:              c.Redis,
		ErrorTracker:       c.ErrorTracker,
		Log:                c.Log,
	})
}
