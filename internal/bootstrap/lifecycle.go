package bootstrap

import (
	"context"
	"sync"
	"time"

	"sentiguard/internal/adapters/kafka"
	redisclient "sentiguard/internal/adapters/redis"
	"sentiguard/internal/api"
	"sentiguard/internal/domain/analysis"
	analysisservice "sentiguard/internal/services/analysis"
	"sentiguard/internal/workers"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

// Lifecycle manages graceful shutdown of components
type Lifecycle struct {
	shutdownTimeout time.Duration
}

// NewLifecycle creates a new lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownTimeout: 90 * time.Second,
	}
}

// ShutdownDeps lists what Shutdown tears down. Nil members are skipped.
type ShutdownDeps struct {
	WG              *sync.WaitGroup
	HTTPServer      *api.Server
	HTTPTimeout     time.Duration
	WorkerScheduler *workers.Scheduler

	Analysis *analysisservice.Service
	// AbortInflight cancels running analysis calls immediately; otherwise
	// they are given the remaining shutdown budget to finish
	AbortInflight      bool
	AbortInflightCalls context.CancelFunc

	KafkaProducer *kafka.Producer
	Redis         *redisclient.Client
	ErrorTracker  errors.Tracker
	Log           *logger.Logger
}

// Shutdown performs coordinated cleanup in order:
// 1. No new requests accepted
// 2. Workers stop submitting
// 3. In-flight analyses finish or are aborted, history/event writes drain
// 4. Producer closes after the last event
// 5. Errors and logs flushed
// 6. Redis last
func (l *Lifecycle) Shutdown(d ShutdownDeps) {
	log := d.Log
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer shutdownCancel()

	log.Info("[1/7] Stopping HTTP server...")
	if d.HTTPServer != nil {
		timeout := d.HTTPTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpCtx, httpCancel := context.WithTimeout(shutdownCtx, timeout)
		if err := d.HTTPServer.Shutdown(httpCtx); err != nil {
			log.Errorw("HTTP server shutdown failed", "error", err)
		} else {
			log.Info("✓ HTTP server stopped")
		}
		httpCancel()
	}

	log.Info("[2/7] Stopping background workers...")
	if d.WorkerScheduler != nil && d.WorkerScheduler.IsRunning() {
		if err := d.WorkerScheduler.Stop(); err != nil {
			log.Errorw("Workers shutdown failed", "error", err)
		} else {
			log.Info("✓ Workers stopped")
		}
	}

	log.Info("[3/7] Closing analysis service...")
	if d.Analysis != nil {
		if !d.AbortInflight {
			l.drainAnalyses(shutdownCtx, d.Analysis, log)
		}
		if d.AbortInflightCalls != nil {
			d.AbortInflightCalls()
		}
		d.Analysis.Close()
		log.Info("✓ Analysis service closed")
	}

	log.Info("[4/7] Waiting for goroutines...")
	if d.WG != nil {
		l.waitForGoroutines(d.WG, 5*time.Second, log)
	}

	log.Info("[5/7] Closing Kafka producer...")
	if d.KafkaProducer != nil {
		if err := d.KafkaProducer.Close(); err != nil {
			log.Errorw("Kafka producer close failed", "error", err)
		} else {
			log.Info("✓ Kafka producer closed")
		}
	}

	log.Info("[6/7] Flushing error tracker and logs...")
	l.flushErrorTracker(shutdownCtx, d.ErrorTracker, log)
	if err := logger.Sync(); err != nil {
		log.Debug("Log sync completed with warnings")
	}

	log.Info("[7/7] Closing Redis...")
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			log.Errorw("Redis close failed", "error", err)
		} else {
			log.Info("✓ Redis closed")
		}
	}

	log.Info("✅ Graceful shutdown complete")
}

// drainAnalyses waits for every domain to leave the loading phase
func (l *Lifecycle) drainAnalyses(ctx context.Context, svc *analysisservice.Service, log *logger.Logger) {
	for _, domain := range analysis.Domains {
		if _, err := svc.Wait(ctx, domain); err != nil {
			log.Warnw("Abandoning in-flight analysis", "domain", domain, "error", err)
			return
		}
	}
}

// waitForGoroutines waits for all goroutines with a timeout
func (l *Lifecycle) waitForGoroutines(wg *sync.WaitGroup, timeout time.Duration, log *logger.Logger) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("✓ All goroutines finished")
	case <-time.After(timeout):
		log.Warnw("⚠ Some goroutines did not finish within timeout", "timeout", timeout)
	}
}

// flushErrorTracker flushes pending Sentry events
func (l *Lifecycle) flushErrorTracker(ctx context.Context, tracker errors.Tracker, log *logger.Logger) {
	if tracker == nil {
		return
	}

	flushCtx, flushCancel := context.WithTimeout(ctx, 3*time.Second)
	defer flushCancel()

	if err := tracker.Flush(flushCtx); err != nil {
		log.Errorw("Error tracker flush failed", "error", err)
	} else {
		log.Info("✓ Error tracker flushed")
	}
}
