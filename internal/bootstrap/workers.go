package bootstrap

import (
	"sentiguard/internal/adapters/config"
	"sentiguard/internal/domain/analysis"
	"sentiguard/internal/workers"
	"sentiguard/internal/workers/news"
	"sentiguard/pkg/logger"
)

// provideWorkers builds the scheduler and registers background workers
func provideWorkers(cfg *config.Config, submitter news.Submitter, log *logger.Logger) *workers.Scheduler {
	log.Info("Initializing workers...")

	scheduler := workers.NewScheduler(log, workers.DefaultStopTimeout)

	wc := cfg.Workers
	scheduler.RegisterWorker(news.NewRefresher(submitter, news.Config{
		Interval:     wc.NewsRefreshInterval,
		Enabled:      wc.NewsRefreshEnabled,
		Category:     analysis.Category(wc.NewsRefreshCategory),
		Language:     analysis.Language(wc.NewsRefreshLanguage),
		LookbackDays: wc.NewsRefreshLookbackDays,
	}))

	log.Infow("✓ Workers initialized", "workers", len(scheduler.GetWorkers()))
	return scheduler
}
