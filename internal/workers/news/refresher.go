package news

import (
	"context"
	"time"

	"sentiguard/internal/domain/analysis"
	"sentiguard/internal/workers"
	"sentiguard/pkg/errors"
)

// Submitter starts a news analysis. Satisfied by the analysis service.
type Submitter interface {
	SubmitNews(ctx context.Context, params analysis.NewsParams) (uint64, error)
}

// Config selects the news window the refresher resubmits on every tick
type Config struct {
	Interval     time.Duration
	Enabled      bool
	Category     analysis.Category
	Language     analysis.Language
	LookbackDays int
}

// Refresher periodically re-runs the news analysis over a trailing window,
// so the news view and its history stay current without a user submit.
// Each tick supersedes whatever news request is still loading.
type Refresher struct {
	*workers.BaseWorker
	submitter Submitter
	cfg       Config
	now       func() time.Time
}

// NewRefresher creates the news refresh worker
func NewRefresher(submitter Submitter, cfg Config) *Refresher {
	return NewRefresherWithClock(submitter, cfg, time.Now)
}

// NewRefresherWithClock is NewRefresher with an injectable clock
func NewRefresherWithClock(submitter Submitter, cfg Config, now func() time.Time) *Refresher {
	return &Refresher{
		BaseWorker: workers.NewBaseWorker("news_refresher", cfg.Interval, cfg.Enabled),
		submitter:  submitter,
		cfg:        cfg,
		now:        now,
	}
}

// Params returns the request the next tick would submit
func (r *Refresher) Params() analysis.NewsParams {
	to := r.now()
	from := to.AddDate(0, 0, -r.cfg.LookbackDays)
	return analysis.NewsParams{
		Category: r.cfg.Category,
		From:     from,
		To:       to,
		Language: r.cfg.Language,
	}
}

// Run submits one refresh. The analysis itself completes asynchronously.
func (r *Refresher) Run(ctx context.Context) error {
	params := r.Params()

	gen, err := r.submitter.SubmitNews(ctx, params)
	if err != nil {
		return errors.Wrap(err, "submit news refresh")
	}

	r.Log().Infow("News refresh submitted",
		"generation", gen,
		"category", params.Category,
		"language", params.Language,
		"from", params.From.Format(time.DateOnly),
		"to", params.To.Format(time.DateOnly),
	)
	return nil
}
