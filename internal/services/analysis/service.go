package analysis

import (
	"context"
	"net/http"
	"sync"
	"time"

	"sentiguard/internal/domain/analysis"
	"sentiguard/internal/domain/history"
	"sentiguard/internal/domain/sentiment"
	"sentiguard/internal/events"
	"sentiguard/internal/metrics"
	"sentiguard/internal/services/aggregation"
	"sentiguard/internal/services/fetch"
	"sentiguard/internal/services/request"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

const sideEffectTimeout = 5 * time.Second

// Client is the analysis service transport
type Client interface {
	FetchNews(ctx context.Context, req analysis.Descriptor) (sentiment.Articles, error)
	AnalyzeComments(ctx context.Context, req analysis.Descriptor) (sentiment.CommentAnalysis, error)
}

// EventPublisher receives terminal outcomes
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, event *events.AnalysisCompletedEvent) error
	PublishAnalysisFailed(ctx context.Context, event *events.AnalysisFailedEvent) error
}

// Deps are the collaborators of the service. Only Client is required.
type Deps struct {
	Client    Client
	Builder   *request.Builder
	History   *history.Service
	Publisher EventPublisher
	Tracker   errors.Tracker
	Logger    *logger.Logger
}

// Config tunes the per-domain controllers
type Config struct {
	// Timeout bounds each analysis call
	Timeout time.Duration

	// Context parents every outbound call; cancel it to abort in-flight calls
	Context context.Context
}

// Service owns one independent fetch controller per domain and turns their
// states into views. Terminal outcomes are recorded to history and published
// as events off the controller's notification path.
type Service struct {
	builder   *request.Builder
	news      *fetch.Controller[sentiment.Articles]
	youtube   *fetch.Controller[sentiment.CommentAnalysis]
	reddit    *fetch.Controller[sentiment.CommentAnalysis]
	history   *history.Service
	publisher EventPublisher
	tracker   errors.Tracker
	log       *logger.Logger

	mu      sync.Mutex
	started map[analysis.Domain]submission

	effects *effectQueue
}

type submission struct {
	generation uint64
	at         time.Time
}

// outcome summarizes a successful result for history and events
type outcome struct {
	items        int
	distribution sentiment.Distribution
	verdicts     *sentiment.VerdictSummary
}

// NewService wires the three domain controllers to deps.Client
func NewService(deps Deps, cfg Config) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.Get()
	}
	builder := deps.Builder
	if builder == nil {
		builder = request.NewBuilder()
	}

	s := &Service{
		builder:   builder,
		history:   deps.History,
		publisher: deps.Publisher,
		tracker:   deps.Tracker,
		log:       log.With("component", "analysis_service"),
		started:   make(map[analysis.Domain]submission),
	}
	s.effects = newEffectQueue(sideEffectTimeout, s.log)

	controllerCfg := fetch.Config{
		Timeout: cfg.Timeout,
		Context: cfg.Context,
		Logger:  log,
	}

	s.news = fetch.NewController[sentiment.Articles](analysis.DomainNews, deps.Client.FetchNews, controllerCfg)
	s.youtube = fetch.NewController[sentiment.CommentAnalysis](analysis.DomainYouTube, deps.Client.AnalyzeComments, controllerCfg)
	s.reddit = fetch.NewController[sentiment.CommentAnalysis](analysis.DomainReddit, deps.Client.AnalyzeComments, controllerCfg)

	observe(s, s.news, summarizeNews)
	observe(s, s.youtube, s.summarizeComments(analysis.DomainYouTube))
	observe(s, s.reddit, s.summarizeComments(analysis.DomainReddit))

	return s
}

// Submit validates params for domain and starts a new request, superseding
// any previous one for that domain. A *errors.ValidationError means nothing
// was sent.
func (s *Service) Submit(ctx context.Context, domain analysis.Domain, params analysis.Params) (uint64, error) {
	req, err := s.builder.Build(domain, params)
	if err != nil {
		return 0, err
	}

	var gen uint64
	switch domain {
	case analysis.DomainNews:
		gen = s.news.Submit(req)
	case analysis.DomainYouTube:
		gen = s.youtube.Submit(req)
	case analysis.DomainReddit:
		gen = s.reddit.Submit(req)
	default:
		return 0, errors.NewValidationError("domain", "unsupported domain", domain)
	}

	if s.tracker != nil {
		s.tracker.AddBreadcrumb(ctx, "analysis submitted", "analysis", errors.LevelInfo, map[string]interface{}{
			"domain":     string(domain),
			"generation": gen,
			"path":       req.Path,
		})
	}
	return gen, nil
}

// SubmitNews is Submit for the news domain
func (s *Service) SubmitNews(ctx context.Context, params analysis.NewsParams) (uint64, error) {
	return s.Submit(ctx, analysis.DomainNews, params)
}

// SubmitSocial is Submit for youtube or reddit
func (s *Service) SubmitSocial(ctx context.Context, domain analysis.Domain, target string) (uint64, error) {
	if !domain.IsSocial() {
		return 0, errors.NewValidationError("domain", "must be youtube or reddit", domain)
	}
	return s.Submit(ctx, domain, analysis.SocialParams{Target: target})
}

// Cancel abandons domain's in-flight request, if any
func (s *Service) Cancel(domain analysis.Domain) error {
	switch domain {
	case analysis.DomainNews:
		s.news.Cancel()
	case analysis.DomainYouTube:
		s.youtube.Cancel()
	case analysis.DomainReddit:
		s.reddit.Cancel()
	default:
		return errors.NewValidationError("domain", "unsupported domain", domain)
	}
	return nil
}

// View returns the current snapshot of domain
func (s *Service) View(domain analysis.Domain) (View, error) {
	switch domain {
	case analysis.DomainNews:
		return newsView(s.news.State()), nil
	case analysis.DomainYouTube:
		return socialView(domain, s.youtube.State()), nil
	case analysis.DomainReddit:
		return socialView(domain, s.reddit.State()), nil
	}
	return View{}, errors.NewValidationError("domain", "unsupported domain", domain)
}

// Wait blocks until domain leaves the loading phase, then returns its view
func (s *Service) Wait(ctx context.Context, domain analysis.Domain) (View, error) {
	var err error
	switch domain {
	case analysis.DomainNews:
		_, err = s.news.Wait(ctx)
	case analysis.DomainYouTube:
		_, err = s.youtube.Wait(ctx)
	case analysis.DomainReddit:
		_, err = s.reddit.Wait(ctx)
	default:
		return View{}, errors.NewValidationError("domain", "unsupported domain", domain)
	}
	if err != nil {
		return View{}, err
	}
	return s.View(domain)
}

// Phases reports each domain's current phase (metrics.PhaseSource)
func (s *Service) Phases() map[string]string {
	return map[string]string{
		string(analysis.DomainNews):    string(s.news.State().Phase),
		string(analysis.DomainYouTube): string(s.youtube.State().Phase),
		string(analysis.DomainReddit):  string(s.reddit.State().Phase),
	}
}

// History returns recent finished requests for domain
func (s *Service) History(ctx context.Context, domain analysis.Domain, limit int) ([]*history.Entry, error) {
	if !domain.Valid() {
		return nil, errors.NewValidationError("domain", "unsupported domain", domain)
	}
	return s.history.Recent(ctx, string(domain), limit)
}

// HistoryEnabled reports whether finished requests are being recorded
func (s *Service) HistoryEnabled() bool {
	return s.history.Enabled()
}

// Close aborts in-flight calls and waits for pending history/event writes.
// Safe to call more than once.
func (s *Service) Close() {
	s.news.Close()
	s.youtube.Close()
	s.reddit.Close()
	s.effects.close()
}

var _ metrics.PhaseSource = (*Service)(nil)

func observe[T fetch.Result](s *Service, c *fetch.Controller[T], summarize func(T) outcome) {
	domain := c.Domain()
	c.Subscribe(func(st fetch.State[T]) {
		switch st.Phase {
		case fetch.PhaseLoading:
			s.markStarted(domain, st.Generation, st.UpdatedAt)
		case fetch.PhaseSuccess:
			s.onSuccess(domain, st.Generation, st.Request, st.UpdatedAt, s.elapsed(domain, st.Generation, st.UpdatedAt), summarize(st.Data))
		case fetch.PhaseError:
			s.onError(domain, st.Generation, st.Request, st.UpdatedAt, s.elapsed(domain, st.Generation, st.UpdatedAt), st.Err, st.ErrorMessage)
		}
	})
}

func summarizeNews(articles sentiment.Articles) outcome {
	verdicts := aggregation.CountVerdicts(articles)
	return outcome{
		items:        articles.Len(),
		distribution: aggregation.Aggregate([]sentiment.Article(articles)),
		verdicts:     &verdicts,
	}
}

// summarizeComments also cross-checks the service's own distribution. The
// recomputed one always wins; a disagreement is only logged.
func (s *Service) summarizeComments(domain analysis.Domain) func(sentiment.CommentAnalysis) outcome {
	return func(result sentiment.CommentAnalysis) outcome {
		dist := aggregation.Aggregate(result.Comments)

		if result.ReportedDistribution != nil &&
			!aggregation.MatchesReported(dist, result.ReportedDistribution, result.ReportedTotal) {
			s.log.Warnw("Service-reported distribution disagrees with recomputed counts",
				"domain", domain,
				"reported", result.ReportedDistribution,
				"reported_total", result.ReportedTotal,
				"recomputed", dist,
			)
		}

		return outcome{items: result.Len(), distribution: dist}
	}
}

func (s *Service) markStarted(domain analysis.Domain, gen uint64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started[domain] = submission{generation: gen, at: at}
}

func (s *Service) elapsed(domain analysis.Domain, gen uint64, at time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.started[domain]; ok && sub.generation == gen {
		return at.Sub(sub.at)
	}
	return 0
}

func (s *Service) onSuccess(domain analysis.Domain, gen uint64, req analysis.Descriptor, at time.Time, took time.Duration, out outcome) {
	for _, label := range sentiment.Labels {
		metrics.RecordAnalyzedItems(string(domain), label.String(), out.distribution.Count(label))
	}
	metrics.RecordAnalyzedItems(string(domain), "unrecognized", out.distribution.Unrecognized)

	if out.distribution.Unrecognized > 0 {
		s.log.Infow("Items with unrecognized sentiment excluded from counts",
			"domain", domain,
			"generation", gen,
			"unrecognized", out.distribution.Unrecognized,
		)
	}

	params := requestParams(req)
	dist := out.distribution

	s.afterTerminal(func(ctx context.Context) {
		_ = s.history.Record(ctx, &history.Entry{
			Domain:       string(domain),
			Generation:   gen,
			Params:       params,
			Phase:        string(fetch.PhaseSuccess),
			Items:        out.items,
			Distribution: &dist,
			CompletedAt:  at.UTC(),
		})

		if s.publisher != nil {
			_ = s.publisher.PublishAnalysisCompleted(ctx, &events.AnalysisCompletedEvent{
				Domain:       string(domain),
				Generation:   gen,
				Params:       params,
				Items:        out.items,
				Distribution: dist,
				Verdicts:     out.verdicts,
				DurationMs:   took.Milliseconds(),
			})
		}
	})
}

func (s *Service) onError(domain analysis.Domain, gen uint64, req analysis.Descriptor, at time.Time, took time.Duration, err error, message string) {
	params := requestParams(req)

	var statusCode int
	var transportErr *errors.TransportError
	if errors.As(err, &transportErr) {
		statusCode = transportErr.StatusCode
	}
	noResults := errors.Is(err, errors.ErrNoResults)

	if s.tracker != nil && reportable(err, statusCode) {
		_ = s.tracker.CaptureError(context.Background(), err, map[string]string{
			"component": "analysis_service",
			"domain":    string(domain),
		})
	}

	s.afterTerminal(func(ctx context.Context) {
		_ = s.history.Record(ctx, &history.Entry{
			Domain:       string(domain),
			Generation:   gen,
			Params:       params,
			Phase:        string(fetch.PhaseError),
			ErrorMessage: message,
			CompletedAt:  at.UTC(),
		})

		if s.publisher != nil {
			_ = s.publisher.PublishAnalysisFailed(ctx, &events.AnalysisFailedEvent{
				Domain:       string(domain),
				Generation:   gen,
				Params:       params,
				ErrorMessage: message,
				StatusCode:   statusCode,
				NoResults:    noResults,
				DurationMs:   took.Milliseconds(),
			})
		}
	})
}

// reportable excludes empty results, 4xx responses and shutdown cancellation
func reportable(err error, statusCode int) bool {
	if errors.Is(err, errors.ErrNoResults) || errors.Is(err, context.Canceled) {
		return false
	}
	return statusCode < http.StatusBadRequest || statusCode >= http.StatusInternalServerError
}

// afterTerminal queues fn behind every earlier terminal side effect, so
// history and events for a domain land in transition order
func (s *Service) afterTerminal(fn func(ctx context.Context)) {
	if !s.history.Enabled() && s.publisher == nil {
		return
	}
	if !s.effects.push(fn) {
		s.log.Warn("Service closed, dropping terminal side effect")
	}
}

// requestParams flattens a descriptor's query or body for history and events
func requestParams(req analysis.Descriptor) map[string]string {
	params := make(map[string]string, len(req.Query)+len(req.Body))

	for k := range req.Query {
		params[k] = req.Query.Get(k)
	}

	for k, v := range req.Body {
		params[k] = v
	}
	return params
}
