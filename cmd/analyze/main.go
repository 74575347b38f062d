package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"sentiguard/internal/adapters/analysisapi"
	"sentiguard/internal/adapters/config"
	"sentiguard/internal/adapters/ratelimit"
	"sentiguard/internal/domain/analysis"
	analysisservice "sentiguard/internal/services/analysis"
	"sentiguard/internal/services/fetch"
	"sentiguard/internal/services/request"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

const (
	exitOK         = 0
	exitFailed     = 1
	exitValidation = 2
)

type options struct {
	domain   string
	category string
	from     string
	to       string
	language string
	target   string
	baseURL  string
	timeout  time.Duration
	limit    int
	asJSON   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return exitValidation
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFailed
	}
	if opts.baseURL != "" {
		cfg.Analysis.BaseURL = opts.baseURL
	}
	if opts.timeout <= 0 {
		opts.timeout = cfg.Analysis.Timeout
	}

	if err := logger.Init("warn", cfg.App.Env); err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return exitFailed
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	client := analysisapi.NewClient(analysisapi.Config{
		BaseURL: cfg.Analysis.BaseURL,
		Timeout: opts.timeout,
	}, ratelimit.NewAnalysisLimiters(cfg.Analysis.RequestsPerMinute, 0), log)

	svc := analysisservice.NewService(analysisservice.Deps{
		Client:  client,
		Builder: request.NewBuilder(),
		Logger:  log,
	}, analysisservice.Config{Timeout: opts.timeout})
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout+5*time.Second)
	defer cancel()

	view, err := analyze(ctx, svc, opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", errors.UserMessage(err))
		if errors.Is(err, errors.ErrInvalidInput) {
			return exitValidation
		}
		return exitFailed
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(view)
	} else {
		render(stdout, view, opts.limit, time.Now())
	}

	if view.Phase == string(fetch.PhaseError) {
		if !opts.asJSON {
			fmt.Fprintf(stderr, "error: %s\n", view.ErrorMessage)
		}
		return exitFailed
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.domain, "domain", "news", "Domain: news, youtube, reddit")
	fs.StringVar(&opts.category, "category", "Finance", "News category: Finance, Education, Healthcare")
	fs.StringVar(&opts.from, "from", "", "News start date (YYYY-MM-DD)")
	fs.StringVar(&opts.to, "to", "", "News end date (YYYY-MM-DD)")
	fs.StringVar(&opts.language, "language", "en", "News language: en, hi")
	fs.StringVar(&opts.target, "target", "", "YouTube video ID or Reddit post URL")
	fs.StringVar(&opts.baseURL, "base-url", "", "Analysis service URL (overrides ANALYSIS_BASE_URL)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Request timeout (defaults to ANALYSIS_TIMEOUT)")
	fs.IntVar(&opts.limit, "limit", 20, "Maximum items to print, 0 for all")
	fs.BoolVar(&opts.asJSON, "json", false, "Print the view as JSON")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

// analyze submits one request and blocks until it reaches a terminal phase
func analyze(ctx context.Context, svc *analysisservice.Service, opts options) (analysisservice.View, error) {
	domain := analysis.Domain(opts.domain)

	switch {
	case domain == analysis.DomainNews:
		params, err := newsParams(opts)
		if err != nil {
			return analysisservice.View{}, err
		}
		if _, err := svc.SubmitNews(ctx, params); err != nil {
			return analysisservice.View{}, err
		}
	case domain.IsSocial():
		if _, err := svc.SubmitSocial(ctx, domain, opts.target); err != nil {
			return analysisservice.View{}, err
		}
	default:
		return analysisservice.View{}, errors.NewValidationError("domain", "must be news, youtube or reddit", opts.domain)
	}

	return svc.Wait(ctx, domain)
}

func newsParams(opts options) (analysis.NewsParams, error) {
	from, err := request.ParseDate("from", opts.from)
	if err != nil {
		return analysis.NewsParams{}, err
	}
	to, err := request.ParseDate("to", opts.to)
	if err != nil {
		return analysis.NewsParams{}, err
	}
	return analysis.NewsParams{
		Category: analysis.Category(opts.category),
		From:     from,
		To:       to,
		Language: analysis.Language(opts.language),
	}, nil
}
