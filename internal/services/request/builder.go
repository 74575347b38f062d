package request

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"sentiguard/internal/domain/analysis"
	"sentiguard/pkg/errors"
)

// Analysis service endpoints
const (
	PathNews    = "/api/fetch-news-with-sentiment"
	PathYouTube = "/api/youtube/analyze"
	PathReddit  = "/api/reddit/analyze"
)

// DateLayout is the wire format for news date filters
const DateLayout = "2006-01-02"

// Builder validates per-domain parameters and turns them into request descriptors
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a builder that validates dates against the wall clock
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// NewBuilderWithClock creates a builder with a fixed notion of "today"
func NewBuilderWithClock(now func() time.Time) *Builder {
	return &Builder{now: now}
}

// Build validates params for domain and returns the descriptor to send.
// Validation failures are *errors.ValidationError and happen before any I/O.
func (b *Builder) Build(domain analysis.Domain, params analysis.Params) (analysis.Descriptor, error) {
	switch domain {
	case analysis.DomainNews:
		p, ok := params.(analysis.NewsParams)
		if !ok {
			return analysis.Descriptor{}, errors.NewValidationError("domain", "news requires news parameters", domain)
		}
		return b.buildNews(p)

	case analysis.DomainYouTube, analysis.DomainReddit:
		p, ok := params.(analysis.SocialParams)
		if !ok {
			return analysis.Descriptor{}, errors.NewValidationError("domain", string(domain)+" requires a video ID or post URL", domain)
		}
		return buildSocial(domain, p)
	}

	return analysis.Descriptor{}, errors.NewValidationError("domain", "unsupported domain", domain)
}

func (b *Builder) buildNews(p analysis.NewsParams) (analysis.Descriptor, error) {
	if p.Category == "" {
		return analysis.Descriptor{}, errors.NewValidationError("category", "is required", nil)
	}
	if !p.Category.Valid() {
		return analysis.Descriptor{}, errors.NewValidationError("category", "must be one of Finance, Education, Healthcare", p.Category)
	}

	language := p.Language
	if language == "" {
		language = analysis.LanguageEnglish
	}
	if !language.Valid() {
		return analysis.Descriptor{}, errors.NewValidationError("language", "must be en or hi", p.Language)
	}

	if p.From.IsZero() {
		return analysis.Descriptor{}, errors.NewValidationError("from", "is required", nil)
	}
	if p.To.IsZero() {
		return analysis.Descriptor{}, errors.NewValidationError("to", "is required", nil)
	}

	from, to, today := calendarDate(p.From), calendarDate(p.To), calendarDate(b.now())
	if from.After(today) {
		return analysis.Descriptor{}, errors.NewValidationError("from", "must not be in the future", from.Format(DateLayout))
	}
	if to.After(today) {
		return analysis.Descriptor{}, errors.NewValidationError("to", "must not be in the future", to.Format(DateLayout))
	}
	if to.Before(from) {
		return analysis.Descriptor{}, errors.NewValidationError("to", "must not be before from", to.Format(DateLayout))
	}

	query := url.Values{}
	query.Set("category", string(p.Category))
	query.Set("from", from.Format(DateLayout))
	query.Set("to", to.Format(DateLayout))
	query.Set("language", string(language))

	return analysis.Descriptor{
		Domain: analysis.DomainNews,
		Method: http.MethodGet,
		Path:   PathNews,
		Query:  query,
	}, nil
}

func buildSocial(domain analysis.Domain, p analysis.SocialParams) (analysis.Descriptor, error) {
	// Format of the ID/URL is the service's concern; only emptiness is checked here.
	if strings.TrimSpace(p.Target) == "" {
		return analysis.Descriptor{}, errors.NewValidationError("target", "is required", nil)
	}

	path, bodyKey := PathYouTube, "videoId"
	if domain == analysis.DomainReddit {
		path, bodyKey = PathReddit, "postUrl"
	}

	return analysis.Descriptor{
		Domain: domain,
		Method: http.MethodPost,
		Path:   path,
		Body:   map[string]string{bodyKey: p.Target},
	}, nil
}

// calendarDate truncates t to its UTC calendar date
func calendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date as a UTC calendar date
func ParseDate(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, errors.NewValidationError(field, "is required", nil)
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, errors.NewValidationError(field, "must be a YYYY-MM-DD date", raw)
	}
	return t, nil
}
