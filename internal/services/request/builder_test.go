package request

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiguard/internal/domain/analysis"
	"sentiguard/pkg/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestBuilder() *Builder {
	return NewBuilderWithClock(func() time.Time {
		return time.Date(2025, 7, 1, 15, 0, 0, 0, time.UTC)
	})
}

func TestBuild_News(t *testing.T) {
	b := newTestBuilder()

	desc, err := b.Build(analysis.DomainNews, analysis.NewsParams{
		Category: analysis.CategoryFinance,
		From:     time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC),
		To:       date(2025, 1, 31),
		Language: analysis.LanguageEnglish,
	})
	require.NoError(t, err)

	assert.Equal(t, analysis.DomainNews, desc.Domain)
	assert.Equal(t, http.MethodGet, desc.Method)
	assert.Equal(t, PathNews, desc.Path)
	assert.Nil(t, desc.Body)
	assert.Equal(t, "2025-01-01", desc.Query.Get("from"))
	assert.Equal(t, "2025-01-31", desc.Query.Get("to"))
	assert.Equal(t,
		"http://svc/api/fetch-news-with-sentiment?category=Finance&from=2025-01-01&language=en&to=2025-01-31",
		desc.URL("http://svc"),
	)
}

func TestBuild_NewsDefaultsLanguage(t *testing.T) {
	desc, err := newTestBuilder().Build(analysis.DomainNews, analysis.NewsParams{
		Category: analysis.CategoryHealthcare,
		From:     date(2025, 3, 1),
		To:       date(2025, 3, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "en", desc.Query.Get("language"))
}

func TestBuild_NewsUsesUTCCalendarDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	desc, err := newTestBuilder().Build(analysis.DomainNews, analysis.NewsParams{
		Category: analysis.CategoryEducation,
		From:     time.Date(2025, 2, 1, 2, 0, 0, 0, ist), // 2025-01-31 in UTC
		To:       date(2025, 2, 10),
		Language: analysis.LanguageHindi,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31", desc.Query.Get("from"))
	assert.Equal(t, "hi", desc.Query.Get("language"))
}

func TestBuild_NewsValidation(t *testing.T) {
	valid := analysis.NewsParams{
		Category: analysis.CategoryFinance,
		From:     date(2025, 6, 1),
		To:       date(2025, 6, 10),
		Language: analysis.LanguageEnglish,
	}

	tests := []struct {
		name   string
		mutate func(p *analysis.NewsParams)
		field  string
	}{
		{
			name:   "inverted range",
			mutate: func(p *analysis.NewsParams) { p.From, p.To = date(2025, 6, 10), date(2025, 6, 1) },
			field:  "to",
		},
		{
			name:   "missing category",
			mutate: func(p *analysis.NewsParams) { p.Category = "" },
			field:  "category",
		},
		{
			name:   "unsupported category",
			mutate: func(p *analysis.NewsParams) { p.Category = "Sports" },
			field:  "category",
		},
		{
			name:   "unsupported language",
			mutate: func(p *analysis.NewsParams) { p.Language = "fr" },
			field:  "language",
		},
		{
			name:   "missing from",
			mutate: func(p *analysis.NewsParams) { p.From = time.Time{} },
			field:  "from",
		},
		{
			name:   "missing to",
			mutate: func(p *analysis.NewsParams) { p.To = time.Time{} },
			field:  "to",
		},
		{
			name:   "future to",
			mutate: func(p *analysis.NewsParams) { p.To = date(2025, 7, 2) },
			field:  "to",
		},
		{
			name:   "future from",
			mutate: func(p *analysis.NewsParams) { p.From, p.To = date(2025, 8, 1), date(2025, 8, 2) },
			field:  "from",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			_, err := newTestBuilder().Build(analysis.DomainNews, p)
			require.Error(t, err)

			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		})
	}
}

func TestBuild_TodayIsAllowed(t *testing.T) {
	_, err := newTestBuilder().Build(analysis.DomainNews, analysis.NewsParams{
		Category: analysis.CategoryFinance,
		From:     date(2025, 7, 1),
		To:       time.Date(2025, 7, 1, 23, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
}

func TestBuild_Social(t *testing.T) {
	tests := []struct {
		domain  analysis.Domain
		target  string
		path    string
		bodyKey string
	}{
		{domain: analysis.DomainYouTube, target: "dQw4w9WgXcQ", path: PathYouTube, bodyKey: "videoId"},
		{domain: analysis.DomainReddit, target: "https://reddit.com/r/golang/comments/abc/x", path: PathReddit, bodyKey: "postUrl"},
		{domain: analysis.DomainReddit, target: "not even a url", path: PathReddit, bodyKey: "postUrl"},
	}

	for _, tt := range tests {
		t.Run(string(tt.domain)+"/"+tt.target, func(t *testing.T) {
			desc, err := newTestBuilder().Build(tt.domain, analysis.SocialParams{Target: tt.target})
			require.NoError(t, err)

			assert.Equal(t, http.MethodPost, desc.Method)
			assert.Equal(t, tt.path, desc.Path)
			assert.Empty(t, desc.Query)
			assert.Equal(t, map[string]string{tt.bodyKey: tt.target}, desc.Body)
		})
	}
}

func TestBuild_SocialValidation(t *testing.T) {
	for _, target := range []string{"", "   "} {
		_, err := newTestBuilder().Build(analysis.DomainYouTube, analysis.SocialParams{Target: target})

		var ve *errors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "target", ve.Field)
	}
}

func TestBuild_DomainMismatch(t *testing.T) {
	b := newTestBuilder()

	_, err := b.Build(analysis.DomainNews, analysis.SocialParams{Target: "x"})
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "domain", ve.Field)

	_, err = b.Build(analysis.DomainReddit, analysis.NewsParams{})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "domain", ve.Field)

	_, err = b.Build("twitter", analysis.SocialParams{Target: "x"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "domain", ve.Field)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("from", "2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 31), d)

	_, err = ParseDate("from", "31/01/2025")
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "from", ve.Field)

	_, err = ParseDate("to", "")
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "to", ve.Field)
}
