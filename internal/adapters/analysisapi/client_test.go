package analysisapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiguard/internal/domain/analysis"
	"sentiguard/internal/domain/sentiment"
	"sentiguard/internal/services/request"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, nil, logger.NewNop())
}

func newsRequest(t *testing.T) analysis.Descriptor {
	t.Helper()
	b := request.NewBuilderWithClock(func() time.Time {
		return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	})
	req, err := b.Build(analysis.DomainNews, analysis.NewsParams{
		Category: analysis.CategoryFinance,
		From:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Language: analysis.LanguageEnglish,
	})
	require.NoError(t, err)
	return req
}

func socialRequest(t *testing.T, domain analysis.Domain, target string) analysis.Descriptor {
	t.Helper()
	req, err := request.NewBuilder().Build(domain, analysis.SocialParams{Target: target})
	require.NoError(t, err)
	return req
}

func TestClient_FetchNews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, request.PathNews, r.URL.Path)
		assert.Equal(t, "Finance", r.URL.Query().Get("category"))
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2025-01-31", r.URL.Query().Get("to"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"title":"Markets rally","title_sentiment":"Positive 😊","title_score":0.91,
			 "emoji_sentiment":"Positive 😊","fake_news":"Real News ✅",
			 "published_at":"2025-01-12T08:30:00Z","language":"en","url":"https://example.com/a"},
			{"title":"Bank fails","title_sentiment":"Negative ☹️","fake_news":"Fake News ❌",
			 "published_at":"Sun, 12 Jan 2025 14:00:00 +0000"}
		]`))
	})

	articles, err := client.FetchNews(context.Background(), newsRequest(t))
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "Markets rally", articles[0].Title)
	assert.InDelta(t, 0.91, articles[0].TitleScore, 1e-9)
	assert.Equal(t, time.Date(2025, 1, 12, 8, 30, 0, 0, time.UTC), articles[0].PublishedAt)
	assert.Equal(t, time.Date(2025, 1, 12, 14, 0, 0, 0, time.UTC), articles[1].PublishedAt)

	verdict, ok := articles[1].Verdict()
	require.True(t, ok)
	assert.Equal(t, sentiment.VerdictFake, verdict)
}

func TestClient_FetchNews_EmptyArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	articles, err := client.FetchNews(context.Background(), newsRequest(t))
	require.NoError(t, err)
	assert.Equal(t, 0, articles.Len())
}

func TestClient_AnalyzeComments(t *testing.T) {
	tests := []struct {
		name      string
		domain    analysis.Domain
		target    string
		path      string
		bodyField string
	}{
		{
			name:      "youtube sends videoId",
			domain:    analysis.DomainYouTube,
			target:    "dQw4w9WgXcQ",
			path:      request.PathYouTube,
			bodyField: "videoId",
		},
		{
			name:      "reddit sends postUrl",
			domain:    analysis.DomainReddit,
			target:    "https://www.reddit.com/r/golang/comments/abc/title/",
			path:      request.PathReddit,
			bodyField: "postUrl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				raw, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				var body map[string]string
				require.NoError(t, json.Unmarshal(raw, &body))
				assert.Equal(t, map[string]string{tt.bodyField: tt.target}, body)

				_, _ = w.Write([]byte(`{
					"comments":[
						{"text":"great","author":"a","sentiment":"Positive 😊","publishedAt":"2025-02-01T10:00:00Z"},
						{"text":"meh","author":"b","sentiment":"तटस्थ 😐","publishedAt":"not a date"}
					],
					"sentimentDistribution":{"Positive 😊":1,"तटस्थ 😐":1},
					"totalComments":2
				}`))
			})

			result, err := client.AnalyzeComments(context.Background(), socialRequest(t, tt.domain, tt.target))
			require.NoError(t, err)
			require.Equal(t, 2, result.Len())
			assert.Equal(t, "great", result.Comments[0].Text)
			assert.True(t, result.Comments[1].PublishedAt.IsZero())
			assert.Equal(t, 2, result.ReportedTotal)
			assert.Equal(t, 1, result.ReportedDistribution["Positive 😊"])
		})
	}
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "detail is surfaced verbatim",
			status:      http.StatusBadRequest,
			body:        `{"detail":"Invalid Reddit URL"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid Reddit URL",
		},
		{
			name:        "error is surfaced verbatim",
			status:      http.StatusNotFound,
			body:        `{"error":"Video not found or comments disabled"}`,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Video not found or comments disabled",
		},
		{
			name:        "structured detail falls back to generic text",
			status:      http.StatusUnprocessableEntity,
			body:        `{"detail":[{"loc":["body","videoId"],"msg":"field required"}]}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: MessageCommentsFailed,
		},
		{
			name:        "non-json body falls back to generic text",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantStatus:  http.StatusBadGateway,
			wantMessage: MessageCommentsFailed,
		},
		{
			name:        "error payload on 200",
			status:      http.StatusOK,
			body:        `{"error":"YouTube quota exceeded"}`,
			wantStatus:  http.StatusOK,
			wantMessage: "YouTube quota exceeded",
		},
		{
			name:        "undecodable 200",
			status:      http.StatusOK,
			body:        `{"comments":"nope"}`,
			wantStatus:  http.StatusOK,
			wantMessage: MessageCommentsFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.AnalyzeComments(context.Background(), socialRequest(t, analysis.DomainYouTube, "abc"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrTransport))

			var te *errors.TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.wantStatus, te.StatusCode)
			assert.Equal(t, tt.wantMessage, te.Message)
			assert.Equal(t, tt.wantMessage, errors.UserMessage(err))
		})
	}
}

func TestClient_FetchNews_ObjectResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"detail":"NewsAPI key invalid"}`))
	})

	_, err := client.FetchNews(context.Background(), newsRequest(t))
	require.Error(t, err)
	assert.Equal(t, "NewsAPI key invalid", errors.UserMessage(err))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: baseURL, Timeout: time.Second}, nil, logger.NewNop())

	_, err := client.FetchNews(context.Background(), newsRequest(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTransport))
	assert.Equal(t, MessageNewsFailed, errors.UserMessage(err))

	assert.True(t, errors.Is(client.Ping(context.Background()), errors.ErrUnavailable))
}

func TestClient_Ping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "404 still reachable", status: http.StatusNotFound},
		{name: "200", status: http.StatusOK},
		{name: "503 unavailable", status: http.StatusServiceUnavailable, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})
			err := client.Ping(context.Background())
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrUnavailable))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
