// Package analysisapi is the HTTP client for the external sentiment/fake-news
// analysis service.
package analysisapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"sentiguard/internal/adapters/ratelimit"
	"sentiguard/internal/domain/analysis"
	"sentiguard/internal/domain/sentiment"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

const (
	defaultTimeout = 60 * time.Second
	maxBodyBytes   = 10 << 20

	// HeaderRequestID correlates a submission with the service's logs
	HeaderRequestID = "X-Request-ID"

	MessageNewsFailed     = "Failed to fetch news articles"
	MessageCommentsFailed = "Failed to analyze comments"
)

// Config configures the client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the analysis service. Every call is a single attempt.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *ratelimit.MultiLimiter
	log     *logger.Logger
}

// NewClient creates a client. limiter may be nil.
func NewClient(cfg Config, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logger.Get()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		log:     log.With("component", "analysis_client"),
	}
}

// BaseURL returns the service root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchNews executes a news descriptor and returns the analyzed articles.
// An empty array is returned as-is; the caller decides what "no results" means.
func (c *Client) FetchNews(ctx context.Context, req analysis.Descriptor) (sentiment.Articles, error) {
	body, err := c.do(ctx, req, MessageNewsFailed)
	if err != nil {
		return nil, err
	}

	// a 2xx object instead of an array carries an error payload
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
		if msg, ok := errorMessage(trimmed); ok {
			return nil, &errors.TransportError{StatusCode: http.StatusOK, Message: msg}
		}
		return nil, &errors.TransportError{
			StatusCode: http.StatusOK,
			Message:    MessageNewsFailed,
			Err:        errors.New("unexpected object response"),
		}
	}

	var articles sentiment.Articles
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, &errors.TransportError{
			StatusCode: http.StatusOK,
			Message:    MessageNewsFailed,
			Err:        errors.Wrap(err, "decode articles"),
		}
	}
	return articles, nil
}

// AnalyzeComments executes a YouTube or Reddit descriptor
func (c *Client) AnalyzeComments(ctx context.Context, req analysis.Descriptor) (sentiment.CommentAnalysis, error) {
	body, err := c.do(ctx, req, MessageCommentsFailed)
	if err != nil {
		return sentiment.CommentAnalysis{}, err
	}

	if msg, ok := errorMessage(body); ok {
		return sentiment.CommentAnalysis{}, &errors.TransportError{StatusCode: http.StatusOK, Message: msg}
	}

	var result sentiment.CommentAnalysis
	if err := json.Unmarshal(body, &result); err != nil {
		return sentiment.CommentAnalysis{}, &errors.TransportError{
			StatusCode: http.StatusOK,
			Message:    MessageCommentsFailed,
			Err:        errors.Wrap(err, "decode comment analysis"),
		}
	}
	return result, nil
}

// Ping checks that the service answers HTTP at all. Any status below 500 counts.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
	if err != nil {
		return errors.Wrap(err, "create ping request")
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return errors.Wrap(errors.ErrUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.Wrapf(errors.ErrUnavailable, "analysis service status %d", resp.StatusCode)
	}
	return nil
}

// do sends req and returns the 2xx body. Failures become *errors.TransportError
// whose Message is the service's detail/error text, or fallback.
func (c *Client) do(ctx context.Context, req analysis.Descriptor, fallback string) ([]byte, error) {
	requestID := uuid.NewString()
	log := c.log.With("request_id", requestID, "domain", req.Domain, "path", req.Path)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, ratelimit.KeyGlobal, string(req.Domain)); err != nil {
			return nil, &errors.TransportError{Message: fallback, Err: err}
		}
	}

	var payload io.Reader = http.NoBody
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &errors.TransportError{Message: fallback, Err: errors.Wrap(err, "marshal request")}
		}
		payload = bytes.NewReader(raw)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL(c.baseURL), payload)
	if err != nil {
		return nil, &errors.TransportError{Message: fallback, Err: errors.Wrap(err, "create request")}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderRequestID, requestID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warnw("Analysis service unreachable", "error", err, "duration", time.Since(start))
		return nil, &errors.TransportError{Message: fallback, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &errors.TransportError{
			StatusCode: resp.StatusCode,
			Message:    fallback,
			Err:        errors.Wrap(err, "read response"),
		}
	}

	log.Debugw("Analysis service responded",
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, ok := errorMessage(body)
		if !ok {
			msg = fallback
		}
		return nil, &errors.TransportError{StatusCode: resp.StatusCode, Message: msg}
	}

	return body, nil
}

type errorPayload struct {
	Detail json.RawMessage `json:"detail"`
	Error  json.RawMessage `json:"error"`
}

// errorMessage extracts a human-readable detail or error string from body.
// Non-string values (e.g. FastAPI validation arrays) are not surfaced.
func errorMessage(body []byte) (string, bool) {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	for _, raw := range []json.RawMessage{payload.Detail, payload.Error} {
		var msg string
		if len(raw) == 0 || json.Unmarshal(raw, &msg) != nil {
			continue
		}
		if msg = strings.TrimSpace(msg); msg != "" {
			return msg, true
		}
	}
	return "", false
}
