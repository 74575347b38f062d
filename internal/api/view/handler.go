// Package view serves the JSON endpoints a thin page polls to submit,
// cancel and render analyses.
package view

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sentiguard/internal/domain/analysis"
	"sentiguard/internal/domain/history"
	analysisservice "sentiguard/internal/services/analysis"
	"sentiguard/internal/services/request"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

const maxRequestBody = 64 << 10

// Analyzer is the part of the analysis service the handlers use
type Analyzer interface {
	SubmitNews(ctx context.Context, params analysis.NewsParams) (uint64, error)
	SubmitSocial(ctx context.Context, domain analysis.Domain, target string) (uint64, error)
	Cancel(domain analysis.Domain) error
	View(domain analysis.Domain) (analysisservice.View, error)
	History(ctx context.Context, domain analysis.Domain, limit int) ([]*history.Entry, error)
	HistoryEnabled() bool
}

// Handler serves /api/v1
type Handler struct {
	analyzer Analyzer
	log      *logger.Logger
}

// New creates the view handler
func New(analyzer Analyzer, log *logger.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		log:      log.With("component", "view_api"),
	}
}

// NewsRequest is the news form
type NewsRequest struct {
	Category string `json:"category"`
	From     string `json:"from"`
	To       string `json:"to"`
	Language string `json:"language"`
}

// SocialRequest is the YouTube/Reddit form
type SocialRequest struct {
	Target string `json:"target"`
}

// SubmitResponse acknowledges a submission
type SubmitResponse struct {
	Domain     string `json:"domain"`
	Generation uint64 `json:"generation"`
	Phase      string `json:"phase"`
}

// ErrorResponse is returned for every non-2xx answer
type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Register mounts the routes on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/news/analyze", h.handleSubmitNews)
	mux.HandleFunc("POST /api/v1/{domain}/analyze", h.handleSubmitSocial)
	mux.HandleFunc("DELETE /api/v1/{domain}/analyze", h.handleCancel)
	mux.HandleFunc("GET /api/v1/{domain}/state", h.handleState)
	mux.HandleFunc("GET /api/v1/{domain}/history", h.handleHistory)
}

func (h *Handler) handleSubmitNews(w http.ResponseWriter, r *http.Request) {
	var req NewsRequest
	if !h.decode(w, r, &req) {
		return
	}

	from, err := optionalDate("from", req.From)
	if err != nil {
		h.writeError(w, err)
		return
	}
	to, err := optionalDate("to", req.To)
	if err != nil {
		h.writeError(w, err)
		return
	}

	gen, err := h.analyzer.SubmitNews(r.Context(), analysis.NewsParams{
		Category: analysis.Category(strings.TrimSpace(req.Category)),
		From:     from,
		To:       to,
		Language: analysis.Language(strings.TrimSpace(req.Language)),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, SubmitResponse{Domain: string(analysis.DomainNews), Generation: gen, Phase: "loading"})
}

func (h *Handler) handleSubmitSocial(w http.ResponseWriter, r *http.Request) {
	domain, ok := h.domain(w, r)
	if !ok {
		return
	}
	if !domain.IsSocial() {
		h.writeError(w, errors.Wrapf(errors.ErrNotFound, "no social analysis for %s", domain))
		return
	}

	var req SocialRequest
	if !h.decode(w, r, &req) {
		return
	}

	gen, err := h.analyzer.SubmitSocial(r.Context(), domain, req.Target)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, SubmitResponse{Domain: string(domain), Generation: gen, Phase: "loading"})
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	domain, ok := h.domain(w, r)
	if !ok {
		return
	}
	if err := h.analyzer.Cancel(domain); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, domain)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	domain, ok := h.domain(w, r)
	if !ok {
		return
	}
	h.writeView(w, domain)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	domain, ok := h.domain(w, r)
	if !ok {
		return
	}
	if !h.analyzer.HistoryEnabled() {
		h.writeError(w, errors.Wrap(errors.ErrNotFound, "history is disabled"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, errors.NewValidationError("limit", "must be a non-negative integer", raw))
			return
		}
		limit = n
	}

	entries, err := h.analyzer.History(r.Context(), domain, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) writeView(w http.ResponseWriter, domain analysis.Domain) {
	v, err := h.analyzer.View(domain)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) domain(w http.ResponseWriter, r *http.Request) (analysis.Domain, bool) {
	domain := analysis.Domain(r.PathValue("domain"))
	if !domain.Valid() {
		h.writeError(w, errors.Wrapf(errors.ErrNotFound, "unknown domain %q", domain))
		return "", false
	}
	return domain, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, errors.NewValidationError("body", "must be a JSON object with known fields", nil))
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *errors.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  errors.UserMessage(err),
			Field:  ve.Field,
			Reason: ve.Reason,
		})
	case errors.Is(err, errors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, errors.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		h.log.Errorw("View request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// optionalDate parses a YYYY-MM-DD field; blank input yields the zero time so
// the request builder reports the missing field in its usual order
func optionalDate(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	return request.ParseDate(field, raw)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
