package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

// DefaultLimit is the number of entries returned when none is requested
const DefaultLimit = 20

// Service records analysis history. A Service with a nil repository is
// disabled: Record is a no-op and Recent returns ErrUnavailable.
type Service struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time
}

// NewService creates a history service; repo may be nil
func NewService(repo Repository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Get()
	}
	return &Service{
		repo: repo,
		log:  log.With("component", "history"),
		now:  time.Now,
	}
}

// Enabled reports whether history is backed by a repository
func (s *Service) Enabled() bool {
	return s != nil && s.repo != nil
}

// Record stores entry, filling ID and CompletedAt when unset. Storage
// failures are logged and returned; they never affect the analysis itself.
func (s *Service) Record(ctx context.Context, entry *Entry) error {
	if !s.Enabled() {
		return nil
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CompletedAt.IsZero() {
		entry.CompletedAt = s.now().UTC()
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		s.log.Warnw("Failed to record history", "domain", entry.Domain, "error", err)
		return errors.Wrap(err, "record history")
	}
	return nil
}

// Recent returns up to limit entries for domain, newest first
func (s *Service) Recent(ctx context.Context, domain string, limit int) ([]*Entry, error) {
	if !s.Enabled() {
		return nil, errors.Wrap(errors.ErrUnavailable, "history disabled")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.repo.Recent(ctx, domain, limit)
}
