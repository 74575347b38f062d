package noop

import (
	"context"

	"sentiguard/pkg/errors"
)

// Tracker discards analysis failures and breadcrumbs. Bootstrap falls back
// to it whenever Sentry cannot be used.
type Tracker struct{}

func New() *Tracker {
	return &Tracker{}
}

var _ errors.Tracker = (*Tracker)(nil)

func (t *Tracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	return nil
}

func (t *Tracker) CaptureMessage(ctx context.Context, message string, level errors.Level, tags map[string]string) error {
	return nil
}

func (t *Tracker) AddBreadcrumb(ctx context.Context, message string, category string, level errors.Level, data map[string]interface{}) {
}

// Flush returns at once; nothing is ever queued
func (t *Tracker) Flush(ctx context.Context) error {
	return nil
}
