package errors

import (
	"context"
)

// Tracker receives failed analyses and the breadcrumbs leading up to them.
// Sentry backs it in production; the no-op tracker when tracking is off.
type Tracker interface {
	// CaptureError reports an analysis failure; tags carry domain and generation
	CaptureError(ctx context.Context, err error, tags map[string]string) error

	// CaptureMessage reports a non-error anomaly, e.g. a distribution mismatch
	CaptureMessage(ctx context.Context, message string, level Level, tags map[string]string) error

	// AddBreadcrumb records a submit or cancel so a later failure has context
	AddBreadcrumb(ctx context.Context, message string, category string, level Level, data map[string]interface{})

	// Flush blocks until queued reports are delivered or ctx is done
	Flush(ctx context.Context) error
}

// Level is the severity attached to a captured message or breadcrumb.
// Unknown values are reported as info.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)
