package sentry

import (
	"context"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiguard/pkg/errors"
)

type eventSink struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (s *eventSink) beforeSend(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil // never leave the process
}

func newTestTracker(t *testing.T) (*Tracker, *eventSink) {
	t.Helper()
	sink := &eventSink{}
	client, err := sentry.NewClient(sentry.ClientOptions{BeforeSend: sink.beforeSend})
	require.NoError(t, err)
	return NewWithClient(client), sink
}

func TestTracker_CaptureErrorTags(t *testing.T) {
	tracker, sink := newTestTracker(t)

	ctx := errors.WithRequestID(context.Background(), "req-123")
	err := &errors.TransportError{StatusCode: 502, Message: "Failed to analyze comments"}
	require.NoError(t, tracker.CaptureError(ctx, err, map[string]string{"domain": "youtube"}))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.events, 1)
	assert.Equal(t, "youtube", sink.events[0].Tags["domain"])
	assert.Equal(t, "req-123", sink.events[0].Tags["request_id"])
}

func TestTracker_CaptureMessageLevel(t *testing.T) {
	tracker, sink := newTestTracker(t)

	tracker.AddBreadcrumb(context.Background(), "submit", "analysis", errors.LevelInfo, map[string]interface{}{"generation": 1})
	require.NoError(t, tracker.CaptureMessage(context.Background(), "distribution mismatch", errors.LevelWarning, nil))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.events, 1)
	assert.Equal(t, sentry.LevelWarning, sink.events[0].Level)
	require.Len(t, sink.events[0].Breadcrumbs, 1)
	assert.Equal(t, "submit", sink.events[0].Breadcrumbs[0].Message)
}

func TestConvertLevel(t *testing.T) {
	tests := []struct {
		level errors.Level
		want  sentry.Level
	}{
		{errors.LevelDebug, sentry.LevelDebug},
		{errors.LevelInfo, sentry.LevelInfo},
		{errors.LevelWarning, sentry.LevelWarning},
		{errors.LevelError, sentry.LevelError},
		{errors.LevelFatal, sentry.LevelFatal},
		{errors.Level("bogus"), sentry.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, convertLevel(tt.level))
		})
	}
}
