package events

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeAnalysisCompleted = "analysis.completed"
	TypeAnalysisFailed    = "analysis.failed"
)

const (
	eventSource  = "sentiguard"
	eventVersion = "1.0"
)

// BaseEvent is embedded in every published event
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// NewBaseEvent creates a new base event with defaults
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
	}
}

// SanitizeUTF8 drops invalid UTF-8 sequences so service-provided text
// (comment bodies, error details) always encodes cleanly
func SanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}
