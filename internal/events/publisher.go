package events

import (
	"context"
	"time"

	"sentiguard/internal/adapters/kafka"
	"sentiguard/internal/domain/sentiment"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

// Producer is the transport the publisher writes to
type Producer interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

// AnalysisCompletedEvent is emitted when a request reaches the success phase
type AnalysisCompletedEvent struct {
	BaseEvent
	Domain       string                    `json:"domain"`
	Generation   uint64                    `json:"generation"`
	Params       map[string]string         `json:"params"`
	Items        int                       `json:"items"`
	Distribution sentiment.Distribution    `json:"distribution"`
	Verdicts     *sentiment.VerdictSummary `json:"verdicts,omitempty"`
	DurationMs   int64                     `json:"duration_ms"`
}

// AnalysisFailedEvent is emitted when a request reaches the error phase
type AnalysisFailedEvent struct {
	BaseEvent
	Domain       string            `json:"domain"`
	Generation   uint64            `json:"generation"`
	Params       map[string]string `json:"params"`
	ErrorMessage string            `json:"error_message"`
	StatusCode   int               `json:"status_code,omitempty"`
	NoResults    bool              `json:"no_results"`
	DurationMs   int64             `json:"duration_ms"`
}

// Publisher publishes analysis events. Events are keyed by domain so each
// domain's events stay ordered within one partition.
type Publisher struct {
	producer Producer
	topic    string
	log      *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(producer Producer, topic string, log *logger.Logger) *Publisher {
	if topic == "" {
		topic = kafka.TopicAnalysisEvents
	}
	if log == nil {
		log = logger.Get()
	}
	return &Publisher{
		producer: producer,
		topic:    topic,
		log:      log.With("component", "event_publisher"),
	}
}

// PublishAnalysisCompleted publishes an analysis.completed event
func (p *Publisher) PublishAnalysisCompleted(ctx context.Context, event *AnalysisCompletedEvent) error {
	event.BaseEvent = NewBaseEvent(TypeAnalysisCompleted)
	return p.publish(ctx, event.Domain, event)
}

// PublishAnalysisFailed publishes an analysis.failed event
func (p *Publisher) PublishAnalysisFailed(ctx context.Context, event *AnalysisFailedEvent) error {
	event.BaseEvent = NewBaseEvent(TypeAnalysisFailed)
	event.ErrorMessage = SanitizeUTF8(event.ErrorMessage)
	return p.publish(ctx, event.Domain, event)
}

func (p *Publisher) publish(ctx context.Context, key string, event interface{}) error {
	start := time.Now()
	if err := p.producer.Publish(ctx, p.topic, key, event); err != nil {
		p.log.Errorw("Failed to publish event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return errors.Wrap(err, "failed to publish event")
	}

	p.log.Debugw("Event published",
		"topic", p.topic,
		"key", key,
		"duration", time.Since(start),
	)
	return nil
}
