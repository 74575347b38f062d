package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_WriterPerTopic(t *testing.T) {
	p := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}, Async: true})

	w1 := p.getWriter(TopicAnalysisEvents)
	w2 := p.getWriter(TopicAnalysisEvents)
	other := p.getWriter("other")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, other)
	assert.True(t, w1.Async)
	assert.NotNil(t, w1.Completion)

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestProducer_PublishRejectsUnencodableEvent(t *testing.T) {
	p := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}})

	err := p.Publish(context.Background(), TopicAnalysisEvents, "news", map[string]interface{}{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal event")
	assert.Empty(t, p.writers, "no writer is opened for an event that never encodes")
}
