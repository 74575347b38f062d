package analysis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiguard/pkg/logger"
)

func TestEffectQueue_RunsInPushOrder(t *testing.T) {
	q := newEffectQueue(time.Second, logger.NewNop())

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 5; i++ {
		require.True(t, q.push(func(ctx context.Context) {
			if i == 0 {
				time.Sleep(50 * time.Millisecond)
			}
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	q.close()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestEffectQueue_SurvivesPanicAndBoundsContext(t *testing.T) {
	q := newEffectQueue(20*time.Millisecond, logger.NewNop())

	var deadline bool
	q.push(func(ctx context.Context) { panic("boom") })
	q.push(func(ctx context.Context) {
		_, deadline = ctx.Deadline()
	})
	q.close()

	assert.True(t, deadline)
}

func TestEffectQueue_PushAfterClose(t *testing.T) {
	q := newEffectQueue(time.Second, logger.NewNop())
	q.close()
	q.close()

	assert.False(t, q.push(func(ctx context.Context) {}))
}
