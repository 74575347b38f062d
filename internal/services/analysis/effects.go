package analysis

import (
	"context"
	"sync"
	"time"

	"sentiguard/pkg/logger"
)

// effectQueue runs terminal side effects (history writes, events) one at a
// time in the order they were queued, off the controller's notification path.
// Queueing never blocks.
type effectQueue struct {
	timeout time.Duration
	log     *logger.Logger

	mu      sync.Mutex
	pending []func(ctx context.Context)
	closed  bool

	wake chan struct{}
	done chan struct{}
}

func newEffectQueue(timeout time.Duration, log *logger.Logger) *effectQueue {
	q := &effectQueue{
		timeout: timeout,
		log:     log,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

// push queues fn. Reports false once the queue is closed.
func (q *effectQueue) push(fn func(ctx context.Context)) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	q.signal()
	return true
}

// close stops accepting work and waits until everything queued has run
func (q *effectQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.signal()
	<-q.done
}

func (q *effectQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *effectQueue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.wake
			continue
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.exec(fn)
	}
}

func (q *effectQueue) exec(fn func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Errorw("Side effect panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	fn(ctx)
}
