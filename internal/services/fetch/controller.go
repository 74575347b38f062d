package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sentiguard/internal/domain/analysis"
	"sentiguard/internal/metrics"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

// Fetcher performs the single outbound call for a descriptor
type Fetcher[T Result] func(ctx context.Context, req analysis.Descriptor) (T, error)

// Listener observes every applied transition, in the order applied.
// Listeners run synchronously and must not call Submit or Cancel.
type Listener[T Result] func(State[T])

// Config configures a controller
type Config struct {
	// Timeout bounds each outbound call (0 = no controller-side timeout)
	Timeout time.Duration

	// Context is the parent of every outbound call; cancelling it aborts
	// in-flight calls (used on shutdown). Defaults to context.Background().
	Context context.Context

	Logger *logger.Logger
}

// Controller owns the lifecycle of one in-flight analysis request for a domain:
//
//	idle --Submit--> loading --ok, non-empty--> success
//	                 loading --ok, empty------> error("No results for given criteria")
//	                 loading --failure--------> error(message)
//	                 loading --Cancel---------> idle
//	success|error --Submit--> loading
//
// Every Submit bumps the generation; a response is applied only if its
// generation is still current and the controller is still loading.
type Controller[T Result] struct {
	domain  analysis.Domain
	fetch   Fetcher[T]
	timeout time.Duration
	baseCtx context.Context
	stop    context.CancelFunc
	log     *logger.Logger
	now     func() time.Time

	mu         sync.Mutex
	state      State[T]
	generation uint64
	changed    chan struct{}
	listeners  []Listener[T]

	// serializes apply+notify so listeners see transitions in order
	notifyMu sync.Mutex

	inflight sync.WaitGroup
}

// NewController creates an idle controller for domain
func NewController[T Result](domain analysis.Domain, fetch Fetcher[T], cfg Config) *Controller[T] {
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	baseCtx, stop := context.WithCancel(parent)

	c := &Controller[T]{
		domain:  domain,
		fetch:   fetch,
		timeout: cfg.Timeout,
		baseCtx: baseCtx,
		stop:    stop,
		log:     log.ForDomain("fetch_controller", string(domain)),
		now:     time.Now,
		changed: make(chan struct{}),
	}
	c.state = State[T]{Phase: PhaseIdle, UpdatedAt: c.now()}
	return c
}

// Domain returns the domain this controller serves
func (c *Controller[T]) Domain() analysis.Domain {
	return c.domain
}

// State returns the current snapshot
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a listener for future transitions
func (c *Controller[T]) Subscribe(fn Listener[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Submit starts a new request, superseding any in-flight or completed one,
// and returns its generation. Exactly one outbound call is made; there are
// no retries.
func (c *Controller[T]) Submit(req analysis.Descriptor) uint64 {
	c.notifyMu.Lock()

	c.mu.Lock()
	c.generation++
	gen := c.generation
	superseded := c.state.Phase == PhaseLoading
	next := State[T]{
		Phase:      PhaseLoading,
		Generation: gen,
		Request:    req,
		UpdatedAt:  c.now(),
	}
	listeners := c.applyLocked(next)
	c.inflight.Add(1)
	c.mu.Unlock()

	c.notify(listeners, next)
	c.notifyMu.Unlock()

	if superseded {
		c.log.Debugw("Superseding in-flight request", "generation", gen)
	}
	c.log.Debugw("Request submitted", "generation", gen, "path", req.Path)

	go c.run(gen, req)
	return gen
}

// Cancel abandons a loading request and returns to idle. The transport call
// is not aborted; its eventual response is discarded. No-op in other phases.
func (c *Controller[T]) Cancel() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.state.Phase != PhaseLoading {
		c.mu.Unlock()
		return
	}
	c.generation++
	next := State[T]{
		Phase:      PhaseIdle,
		Generation: c.generation,
		UpdatedAt:  c.now(),
	}
	listeners := c.applyLocked(next)
	c.mu.Unlock()

	c.notify(listeners, next)
	c.log.Debugw("Request cancelled", "generation", next.Generation)
}

// Wait blocks until the controller leaves the loading phase or ctx is done
func (c *Controller[T]) Wait(ctx context.Context) (State[T], error) {
	for {
		c.mu.Lock()
		st, changed := c.state, c.changed
		c.mu.Unlock()

		if st.Phase == PhaseIdle || st.Phase.Terminal() {
			return st, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// Close aborts in-flight transport calls and waits for their goroutines.
// The controller must not be used afterwards.
func (c *Controller[T]) Close() {
	c.stop()
	c.inflight.Wait()
}

func (c *Controller[T]) run(gen uint64, req analysis.Descriptor) {
	defer c.inflight.Done()

	ctx := c.baseCtx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := c.call(ctx, req)
	if err == nil && data.Len() == 0 {
		err = &errors.EmptyResultError{Domain: string(c.domain)}
	}
	metrics.RecordAnalysisCall(string(c.domain), time.Since(start), err)

	c.complete(gen, data, err)
}

// call invokes the fetcher, turning a panic into an error
func (c *Controller[T]) call(ctx context.Context, req analysis.Descriptor) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorw("Fetcher panicked", "panic", r)
			err = errors.Wrapf(errors.ErrInternal, "fetcher panic: %v", r)
		}
	}()
	return c.fetch(ctx, req)
}

func (c *Controller[T]) complete(gen uint64, data T, err error) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if gen != c.generation || c.state.Phase != PhaseLoading {
		current := c.generation
		c.mu.Unlock()

		metrics.RecordStaleResponse(string(c.domain))
		c.log.Debugw("Discarding stale response",
			"generation", gen,
			"current_generation", current,
			"error", errors.ErrStaleResponse,
		)
		return
	}

	next := State[T]{
		Generation: gen,
		Request:    c.state.Request,
		UpdatedAt:  c.now(),
	}
	if err != nil {
		next.Phase = PhaseError
		next.Err = err
		next.ErrorMessage = errors.UserMessage(err)
	} else {
		next.Phase = PhaseSuccess
		next.Data = data
	}
	listeners := c.applyLocked(next)
	c.mu.Unlock()

	if err != nil {
		if errors.Is(err, errors.ErrNoResults) {
			c.log.Infow("Analysis returned no results", "generation", gen)
		} else {
			c.log.Warnw("Analysis request failed", "generation", gen, "error", err)
		}
	} else {
		c.log.Infow("Analysis completed", "generation", gen, "items", data.Len())
	}

	c.notify(listeners, next)
}

// applyLocked installs next, wakes waiters and returns the listeners to notify.
// c.mu must be held.
func (c *Controller[T]) applyLocked(next State[T]) []Listener[T] {
	c.state = next
	close(c.changed)
	c.changed = make(chan struct{})
	metrics.RecordPhase(string(c.domain), string(next.Phase))

	listeners := make([]Listener[T], len(c.listeners))
	copy(listeners, c.listeners)
	return listeners
}

func (c *Controller[T]) notify(listeners []Listener[T], st State[T]) {
	for _, fn := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Errorw("Fetch listener panicked", "panic", fmt.Sprint(r))
				}
			}()
			fn(st)
		}()
	}
}
