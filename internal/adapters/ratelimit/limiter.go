package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"sentiguard/pkg/errors"
)

// KeyGlobal is the limiter shared by every call to the analysis service
const KeyGlobal = "global"

// Limiter throttles calls to the analysis service
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// NewLimiter creates a limiter allowing requestsPerMinute calls per minute.
// Non-positive values disable limiting.
func NewLimiter(name string, requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1), name: name}
	}

	rps := float64(requestsPerMinute) / 60.0

	// Allow burst of 10% of per-minute limit
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    name,
	}
}

// Wait blocks until the limiter allows the request
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(err, "rate limiter %s", l.name)
	}
	return nil
}

// Allow checks if a request is allowed without blocking
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the limiter name
func (l *Limiter) Name() string {
	return l.name
}

// MultiLimiter combines a global limiter with per-domain limiters
type MultiLimiter struct {
	limiters map[string]*Limiter
	mu       sync.RWMutex
}

// NewMultiLimiter creates an empty multi-limiter
func NewMultiLimiter() *MultiLimiter {
	return &MultiLimiter{
		limiters: make(map[string]*Limiter),
	}
}

// AddLimiter adds a limiter for key, replacing any existing one
func (m *MultiLimiter) AddLimiter(key string, limiter *Limiter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[key] = limiter
}

// Wait waits on every limiter registered under keys. Unknown keys are ignored.
func (m *MultiLimiter) Wait(ctx context.Context, keys ...string) error {
	m.mu.RLock()
	selected := make([]*Limiter, 0, len(keys))
	for _, key := range keys {
		if limiter, ok := m.limiters[key]; ok {
			selected = append(selected, limiter)
		}
	}
	m.mu.RUnlock()

	for _, limiter := range selected {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// NewAnalysisLimiters builds the limiter set for the analysis service: one
// global budget plus an independent budget per domain
func NewAnalysisLimiters(globalPerMinute, perDomainPerMinute int, domains ...string) *MultiLimiter {
	m := NewMultiLimiter()
	m.AddLimiter(KeyGlobal, NewLimiter("analysis-global", globalPerMinute))
	for _, domain := range domains {
		m.AddLimiter(domain, NewLimiter("analysis-"+domain, perDomainPerMinute))
	}
	return m
}
