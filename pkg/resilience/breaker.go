// Package resilience provides a circuit breaker for the upstream LLM API.
package resilience

import (
	"sync"
	"time"

	"ml-course-assistant/backend/pkg/logger"
)

// State is the breaker's current position.
type State string

const (
	// StateClosed lets requests through.
	StateClosed State = "closed"
	// StateOpen short-circuits requests until the retry window elapses.
	StateOpen State = "open"
	// StateHalfOpen lets a limited number of probe requests through.
	StateHalfOpen State = "half-open"
)

// BreakerConfig tunes the open/close thresholds.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// breaker.
	FailureThreshold int
	// SuccessThreshold is the number of half-open successes that closes it.
	SuccessThreshold int
	// RetryAfter is how long the breaker stays open before probing again.
	RetryAfter time.Duration
}

// DefaultBreakerConfig returns the thresholds used for the LLM upstream.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		RetryAfter:       30 * time.Second,
	}
}

// Breaker tracks consecutive upstream failures and short-circuits calls while
// the upstream looks unhealthy. Callers ask Allow before each request and
// report the outcome afterwards.
type Breaker struct {
	mu            sync.Mutex
	cfg           BreakerConfig
	state         State
	failures      int
	probeSuccess  int
	probeInFlight int
	retryAt       time.Time
	log           *logger.Logger
}

// NewBreaker creates a closed breaker.
func NewBreaker(cfg BreakerConfig, log *logger.Logger) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = DefaultBreakerConfig().SuccessThreshold
	}
	if cfg.RetryAfter <= 0 {
		cfg.RetryAfter = DefaultBreakerConfig().RetryAfter
	}
	return &Breaker{cfg: cfg, state: StateClosed, log: log}
}

// Allow reports whether a request may proceed. While open, the first call
// after the retry window moves the breaker to half-open and is let through as
// a probe.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Now().After(b.retryAt) {
			b.state = StateHalfOpen
			b.probeSuccess = 0
			b.probeInFlight = 1
			b.log.Info("circuit breaker half-open")
			return true
		}
		return false

	case StateHalfOpen:
		if b.probeInFlight < b.cfg.SuccessThreshold {
			b.probeInFlight++
			return true
		}
		return false
	}

	return false
}

// RecordSuccess notes a successful upstream call.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.probeSuccess++
		if b.probeSuccess >= b.cfg.SuccessThreshold {
			b.state = StateClosed
			b.failures = 0
			b.log.Info("circuit breaker closed")
		}
	}
}

// RecordFailure notes a failed upstream call. Enough consecutive failures, or
// any failure during a half-open probe, opens the breaker.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.open()
		}
	case StateHalfOpen:
		b.open()
	}
}

func (b *Breaker) open() {
	b.state = StateOpen
	b.retryAt = time.Now().Add(b.cfg.RetryAfter)
	b.log.Warn("circuit breaker opened",
		"consecutive_failures", b.failures,
		"retry_at", b.retryAt.Format(time.RFC3339),
	)
}

// State returns the breaker's current position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
