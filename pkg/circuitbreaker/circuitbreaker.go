// Package circuitbreaker stops calling a failing dependency for a while so
// callers fail fast instead of queueing behind timeouts.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without calling the dependency while the breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type Config struct {
	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold int
	// OpenTimeout is how long the breaker stays open before letting trial
	// calls through.
	OpenTimeout time.Duration
	// HalfOpenMaxCalls bounds concurrent trial calls.
	HalfOpenMaxCalls int
	// Tolerate reports errors that pass through without counting as
	// failures, such as a caller cancelling its own request.
	Tolerate func(error) bool
}

func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		OpenTimeout:      10 * time.Second,
		HalfOpenMaxCalls: 1,
	}
}

type Breaker struct {
	cfg Config
	now func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	trials   int
	openedAt time.Time
	onChange func(from, to State)
}

func New(cfg Config) *Breaker {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 1
	}
	if cfg.HalfOpenMaxCalls < 1 {
		cfg.HalfOpenMaxCalls = 1
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to be called after every transition.
func (b *Breaker) OnStateChange(fn func(from, to State)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Do runs fn through the breaker. fn's error is returned unchanged.
func (b *Breaker) Do(fn func() error) error {
	_, err := Call(b, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

// Call runs fn through b and returns its result.
func Call[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	if !b.acquire() {
		return zero, ErrOpen
	}

	v, err := fn()
	b.release(err)
	return v, err
}

func (b *Breaker) acquire() bool {
	b.mu.Lock()
	var from, to State
	changed := false
	defer func() {
		cb := b.onChange
		b.mu.Unlock()
		if changed && cb != nil {
			cb(from, to)
		}
	}()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return false
		}
		from, to, changed = b.state, StateHalfOpen, true
		b.state = StateHalfOpen
		b.trials = 1
		return true
	case StateHalfOpen:
		if b.trials >= b.cfg.HalfOpenMaxCalls {
			return false
		}
		b.trials++
		return true
	default:
		return true
	}
}

func (b *Breaker) release(err error) {
	b.mu.Lock()
	from := b.state
	failed := err != nil && (b.cfg.Tolerate == nil || !b.cfg.Tolerate(err))

	switch {
	case from == StateHalfOpen:
		b.trials--
		if failed {
			b.open()
		} else if err == nil {
			b.state = StateClosed
			b.failures = 0
		}
	case failed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.open()
		}
	case err == nil:
		b.failures = 0
	}

	to := b.state
	cb := b.onChange
	b.mu.Unlock()

	if from != to && cb != nil {
		cb(from, to)
	}
}

func (b *Breaker) open() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.failures = 0
	b.trials = 0
}
