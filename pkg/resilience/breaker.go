package resilience

import (
	"errors"
	"sync"
	"time"
)

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
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker is a closed -> open -> half-open circuit breaker. After threshold
// consecutive failures it rejects calls for cooldown, then admits a single
// trial call whose outcome closes or reopens the circuit.
type Breaker struct {
	mu sync.Mutex

	state         State
	failures      int
	openedAt      time.Time
	trialInFlight bool

	threshold     int
	cooldown      time.Duration
	now           func() time.Time
	onStateChange func(from, to State)
}

type BreakerOption func(*Breaker)

func WithClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) {
		b.now = now
	}
}

func OnStateChange(fn func(from, to State)) BreakerOption {
	return func(b *Breaker) {
		b.onStateChange = fn
	}
}

func NewBreaker(threshold int, cooldown time.Duration, opts ...BreakerOption) (*Breaker, error) {
	b := &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.threshold <= 0 {
		return nil, errors.New("resilience.NewBreaker: threshold must be > 0")
	}
	if b.cooldown <= 0 {
		return nil, errors.New("resilience.NewBreaker: cooldown must be > 0")
	}
	return b, nil
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call may go out. It returns ErrCircuitOpen while
// the circuit is open or while a half-open trial is already running.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return ErrCircuitOpen
		}
		b.setState(StateHalfOpen)
		b.trialInFlight = true
		return nil
	case StateHalfOpen:
		if b.trialInFlight {
			return ErrCircuitOpen
		}
		b.trialInFlight = true
		return nil
	default:
		return nil
	}
}

func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.trialInFlight = false
	if b.state != StateClosed {
		b.setState(StateClosed)
	}
}

func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trialInFlight = false
	switch b.state {
	case StateHalfOpen:
		b.open()
	case StateClosed:
		b.failures++
		if b.failures >= b.threshold {
			b.open()
		}
	}
}

// Release ends a call that neither succeeded nor failed, such as one the
// caller cancelled, without moving the circuit.
func (b *Breaker) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trialInFlight = false
}

func (b *Breaker) open() {
	b.openedAt = b.now()
	b.failures = 0
	b.setState(StateOpen)
}

func (b *Breaker) setState(to State) {
	from := b.state
	b.state = to
	if b.onStateChange != nil && from != to {
		b.onStateChange(from, to)
	}
}
