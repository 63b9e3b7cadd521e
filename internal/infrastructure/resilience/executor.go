package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict is a classifier's judgment of one failure: whether the call
// may be retried, and whether the breaker should count it. Context
// cancellations are typically neither.
type Verdict struct {
	Retry  bool
	Record bool
}

// Classifier maps an upstream error to its Verdict. A nil classifier
// treats every error as final and breaker-worthy.
type Classifier func(err error) Verdict

// Executor runs upstream calls under retry with exponential delay and a
// per-operation circuit breaker. The ollama and NATS clients share one
// executor so a dead upstream trips exactly one breaker, keyed by
// operation name ("ollama.embed", "nats.publish", ...).
type Executor struct {
	policy Policy

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(policy Policy) *Executor {
	return &Executor{
		policy:   policy.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

func (e *Executor) Execute(ctx context.Context, op string, call func(context.Context) error, classify Classifier) error {
	if call == nil {
		return fmt.Errorf("resilience: nil call for %q", op)
	}
	if op = strings.TrimSpace(op); op == "" {
		op = "unnamed"
	}
	if classify == nil {
		classify = func(error) Verdict { return Verdict{Record: true} }
	}

	if !e.policy.BreakerEnabled {
		return e.attempt(ctx, op, call, classify)
	}
	_, err := e.breaker(op, classify).Execute(func() (any, error) {
		return nil, e.attempt(ctx, op, call, classify)
	})
	return err
}

func (e *Executor) attempt(ctx context.Context, op string, call func(context.Context) error, classify Classifier) error {
	delay := e.policy.InitialDelay
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := call(ctx)
		if err == nil {
			return nil
		}
		if !classify(err).Retry || n == e.policy.MaxAttempts {
			return err
		}

		slog.Warn("upstream_retry",
			"op", op,
			"attempt", n,
			"of", e.policy.MaxAttempts,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * e.policy.DelayFactor)
		if delay > e.policy.MaxDelay {
			delay = e.policy.MaxDelay
		}
	}
}

func (e *Executor) breaker(op string, classify Classifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.breakers[op]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        op,
		MaxRequests: e.policy.BreakerProbes,
		Timeout:     e.policy.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= e.policy.BreakerMinSamples &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= e.policy.BreakerTripRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !classify(err).Record
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("upstream_breaker", "op", name, "from", from.String(), "to", to.String())
		},
	})
	e.breakers[op] = b
	return b
}

// IsCircuitOpen reports whether err means the breaker refused the call
// without reaching the upstream at all.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
