package resilience

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict says how a failed attempt should be treated.
type Verdict struct {
	Retry         bool
	RecordFailure bool
}

// Classifier maps an error to a Verdict.
type Classifier func(err error) Verdict

// Executor runs operations through a lazily created breaker per operation name.
type Executor struct {
	policy Policy

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

// NewExecutor creates an Executor with a normalized copy of p.
func NewExecutor(p Policy) *Executor {
	return &Executor{
		policy:   p.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

// Do runs fn. When retryable is false fn runs once regardless of the classifier's verdict.
func (e *Executor) Do(ctx context.Context, operation string, retryable bool, fn func(context.Context) error, classify Classifier) error {
	if classify == nil {
		classify = recordAll
	}
	attempts := 1
	if retryable {
		attempts = e.policy.MaxAttempts
	}
	if !e.policy.BreakerEnabled {
		return e.retry(ctx, operation, attempts, fn, classify)
	}
	cb := e.breaker(operation, classify)
	_, err := cb.Execute(func() (any, error) {
		return nil, e.retry(ctx, operation, attempts, fn, classify)
	})
	return err
}

func (e *Executor) retry(ctx context.Context, operation string, attempts int, fn func(context.Context) error, classify Classifier) error {
	backoff := e.policy.InitialBackoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return err
			}
			return ctxErr
		}
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt == attempts || !classify(err).Retry {
			return err
		}

		wait := min(backoff, e.policy.MaxBackoff)
		log.Printf("resilience.Executor: %s attempt %d/%d failed, retrying in %s: %v",
			operation, attempt, attempts, wait, err)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return err
			case <-timer.C:
			}
		}
		backoff = time.Duration(float64(backoff) * e.policy.Multiplier)
	}
	return err
}

func (e *Executor) breaker(operation string, classify Classifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cb, ok := e.breakers[operation]; ok {
		return cb
	}
	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.policy.BreakerHalfOpenMax,
		Timeout:     e.policy.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.policy.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= e.policy.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !classify(err).RecordFailure
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("resilience.Executor: breaker %s %s -> %s", name, from, to)
		},
	}
	cb := gobreaker.NewCircuitBreaker[any](settings)
	e.breakers[operation] = cb
	return cb
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func recordAll(error) Verdict {
	return Verdict{Retry: false, RecordFailure: true}
}
