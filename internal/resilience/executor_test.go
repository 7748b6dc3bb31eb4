package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idreview/internal/resilience"
)

var errTransient = errors.New("transient")

func fastPolicy() resilience.Policy {
	p := resilience.DefaultPolicy()
	p.InitialBackoff = time.Millisecond
	p.MaxBackoff = time.Millisecond
	return p
}

func retryTransient(err error) resilience.Verdict {
	return resilience.Verdict{Retry: errors.Is(err, errTransient), RecordFailure: true}
}

func TestExecutor_RetriesRetryableOperation(t *testing.T) {
	exec := resilience.NewExecutor(fastPolicy())
	calls := 0

	err := exec.Do(context.Background(), "list", true, func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, retryTransient)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecutor_NonRetryableOperationRunsOnce(t *testing.T) {
	exec := resilience.NewExecutor(fastPolicy())
	calls := 0

	err := exec.Do(context.Background(), "classify", false, func(context.Context) error {
		calls++
		return errTransient
	}, retryTransient)

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestExecutor_StopsOnPermanentError(t *testing.T) {
	exec := resilience.NewExecutor(fastPolicy())
	permanent := errors.New("bad request")
	calls := 0

	err := exec.Do(context.Background(), "update", true, func(context.Context) error {
		calls++
		return permanent
	}, retryTransient)

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestExecutor_BreakerOpens(t *testing.T) {
	p := fastPolicy()
	p.MaxAttempts = 1
	p.BreakerMinRequests = 2
	p.BreakerFailureRatio = 0.5
	p.BreakerOpenTimeout = time.Minute
	exec := resilience.NewExecutor(p)

	fail := func(context.Context) error { return errTransient }
	_ = exec.Do(context.Background(), "list", true, fail, retryTransient)
	_ = exec.Do(context.Background(), "list", true, fail, retryTransient)

	calls := 0
	err := exec.Do(context.Background(), "list", true, func(context.Context) error {
		calls++
		return nil
	}, retryTransient)

	assert.True(t, resilience.IsCircuitOpen(err))
	assert.Equal(t, 0, calls)
}

func TestExecutor_CanceledContext(t *testing.T) {
	exec := resilience.NewExecutor(fastPolicy())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := exec.Do(ctx, "list", true, func(context.Context) error {
		t.Fatal("fn must not run")
		return nil
	}, retryTransient)

	assert.ErrorIs(t, err, context.Canceled)
}
