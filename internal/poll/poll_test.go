package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxAttempts int) Config {
	return Config{Interval: time.Millisecond, MaxAttempts: maxAttempts}
}

func TestUntil_SucceedsOnFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Until(context.Background(), fastConfig(3), func(ctx context.Context) (bool, error) {
		calls++
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestUntil_SucceedsAfterRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Until(context.Background(), fastConfig(5), func(ctx context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestUntil_ExhaustsBudget(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Until(context.Background(), fastConfig(4), func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})
	require.ErrorIs(t, err, ErrBudgetExhausted)
	assert.Equal(t, 4, calls, "every budgeted attempt runs before giving up")
}

func TestUntil_PredicateErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	err := Until(context.Background(), fastConfig(5), func(ctx context.Context) (bool, error) {
		calls++
		return false, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestUntil_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	err := Until(ctx, Config{Interval: time.Minute, MaxAttempts: 3}, func(ctx context.Context) (bool, error) {
		cancel()
		return false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestUntil_InvalidConfig(t *testing.T) {
	t.Parallel()

	err := Until(context.Background(), Config{Interval: time.Millisecond}, func(ctx context.Context) (bool, error) {
		return true, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max attempts")

	err = Until(context.Background(), fastConfig(1), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "predicate")
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Equal(t, 6, cfg.MaxAttempts)
}
