// Package poll provides a small bounded-retry helper for conditions that
// settle over time, such as a push delivery recovering from a transient
// failure or a note's summary becoming ready. Callers supply a predicate
// and a budget; the helper stops at the first success, when the budget runs
// out, or when the context is cancelled.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBudgetExhausted is returned when the predicate never succeeded within
// the configured number of attempts.
var ErrBudgetExhausted = errors.New("poll budget exhausted")

// Predicate reports whether the awaited condition holds. Returning a non-nil
// error aborts the poll immediately.
type Predicate func(ctx context.Context) (bool, error)

// Config bounds a poll loop.
type Config struct {
	// Interval is the delay between attempts.
	Interval time.Duration

	// MaxAttempts is the total number of predicate evaluations.
	MaxAttempts int
}

// DefaultConfig matches the client-side summary poll: a handful of attempts
// spread over tens of seconds.
func DefaultConfig() Config {
	return Config{
		Interval:    5 * time.Second,
		MaxAttempts: 6,
	}
}

// Until evaluates the predicate up to cfg.MaxAttempts times, waiting
// cfg.Interval between attempts. The first attempt runs immediately. It
// returns nil as soon as the predicate reports true, ErrBudgetExhausted when
// every attempt reported false, the predicate's error if one occurs, or the
// context's error on cancellation.
func Until(ctx context.Context, cfg Config, fn Predicate) error {
	if cfg.MaxAttempts <= 0 {
		return fmt.Errorf("invalid poll config: max attempts must be positive, got %d", cfg.MaxAttempts)
	}
	if fn == nil {
		return errors.New("invalid poll config: predicate cannot be nil")
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		done, err := fn(ctx)
		if err != nil {
			return fmt.Errorf("poll attempt %d: %w", attempt, err)
		}
		if done {
			return nil
		}
		if attempt >= cfg.MaxAttempts {
			return ErrBudgetExhausted
		}

		timer.Reset(cfg.Interval)
	}
}
