package summary

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// FallbackSummarizer tries an ordered list of providers until one succeeds.
// Each attempt is bounded by its own timeout; a timeout or provider failure
// advances to the next provider in the list. There is no same-provider retry:
// retrying a provider that just failed mostly burns latency budget while a
// sibling model is likely healthy.
type FallbackSummarizer struct {
	providers      []Provider
	attemptTimeout time.Duration
	logger         *slog.Logger
}

// NewFallbackSummarizer creates a fallback chain over the given providers,
// tried in order. attemptTimeout bounds each individual provider call.
func NewFallbackSummarizer(
	providers []Provider,
	attemptTimeout time.Duration,
	logger *slog.Logger,
) (*FallbackSummarizer, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if attemptTimeout <= 0 {
		attemptTimeout = 30 * time.Second
	}

	return &FallbackSummarizer{
		providers:      providers,
		attemptTimeout: attemptTimeout,
		logger:         logger.With("component", "fallback_summarizer"),
	}, nil
}

// Summarize implements the Summarizer interface. It returns the first
// successful provider result verbatim. If every provider fails, it returns an
// *ExhaustedError carrying the per-provider failure reasons. A cancelled
// parent context stops the chain early.
func (s *FallbackSummarizer) Summarize(ctx context.Context, content string) (string, error) {
	if content == "" {
		return "", ErrEmptyContent
	}

	failures := make([]ProviderFailure, 0, len(s.providers))

	for _, provider := range s.providers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		result, err := provider.Summarize(attemptCtx, content)
		cancel()

		if err == nil {
			s.logger.Info("summary generated",
				"provider", provider.Name(),
				"attempted_providers", len(failures)+1)
			return result, nil
		}

		s.logger.Warn("summarization provider failed, advancing to next",
			"provider", provider.Name(),
			"error", err)
		failures = append(failures, ProviderFailure{Provider: provider.Name(), Err: err})
	}

	s.logger.Error("all summarization providers failed",
		"provider_count", len(s.providers))
	return "", &ExhaustedError{Failures: failures}
}
