package summary

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the summary package
var (
	// ErrEmptyContent is returned when there is nothing to summarize.
	ErrEmptyContent = errors.New("content to summarize cannot be empty")

	// ErrNoProviders is returned when a fallback chain is constructed
	// without any providers.
	ErrNoProviders = errors.New("at least one provider is required")

	// ErrProviderFailed is the generic wrapper for a single provider's
	// failure within the chain.
	ErrProviderFailed = errors.New("summarization provider failed")

	// ErrContentBlocked is returned when a provider refuses the content
	// (e.g. safety filters). Treated like any other provider failure by the
	// chain: the next provider is tried.
	ErrContentBlocked = errors.New("content blocked by provider safety filters")

	// ErrInvalidResponse is returned when a provider's response is empty or
	// cannot be used.
	ErrInvalidResponse = errors.New("invalid response from provider")
)

// ProviderFailure records why one provider in the chain failed.
type ProviderFailure struct {
	Provider string
	Err      error
}

// ExhaustedError is returned when every provider in the fallback chain
// failed. It carries the per-provider failure reasons for diagnostics.
type ExhaustedError struct {
	Failures []ProviderFailure
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, fmt.Sprintf("%s: %v", f.Provider, f.Err))
	}
	return fmt.Sprintf("all %d summarization providers failed: %s",
		len(e.Failures), strings.Join(reasons, "; "))
}

// IsExhausted reports whether err is an exhausted-fallback error.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}
