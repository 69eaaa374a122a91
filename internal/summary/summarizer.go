// Package summary defines the summarization boundary between the application
// core and external AI providers, and the fallback-chain policy layered on
// top of it.
package summary

import "context"

// Provider is a single summarization backend with a uniform contract.
// Implementations live under internal/platform and know nothing about notes,
// users or persistence.
type Provider interface {
	// Name identifies the provider in logs and failure reports.
	Name() string

	// Summarize produces a summary of the given content. The context carries
	// the per-attempt deadline; implementations must respect cancellation.
	Summarize(ctx context.Context, content string) (string, error)
}

// Summarizer is the contract the generation pipeline consumes.
type Summarizer interface {
	// Summarize returns the first successful provider result verbatim, or an
	// *ExhaustedError if every provider in the chain failed.
	Summarize(ctx context.Context, content string) (string, error)
}
