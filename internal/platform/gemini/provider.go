package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/noteflow-api/internal/config"
	"github.com/phrazzld/noteflow-api/internal/summary"
	"google.golang.org/genai"
)

// summaryPrompt frames the summarization request. The model is asked for a
// short plain-text summary that can stand in for re-reading the note.
const summaryPrompt = `You are an excellent communication expert specializing in framing short crisp clear summaries out of a given knowledge piece.
Your task is to create a crystal clear, short and crisp summary from the given knowledge piece, in at most 40 words, to increase recall and retention.
When the summary is read back it should provide the whole context and the main learning crux, removing the need to revisit the note.
Here is the knowledge piece to summarize:

%s

Output format: just the short, clear, crisp, contextualized summary. No preamble, no markdown; use capitals for emphasis.`

// Provider implements summary.Provider for one Gemini model.
type Provider struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewProviders creates the ordered provider chain from configuration: one
// Provider per configured model name, all sharing a single Gemini client.
func NewProviders(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) ([]summary.Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if len(cfg.Models) == 0 {
		return nil, errors.New("at least one model name is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	providers := make([]summary.Provider, 0, len(cfg.Models))
	for _, model := range cfg.Models {
		providers = append(providers, &Provider{
			client: client,
			model:  model,
			logger: logger.With("component", "gemini_provider", "model", model),
		})
	}

	return providers, nil
}

// Name implements summary.Provider.
func (p *Provider) Name() string {
	return "gemini/" + p.model
}

// Summarize implements summary.Provider. It sends a single generation request
// to this provider's model; retries across models are the fallback chain's
// job, not this provider's.
func (p *Provider) Summarize(ctx context.Context, content string) (string, error) {
	if content == "" {
		return "", summary.ErrEmptyContent
	}

	prompt := fmt.Sprintf(summaryPrompt, content)

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", summary.ErrProviderFailed, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", summary.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", summary.ErrContentBlocked
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty text", summary.ErrInvalidResponse)
	}

	p.logger.Debug("summary generated",
		"content_length", len(content),
		"summary_length", len(text))

	return text, nil
}
