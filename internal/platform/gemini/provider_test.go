package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/noteflow-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewProviders(t *testing.T) {
	t.Parallel()

	t.Run("one provider per model, in order", func(t *testing.T) {
		t.Parallel()

		providers, err := NewProviders(context.Background(), testLogger(), config.LLMConfig{
			GeminiAPIKey: "test-key",
			Models:       []string{"gemini-2.5-flash", "gemini-2.5-pro"},
		})

		require.NoError(t, err)
		require.Len(t, providers, 2)
		assert.Equal(t, "gemini/gemini-2.5-flash", providers[0].Name())
		assert.Equal(t, "gemini/gemini-2.5-pro", providers[1].Name())
	})

	t.Run("missing API key", func(t *testing.T) {
		t.Parallel()

		_, err := NewProviders(context.Background(), testLogger(), config.LLMConfig{
			Models: []string{"gemini-2.5-flash"},
		})
		assert.Error(t, err)
	})

	t.Run("missing models", func(t *testing.T) {
		t.Parallel()

		_, err := NewProviders(context.Background(), testLogger(), config.LLMConfig{
			GeminiAPIKey: "test-key",
		})
		assert.Error(t, err)
	})

	t.Run("nil logger", func(t *testing.T) {
		t.Parallel()

		_, err := NewProviders(context.Background(), nil, config.LLMConfig{
			GeminiAPIKey: "test-key",
			Models:       []string{"gemini-2.5-flash"},
		})
		assert.Error(t, err)
	})
}
