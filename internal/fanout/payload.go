package fanout

import (
	"fmt"
	"strings"

	"github.com/phrazzld/noteflow-api/internal/domain"
	"github.com/phrazzld/noteflow-api/internal/push"
)

const (
	dailyTitle = "Daily Note Reminder"
	testTitle  = "Test Notification"

	// previewLimit bounds the notification body when no summary exists.
	previewLimit = 120
)

// BuildMessage composes the push payload for a note: the AI summary when one
// is ready, otherwise a truncated content preview, plus a deep link into the
// app. baseURL may be empty, in which case the link is app-relative.
func BuildMessage(note *domain.Note, baseURL string) push.Message {
	body := contentPreview(note.Content)
	if note.SummaryState == domain.SummaryStateReady && note.Summary != nil {
		body = *note.Summary
	}

	return push.Message{
		Title: dailyTitle,
		Body:  body,
		URL:   fmt.Sprintf("%s/note/%s", strings.TrimSuffix(baseURL, "/"), note.ID),
	}
}

// TestMessage is the synthetic payload used by the send-test operation.
func TestMessage(baseURL string) push.Message {
	return push.Message{
		Title: testTitle,
		Body:  "Push notifications are working for this device.",
		URL:   strings.TrimSuffix(baseURL, "/") + "/",
	}
}

func contentPreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit]) + "..."
}
