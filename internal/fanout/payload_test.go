package fanout

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/noteflow-api/internal/domain"
)

func TestBuildMessage_UsesSummaryWhenReady(t *testing.T) {
	t.Parallel()

	summary := "Reminder to purchase milk."
	note := &domain.Note{
		ID:           uuid.New(),
		Content:      "Buy milk",
		Summary:      &summary,
		SummaryState: domain.SummaryStateReady,
	}

	msg := BuildMessage(note, "https://notes.example.com")
	assert.Equal(t, "Daily Note Reminder", msg.Title)
	assert.Equal(t, summary, msg.Body)
	assert.Equal(t, "https://notes.example.com/note/"+note.ID.String(), msg.URL)
}

func TestBuildMessage_FallsBackToContentPreview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		state   domain.SummaryState
		want    string
	}{
		{
			name:    "pending summary uses content",
			content: "Short note",
			state:   domain.SummaryStatePending,
			want:    "Short note",
		},
		{
			name:    "failed summary uses content",
			content: "Another note",
			state:   domain.SummaryStateFailed,
			want:    "Another note",
		},
		{
			name:    "long content truncated with ellipsis",
			content: strings.Repeat("x", 200),
			state:   domain.SummaryStatePending,
			want:    strings.Repeat("x", 120) + "...",
		},
		{
			name:    "exactly at the limit is untouched",
			content: strings.Repeat("y", 120),
			state:   domain.SummaryStatePending,
			want:    strings.Repeat("y", 120),
		},
		{
			name:    "multibyte content truncated on rune boundaries",
			content: strings.Repeat("ü", 130),
			state:   domain.SummaryStatePending,
			want:    strings.Repeat("ü", 120) + "...",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			note := &domain.Note{ID: uuid.New(), Content: tc.content, SummaryState: tc.state}
			msg := BuildMessage(note, "")
			assert.Equal(t, tc.want, msg.Body)
			assert.Equal(t, "/note/"+note.ID.String(), msg.URL)
		})
	}
}

func TestBuildMessage_TrimsTrailingSlashOnBaseURL(t *testing.T) {
	t.Parallel()

	note := &domain.Note{ID: uuid.New(), Content: "n", SummaryState: domain.SummaryStatePending}
	msg := BuildMessage(note, "https://notes.example.com/")
	assert.Equal(t, "https://notes.example.com/note/"+note.ID.String(), msg.URL)
}

func TestTestMessage(t *testing.T) {
	t.Parallel()

	msg := TestMessage("https://notes.example.com")
	assert.Equal(t, "Test Notification", msg.Title)
	assert.NotEmpty(t, msg.Body)
	assert.Equal(t, "https://notes.example.com/", msg.URL)
}
