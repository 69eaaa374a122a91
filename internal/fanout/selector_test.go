package fanout

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/noteflow-api/internal/domain"
)

func notesInOrder(contents ...string) []*domain.Note {
	notes := make([]*domain.Note, len(contents))
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, c := range contents {
		notes[i] = &domain.Note{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			Content:   c,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return notes
}

func TestSelectNote_EmptyList(t *testing.T) {
	t.Parallel()

	note, ok := SelectNote(nil, time.Now())
	assert.False(t, ok)
	assert.Nil(t, note)
}

func TestSelectNote_DayOfYearRoundRobin(t *testing.T) {
	t.Parallel()

	notes := notesInOrder("A", "B", "C")

	// January 10th is day-of-year 10; 10 mod 3 = 1, the second note.
	day10 := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	note, ok := SelectNote(notes, day10)
	require.True(t, ok)
	assert.Equal(t, "B", note.Content)

	// Same day, same answer: re-triggering a run never shifts the pick.
	again, ok := SelectNote(notes, day10.Add(5*time.Hour))
	require.True(t, ok)
	assert.Equal(t, note.ID, again.ID)

	// The next day advances the cycle.
	day11 := day10.AddDate(0, 0, 1)
	next, ok := SelectNote(notes, day11)
	require.True(t, ok)
	assert.Equal(t, "C", next.Content)
}

func TestSelectNote_SingleNoteEveryDay(t *testing.T) {
	t.Parallel()

	notes := notesInOrder("only")
	for day := 1; day <= 5; day++ {
		asOf := time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
		note, ok := SelectNote(notes, asOf)
		require.True(t, ok)
		assert.Equal(t, "only", note.Content)
	}
}

func TestSelectNote_CyclesThroughAllNotes(t *testing.T) {
	t.Parallel()

	notes := notesInOrder("A", "B", "C", "D")
	seen := make(map[string]bool)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		note, ok := SelectNote(notes, start.AddDate(0, 0, i))
		require.True(t, ok)
		seen[note.Content] = true
	}
	assert.Len(t, seen, 4, "four consecutive days cover all four notes")
}
