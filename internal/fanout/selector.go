package fanout

import (
	"time"

	"github.com/phrazzld/noteflow-api/internal/domain"
)

// SelectNote picks the note to deliver on the given date. The input slice
// must already be in the store's stable order, creation time ascending with
// the ID as tiebreak. Selection is a pure function of the date and the list:
// index = dayOfYear mod count. The second return is false when the user has
// no notes.
//
// There is deliberately no persisted cursor: invoking this any number of
// times on the same day yields the same note, which makes duplicate run
// triggers harmless.
func SelectNote(notes []*domain.Note, asOf time.Time) (*domain.Note, bool) {
	if len(notes) == 0 {
		return nil, false
	}
	idx := asOf.YearDay() % len(notes)
	return notes[idx], true
}
