package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/noteflow-api/internal/fanout"
)

// fakeFanoutRunner implements FanoutRunner.
type fakeFanoutRunner struct {
	report *fanout.Report
	err    error
	last   *fanout.Report
}

func (f *fakeFanoutRunner) Run(_ context.Context) (*fanout.Report, error) {
	return f.report, f.err
}

func (f *fakeFanoutRunner) LastReport() (*fanout.Report, bool) {
	return f.last, f.last != nil
}

func discardSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotificationHandler_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns the delivery report", func(t *testing.T) {
		t.Parallel()

		report := &fanout.Report{
			TriggeredAt:       time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
			UsersProcessed:    4,
			NotificationsSent: 7,
		}
		h := NewNotificationHandler(&fakeFanoutRunner{report: report}, discardSlog())

		req := httptest.NewRequest(http.MethodPost, "/api/admin/notifications/run", nil)
		rec := httptest.NewRecorder()
		h.Run(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp fanout.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 4, resp.UsersProcessed)
		assert.Equal(t, 7, resp.NotificationsSent)
	})

	t.Run("maps overlapping run to 409", func(t *testing.T) {
		t.Parallel()

		h := NewNotificationHandler(
			&fakeFanoutRunner{err: fanout.ErrRunInProgress},
			discardSlog(),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/notifications/run", nil)
		rec := httptest.NewRecorder()
		h.Run(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("maps unexpected failure to 500", func(t *testing.T) {
		t.Parallel()

		h := NewNotificationHandler(
			&fakeFanoutRunner{err: errors.New("store unavailable")},
			discardSlog(),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/notifications/run", nil)
		rec := httptest.NewRecorder()
		h.Run(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestNotificationHandler_Status(t *testing.T) {
	t.Parallel()

	t.Run("returns last report", func(t *testing.T) {
		t.Parallel()

		h := NewNotificationHandler(
			&fakeFanoutRunner{last: &fanout.Report{UsersProcessed: 2}},
			discardSlog(),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/notifications/status", nil)
		rec := httptest.NewRecorder()
		h.Status(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp fanout.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.UsersProcessed)
	})

	t.Run("reports 404 before first run", func(t *testing.T) {
		t.Parallel()

		h := NewNotificationHandler(&fakeFanoutRunner{}, discardSlog())

		req := httptest.NewRequest(http.MethodGet, "/api/admin/notifications/status", nil)
		rec := httptest.NewRecorder()
		h.Status(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
