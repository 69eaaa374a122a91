package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/noteflow-api/internal/api/shared"
	"github.com/phrazzld/noteflow-api/internal/fanout"
)

// FanoutRunner triggers daily notification fanout runs and exposes the most
// recent delivery report. Satisfied by *fanout.Scheduler.
type FanoutRunner interface {
	Run(ctx context.Context) (*fanout.Report, error)
	LastReport() (*fanout.Report, bool)
}

// NotificationHandler exposes the admin endpoints that trigger and inspect
// daily notification fanout runs.
type NotificationHandler struct {
	scheduler FanoutRunner
	logger    *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler with the given
// dependencies.
func NewNotificationHandler(scheduler FanoutRunner, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		scheduler: scheduler,
		logger:    logger.With("component", "notification_handler"),
	}
}

// Run handles POST /api/admin/notifications/run requests. The fanout runs
// synchronously and the full delivery report is returned; external cron is
// expected to call this once a day.
func (h *NotificationHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.scheduler.Run(r.Context())
	if err != nil {
		if errors.Is(err, fanout.ErrRunInProgress) {
			shared.RespondWithError(w, r, http.StatusConflict, "A notification run is already in progress")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	h.logger.Info("notification fanout completed",
		"users_processed", report.UsersProcessed,
		"notifications_sent", report.NotificationsSent,
		"send_failures", report.SendFailures,
		"subscriptions_pruned", report.SubscriptionsPruned,
	)

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// Status handles GET /api/admin/notifications/status requests, returning the
// report from the most recent fanout run.
func (h *NotificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	report, ok := h.scheduler.LastReport()
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "No notification run has completed yet")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}
