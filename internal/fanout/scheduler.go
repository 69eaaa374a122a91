package fanout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/noteflow-api/internal/config"
	"github.com/phrazzld/noteflow-api/internal/domain"
	"github.com/phrazzld/noteflow-api/internal/poll"
	"github.com/phrazzld/noteflow-api/internal/push"
	"github.com/phrazzld/noteflow-api/internal/store"
)

// Common errors
var (
	// ErrRunInProgress is returned when a run is triggered while another
	// run is still executing.
	ErrRunInProgress = errors.New("a fanout run is already in progress")

	// ErrNoSubscriptions is returned by SendTest when the user has no
	// registered devices.
	ErrNoSubscriptions = errors.New("user has no push subscriptions")
)

// retryBackoff is the delay between transient-failure retries.
const retryBackoff = 500 * time.Millisecond

// Scheduler executes the daily notification fanout. One run enumerates every
// user with at least one subscription, picks their note for the day, and
// delivers it to all their devices with bounded concurrency at both levels.
//
// A failure processing one user is contained to that user: it is counted in
// the report and the run moves on. Expired subscriptions reported by the
// push service are pruned from the registry during the run.
type Scheduler struct {
	notes  store.NoteStore
	subs   store.SubscriptionStore
	sender push.Sender
	cfg    config.FanoutConfig
	logger *slog.Logger

	// now is injectable so tests can pin the selection date.
	now func() time.Time

	mu         sync.Mutex
	running    bool
	lastReport *Report
}

// NewScheduler creates a fanout scheduler.
func NewScheduler(
	notes store.NoteStore,
	subs store.SubscriptionStore,
	sender push.Sender,
	cfg config.FanoutConfig,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		notes:  notes,
		subs:   subs,
		sender: sender,
		cfg:    cfg,
		logger: logger.With("component", "fanout_scheduler"),
		now:    time.Now,
	}
}

// Run executes one full fanout and returns its report. Only one run may be
// in flight at a time; concurrent triggers get ErrRunInProgress. Duplicate
// triggers on the same day are otherwise harmless because note selection is
// deterministic per day.
func (s *Scheduler) Run(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	started := s.now()
	s.logger.Info("starting fanout run")

	userIDs, err := s.subs.ListUserIDsWithSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate subscribed users: %w", err)
	}

	report := &Report{
		TriggeredAt: started,
		UserErrors:  make(map[string]string),
	}
	var reportMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.cfg.UserConcurrency)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			sent, pruned, failed, err := s.processUser(ctx, userID, started)

			reportMu.Lock()
			defer reportMu.Unlock()
			report.NotificationsSent += sent
			report.SubscriptionsPruned += pruned
			report.SendFailures += failed
			if err != nil {
				// Bulkhead: the error stays in the report, never fails
				// the run.
				report.UserErrors[userID.String()] = err.Error()
				s.logger.Error("failed to process user", "user_id", userID, "error", err)
				return nil
			}
			report.UsersProcessed++
			return nil
		})
	}

	_ = g.Wait()
	report.DurationMillis = s.now().Sub(started).Milliseconds()

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	s.logger.Info("fanout run completed",
		"users_processed", report.UsersProcessed,
		"notifications_sent", report.NotificationsSent,
		"send_failures", report.SendFailures,
		"subscriptions_pruned", report.SubscriptionsPruned,
		"user_errors", len(report.UserErrors),
		"duration_ms", report.DurationMillis)

	return report, nil
}

// LastReport returns the report of the most recent completed run, if any.
func (s *Scheduler) LastReport() (*Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastReport == nil {
		return nil, false
	}
	return s.lastReport, true
}

// SendTest delivers one synthetic notification to every device of a single
// user so they can verify their setup end to end. Expired devices are pruned
// the same way a daily run would prune them.
func (s *Scheduler) SendTest(ctx context.Context, userID uuid.UUID) (sent int, err error) {
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return 0, ErrNoSubscriptions
	}

	sent, _, _ = s.deliverToAll(ctx, subs, TestMessage(s.cfg.BaseURL))
	return sent, nil
}

// processUser runs the per-user slice of a fanout: select the day's note,
// compose the payload, deliver to every device.
func (s *Scheduler) processUser(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
) (sent, pruned, failed int, err error) {
	notes, err := s.notes.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to list notes: %w", err)
	}

	note, ok := SelectNote(notes, asOf)
	if !ok {
		s.logger.Debug("user has no notes, skipping", "user_id", userID)
		return 0, 0, 0, nil
	}

	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return 0, 0, 0, nil
	}

	msg := BuildMessage(note, s.cfg.BaseURL)
	sent, pruned, failed = s.deliverToAll(ctx, subs, msg)

	s.logger.Info("user fanout complete",
		"user_id", userID,
		"note_id", note.ID,
		"sent", sent,
		"pruned", pruned,
		"failed", failed)
	return sent, pruned, failed, nil
}

// deliverToAll sends the message to each subscription concurrently, retrying
// transient failures and pruning endpoints the push service reports as gone.
func (s *Scheduler) deliverToAll(
	ctx context.Context,
	subs []*domain.PushSubscription,
	msg push.Message,
) (sent, pruned, failed int) {
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.cfg.SendConcurrency)

	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			outcome := s.sendWithRetry(ctx, sub, msg)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case push.OutcomeDelivered:
				sent++
			case push.OutcomeExpired:
				if err := s.subs.DeleteByEndpoint(ctx, sub.Endpoint); err != nil {
					s.logger.Error("failed to prune expired subscription",
						"endpoint", sub.Endpoint, "error", err)
					failed++
					return nil
				}
				s.logger.Info("pruned expired subscription",
					"subscription_id", sub.ID, "user_id", sub.UserID)
				pruned++
			default:
				failed++
			}
			return nil
		})
	}

	_ = g.Wait()
	return sent, pruned, failed
}

// sendWithRetry attempts one delivery, retrying only transient outcomes up
// to the configured bound. Expired and rejected outcomes are settled on the
// first attempt.
func (s *Scheduler) sendWithRetry(
	ctx context.Context,
	sub *domain.PushSubscription,
	msg push.Message,
) push.Outcome {
	var outcome push.Outcome
	attempt := 0

	pollCfg := poll.Config{
		Interval:    retryBackoff,
		MaxAttempts: s.cfg.SendRetries + 1,
	}

	// The predicate never returns an error: every send failure maps to an
	// outcome, and only transient outcomes are worth another attempt.
	err := poll.Until(ctx, pollCfg, func(ctx context.Context) (bool, error) {
		attempt++
		var sendErr error
		outcome, sendErr = s.sender.Send(ctx, *sub, msg)
		if sendErr != nil {
			s.logger.Warn("push send failed",
				"subscription_id", sub.ID,
				"outcome", outcome,
				"attempt", attempt,
				"error", sendErr)
		}
		return outcome != push.OutcomeTransient, nil
	})
	if err != nil && !errors.Is(err, poll.ErrBudgetExhausted) {
		// Context cancelled between attempts; report the last outcome seen.
		return outcome
	}

	return outcome
}
