package fanout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/noteflow-api/internal/config"
	"github.com/phrazzld/noteflow-api/internal/domain"
	"github.com/phrazzld/noteflow-api/internal/push"
	"github.com/phrazzld/noteflow-api/internal/store"
)

// fakeNoteStore serves canned note lists per user.
type fakeNoteStore struct {
	notes  map[uuid.UUID][]*domain.Note
	errFor map[uuid.UUID]error
}

func (f *fakeNoteStore) Create(ctx context.Context, note *domain.Note) error { return nil }

func (f *fakeNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	return nil, store.ErrNoteNotFound
}

func (f *fakeNoteStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Note, error) {
	if err := f.errFor[userID]; err != nil {
		return nil, err
	}
	return f.notes[userID], nil
}

func (f *fakeNoteStore) Update(ctx context.Context, note *domain.Note) error { return nil }
func (f *fakeNoteStore) Delete(ctx context.Context, id uuid.UUID) error      { return nil }

func (f *fakeNoteStore) UpdateSummaryIfVersion(
	ctx context.Context,
	id uuid.UUID,
	summary *string,
	state domain.SummaryState,
	expectedVersion int64,
) error {
	return nil
}

func (f *fakeNoteStore) Search(
	ctx context.Context,
	userID uuid.UUID,
	query string,
) ([]*domain.Note, error) {
	return nil, nil
}

// fakeSubStore is an in-memory subscription registry.
type fakeSubStore struct {
	mu   sync.Mutex
	subs map[string]*domain.PushSubscription // endpoint -> sub
}

func newFakeSubStore(subs ...*domain.PushSubscription) *fakeSubStore {
	s := &fakeSubStore{subs: make(map[string]*domain.PushSubscription)}
	for _, sub := range subs {
		s.subs[sub.Endpoint] = sub
	}
	return s
}

func (f *fakeSubStore) Upsert(
	ctx context.Context,
	sub *domain.PushSubscription,
) (*domain.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[sub.Endpoint] = sub
	return sub, nil
}

func (f *fakeSubStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.PushSubscription
	for _, sub := range f.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *fakeSubStore) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, endpoint)
	return nil
}

func (f *fakeSubStore) ListUserIDsWithSubscriptions(ctx context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, sub := range f.subs {
		if !seen[sub.UserID] {
			seen[sub.UserID] = true
			out = append(out, sub.UserID)
		}
	}
	return out, nil
}

func (f *fakeSubStore) endpoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for ep := range f.subs {
		out = append(out, ep)
	}
	return out
}

// fakeSender replays scripted outcomes per endpoint and records every
// delivered message.
type fakeSender struct {
	mu       sync.Mutex
	outcomes map[string][]push.Outcome // consumed front to back
	calls    map[string]int
	bodies   []string
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		outcomes: make(map[string][]push.Outcome),
		calls:    make(map[string]int),
	}
}

func (f *fakeSender) script(endpoint string, outcomes ...push.Outcome) {
	f.outcomes[endpoint] = outcomes
}

func (f *fakeSender) Send(
	ctx context.Context,
	sub domain.PushSubscription,
	msg push.Message,
) (push.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[sub.Endpoint]++

	script := f.outcomes[sub.Endpoint]
	outcome := push.OutcomeDelivered
	if len(script) > 0 {
		outcome = script[0]
		f.outcomes[sub.Endpoint] = script[1:]
	}
	if outcome == push.OutcomeDelivered {
		f.bodies = append(f.bodies, msg.Body)
		return outcome, nil
	}
	return outcome, errors.New("push service error")
}

func subscription(userID uuid.UUID, endpoint string) *domain.PushSubscription {
	return &domain.PushSubscription{
		ID:        uuid.New(),
		UserID:    userID,
		Endpoint:  endpoint,
		P256dhKey: "p256dh",
		AuthKey:   "auth",
	}
}

func fanoutConfig() config.FanoutConfig {
	return config.FanoutConfig{
		UserConcurrency: 4,
		SendConcurrency: 4,
		SendRetries:     1,
		BaseURL:         "https://notes.example.com",
	}
}

func newTestScheduler(
	notes *fakeNoteStore,
	subs *fakeSubStore,
	sender *fakeSender,
) *Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewScheduler(notes, subs, sender, fanoutConfig(), logger)
	s.now = func() time.Time {
		return time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	}
	return s
}

func TestSchedulerRun_DeliversToEveryDevice(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	notes := &fakeNoteStore{notes: map[uuid.UUID][]*domain.Note{
		userID: notesInOrder("A", "B", "C"),
	}}
	subs := newFakeSubStore(
		subscription(userID, "https://push.example.com/laptop"),
		subscription(userID, "https://push.example.com/phone"),
	)
	sender := newFakeSender()

	sched := newTestScheduler(notes, subs, sender)
	report, err := sched.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.UsersProcessed)
	assert.Equal(t, 2, report.NotificationsSent)
	assert.Zero(t, report.SubscriptionsPruned)
	assert.Empty(t, report.UserErrors)

	// Day 10 of the year, three notes: index 1, note "B", on both devices.
	require.Len(t, sender.bodies, 2)
	assert.Equal(t, "B", sender.bodies[0])
	assert.Equal(t, "B", sender.bodies[1])
}

func TestSchedulerRun_ReportsDurationInMilliseconds(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	notes := &fakeNoteStore{notes: map[uuid.UUID][]*domain.Note{
		userID: notesInOrder("A"),
	}}
	subs := newFakeSubStore(subscription(userID, "https://push.example.com/laptop"))
	sender := newFakeSender()

	sched := newTestScheduler(notes, subs, sender)

	// The run starts on the first clock read and every later read lands
	// 1.5s after it.
	base := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	var reads int
	var mu sync.Mutex
	sched.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		reads++
		if reads == 1 {
			return base
		}
		return base.Add(1500 * time.Millisecond)
	}

	report, err := sched.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1500), report.DurationMillis)

	encoded, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"duration_ms":1500`)
}

func TestSchedulerRun_SameDayRunsPickSameNote(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	notes := &fakeNoteStore{notes: map[uuid.UUID][]*domain.Note{
		userID: notesInOrder("A", "B", "C"),
	}}
	subs := newFakeSubStore(subscription(userID, "https://push.example.com/d1"))
	sender := newFakeSender()
	sched := newTestScheduler(notes, subs, sender)

	_, err := sched.Run(context.Background())
	require.NoError(t, err)
	_, err = sched.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, sender.bodies, 2)
	assert.Equal(t, sender.bodies[0], sender.bodies[1])
}

func TestSchedulerRun_PrunesOnlyExpiredSubscription(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherID := uuid.New()
	notes := &fakeNoteStore{notes: map[uuid.UUID][]*domain.Note{
		userID:  notesInOrder("mine"),
		otherID: notesInOrder("theirs"),
	}}

	gone := subscription(userID, "https://push.example.com/gone")
	alive := subscription(userID, "https://push.example.com/alive")
	other := subscription(otherID, "https://push.example.com/other")
	subs := newFakeSubStore(gone, alive, other)

	sender := newFakeSender()
	sender.script(gone.Endpoint, push.OutcomeExpired)

	sched := newTestScheduler(notes, subs, sender)
	report, err := sched.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.UsersProcessed)
	assert.Equal(t, 2, report.NotificationsSent)
	assert.Equal(t, 1, report.SubscriptionsPruned)

	remaining := subs.endpoints()
	assert.Len(t, remaining, 2)
	assert.NotContains(t, remaining, gone.Endpoint)
	assert.Contains(t, remaining, alive.Endpoint)
	assert.Contains(t, remaining, other.Endpoint)
}

func TestSchedulerRun_UserFailureDoesNotAbortRun(t *testing.T) {
	t.Parallel()

	brokenID := uuid.New()
	healthyID := uuid.New()
	notes := &fakeNoteStore{
		notes:  map[uuid.UUID][]*domain.Note{healthyID: notesInOrder("ok")},
		errFor: map[uuid.UUID]error{brokenID: errors.New("db connection lost")},
	}
	subs := newFakeSubStore(
		subscription(brokenID, "https://push.example.com/broken"),
		subscription(healthyID, "https://push.example.com/healthy"),
	)
	sender := newFakeSender()

	sched := newTestScheduler(notes, subs, sender)
	report, err := sched.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.UsersProcessed)
	assert.Equal(t, 1, report.NotificationsSent)
	require.Contains(t, report.UserErrors, brokenID.String())
	assert.Contains(t, report.UserErrors[brokenID.String()], "db connection lost")
}

func TestSchedulerRun_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	notes := &fakeNoteStore{notes: map[uuid.UUID][]*domain.Note{
		userID: notesInOrder("note"),
	}}
	endpoint := "https://push.example.com/flaky"
	subs := newFakeSubStore(subscription(userID, endpoint))

	sender := newFakeSender()
	sender.script(endpoint, push.OutcomeTransient, push.OutcomeDelivered)

	sched := newTestScheduler(notes, subs, sender)
	report, err := sched.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.NotificationsSent)
	assert.Zero(t, report.SendFailures)
	assert.Equal(t, 2, sender.calls[endpoint])
}

func TestSchedulerRun_TransientFailureExhaustsRetryBudget(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	notes := &fakeNoteStore{notes: map[uuid.UUID][]*domain.Note{
		userID: notesInOrder("note"),
	}}
	endpoint := "https://push.example.com/down"
	subs := newFakeSubStore(subscription(userID, endpoint))

	sender := newFakeSender()
	sender.script(endpoint, push.OutcomeTransient, push.OutcomeTransient, push.OutcomeTransient)

	sched := newTestScheduler(notes, subs, sender)
	report, err := sched.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.NotificationsSent)
	assert.Equal(t, 1, report.SendFailures)
	// One initial attempt plus SendRetries=1 retry.
	assert.Equal(t, 2, sender.calls[endpoint])

	// A transient failure must never prune the subscription.
	assert.Contains(t, subs.endpoints(), endpoint)
}

func TestSchedulerRun_SkipsUserWithoutNotes(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	notes := &fakeNoteStore{notes: map[uuid.UUID][]*domain.Note{}}
	subs := newFakeSubStore(subscription(userID, "https://push.example.com/d"))
	sender := newFakeSender()

	sched := newTestScheduler(notes, subs, sender)
	report, err := sched.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.UsersProcessed)
	assert.Zero(t, report.NotificationsSent)
	assert.Zero(t, sender.calls["https://push.example.com/d"])
}

func TestScheduler_LastReport(t *testing.T) {
	t.Parallel()

	sched := newTestScheduler(
		&fakeNoteStore{notes: map[uuid.UUID][]*domain.Note{}},
		newFakeSubStore(),
		newFakeSender(),
	)

	_, ok := sched.LastReport()
	assert.False(t, ok, "no report before the first run")

	_, err := sched.Run(context.Background())
	require.NoError(t, err)

	report, ok := sched.LastReport()
	require.True(t, ok)
	assert.False(t, report.TriggeredAt.IsZero())
}

func TestScheduler_SendTest(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	notes := &fakeNoteStore{notes: map[uuid.UUID][]*domain.Note{}}
	sender := newFakeSender()

	t.Run("no subscriptions", func(t *testing.T) {
		sched := newTestScheduler(notes, newFakeSubStore(), sender)
		_, err := sched.SendTest(context.Background(), userID)
		assert.ErrorIs(t, err, ErrNoSubscriptions)
	})

	t.Run("delivers to all devices", func(t *testing.T) {
		subs := newFakeSubStore(
			subscription(userID, "https://push.example.com/t1"),
			subscription(userID, "https://push.example.com/t2"),
		)
		sched := newTestScheduler(notes, subs, newFakeSender())
		sent, err := sched.SendTest(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
	})

	t.Run("prunes expired device", func(t *testing.T) {
		dead := subscription(userID, "https://push.example.com/dead")
		subs := newFakeSubStore(dead)
		s := newFakeSender()
		s.script(dead.Endpoint, push.OutcomeExpired)

		sched := newTestScheduler(notes, subs, s)
		sent, err := sched.SendTest(context.Background(), userID)
		require.NoError(t, err)
		assert.Zero(t, sent)
		assert.Empty(t, subs.endpoints())
	})
}
