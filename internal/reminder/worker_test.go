package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type markedFlag struct {
	id   int64
	kind domain.ReminderKind
}

type fakeRepo struct {
	due     map[domain.ReminderKind][]*domain.UpcomingAppointment
	windows map[domain.ReminderKind][2]time.Time
	marked  []markedFlag
}

func (f *fakeRepo) ListDueReminders(ctx context.Context, kind domain.ReminderKind, from, to time.Time) ([]*domain.UpcomingAppointment, error) {
	if f.windows == nil {
		f.windows = make(map[domain.ReminderKind][2]time.Time)
	}
	f.windows[kind] = [2]time.Time{from, to}
	return f.due[kind], nil
}

func (f *fakeRepo) MarkReminded(ctx context.Context, id int64, kind domain.ReminderKind) error {
	f.marked = append(f.marked, markedFlag{id: id, kind: kind})
	return nil
}

type fakeNotifier struct {
	sendErr  error
	failFor  map[int64]error
	sent     []int64
	messages []string
}

func (f *fakeNotifier) Send(ctx context.Context, userID int64, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	if err, ok := f.failFor[userID]; ok {
		return err
	}
	f.sent = append(f.sent, userID)
	f.messages = append(f.messages, text)
	return nil
}

type fakeLock struct {
	held     bool
	acquired int
	released int
}

func (f *fakeLock) TryAcquire(ctx context.Context) (bool, error) {
	f.acquired++
	return !f.held, nil
}

func (f *fakeLock) Release(ctx context.Context) error {
	f.released++
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Debug(format string, v ...interface{}) {}
func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var now = time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)

func newTestWorker(repo *fakeRepo, notifier *fakeNotifier, lock *fakeLock) *Worker {
	w := NewWorker(repo, notifier, lock, Config{Interval: 10 * time.Second, Tolerance: 5 * time.Minute}, nopLogger{})
	w.timeProvider = &fixedTimeProvider{now: now}
	return w
}

func TestRunOnce_SendsAndMarksBothKinds(t *testing.T) {
	repo := &fakeRepo{
		due: map[domain.ReminderKind][]*domain.UpcomingAppointment{
			domain.Reminder24h: {
				{ID: 1, UserID: 501, StartsAt: now.Add(24 * time.Hour), MasterName: "Анна", ServiceName: "Стрижка"},
			},
			domain.Reminder1h: {
				{ID: 2, UserID: 502, StartsAt: now.Add(time.Hour), MasterName: "Анна", ServiceName: "Стрижка"},
			},
		},
	}
	notifier := &fakeNotifier{}
	lock := &fakeLock{}
	w := newTestWorker(repo, notifier, lock)

	w.RunOnce(context.Background())

	assert.Equal(t, []int64{501, 502}, notifier.sent)
	assert.Equal(t, []markedFlag{
		{id: 1, kind: domain.Reminder24h},
		{id: 2, kind: domain.Reminder1h},
	}, repo.marked)
	assert.Equal(t, 1, lock.acquired)
	assert.Equal(t, 1, lock.released)
}

func TestRunOnce_ScanWindows(t *testing.T) {
	repo := &fakeRepo{}
	w := newTestWorker(repo, &fakeNotifier{}, &fakeLock{})

	w.RunOnce(context.Background())

	want24 := [2]time.Time{now.Add(24 * time.Hour), now.Add(24*time.Hour + 5*time.Minute)}
	want1 := [2]time.Time{now.Add(time.Hour), now.Add(time.Hour + 5*time.Minute)}
	assert.Equal(t, want24, repo.windows[domain.Reminder24h])
	assert.Equal(t, want1, repo.windows[domain.Reminder1h])
}

func TestRunOnce_SendFailureLeavesFlagUnset(t *testing.T) {
	repo := &fakeRepo{
		due: map[domain.ReminderKind][]*domain.UpcomingAppointment{
			domain.Reminder1h: {
				{ID: 1, UserID: 501, StartsAt: now.Add(time.Hour)},
				{ID: 2, UserID: 502, StartsAt: now.Add(time.Hour)},
			},
		},
	}
	notifier := &fakeNotifier{
		failFor: map[int64]error{501: errors.New("telegram unavailable")},
	}
	w := newTestWorker(repo, notifier, &fakeLock{})

	w.RunOnce(context.Background())

	// Недоставленное напоминание не помечается и попадёт в следующий скан,
	// доставленное помечается
	require.Len(t, repo.marked, 1)
	assert.Equal(t, markedFlag{id: 2, kind: domain.Reminder1h}, repo.marked[0])
	assert.Equal(t, []int64{502}, notifier.sent)
}

func TestRunOnce_LockHeldSkipsScan(t *testing.T) {
	repo := &fakeRepo{
		due: map[domain.ReminderKind][]*domain.UpcomingAppointment{
			domain.Reminder1h: {{ID: 1, UserID: 501, StartsAt: now.Add(time.Hour)}},
		},
	}
	notifier := &fakeNotifier{}
	lock := &fakeLock{held: true}
	w := newTestWorker(repo, notifier, lock)

	w.RunOnce(context.Background())

	assert.Empty(t, notifier.sent)
	assert.Empty(t, repo.windows)
	assert.Equal(t, 0, lock.released)
}

func TestReminderText(t *testing.T) {
	appt := &domain.UpcomingAppointment{
		StartsAt:    time.Date(2025, 10, 15, 13, 0, 0, 0, time.UTC),
		MasterName:  "Анна",
		ServiceName: "Стрижка",
	}

	assert.Contains(t, reminderText(domain.Reminder24h, appt), "завтра в 13:00")
	assert.Contains(t, reminderText(domain.Reminder1h, appt), "Через час, в 13:00")
}
