package maintenance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-maintenance-backend/config"
	"factory-maintenance-backend/internal/db"
	"factory-maintenance-backend/internal/model"
	"factory-maintenance-backend/internal/store"
)

type scheduledReminder struct {
	referenceID string
	body        string
	fireAt      time.Time
}

// fakeSink records reminder calls. Setting err makes ScheduleReminder fail.
type fakeSink struct {
	mu        sync.Mutex
	err       error
	next      int
	active    map[string]scheduledReminder
	cancelled []string
}

func newFakeSink() *fakeSink {
	return &fakeSink{active: map[string]scheduledReminder{}}
}

func (f *fakeSink) ScheduleReminder(ctx context.Context, referenceID, title, body string, fireAt time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.next++
	handle := fmt.Sprintf("h-%d", f.next)
	f.active[handle] = scheduledReminder{referenceID: referenceID, body: body, fireAt: fireAt}
	return handle, nil
}

func (f *fakeSink) CancelReminder(ctx context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, handle)
	f.cancelled = append(f.cancelled, handle)
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return store.NewGormStore(gormDB)
}

type fixture struct {
	store   store.Store
	sink    *fakeSink
	clock   *clock
	svc     *Service
	machine model.Machine
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{store: newTestStore(t), sink: newFakeSink(), clock: &clock{t: now}}
	f.svc = NewService(f.store, f.sink, WithClock(f.clock.now))

	ctx := context.Background()
	section, err := f.svc.CreateSection(ctx, "Electrical Department", "")
	require.NoError(t, err)
	machine, err := f.svc.CreateMachine(ctx, MachineInput{SectionID: section.ID, Name: "Generator A", Code: "gen-001"})
	require.NoError(t, err)
	f.machine = *machine
	return f
}

func assertSameInstant(t *testing.T, want, got time.Time) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func TestClearAll_CancelsRemindersAndRemovesData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, day(2024, 3, 1))

	res, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		MachineID: f.machine.ID, Recurrence: model.RecurrenceDaily, NextDueDate: day(2024, 3, 2),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.ClearAll(ctx))
	assert.Contains(t, f.sink.cancelled, res.Schedule.NotificationID)
	assert.Empty(t, f.sink.active)

	machines, err := f.store.Machines().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, machines)
}

func TestLoadDemoData_UsesClock(t *testing.T) {
	ctx := context.Background()
	now := day(2024, 5, 1)
	svc := NewService(newTestStore(t), newFakeSink(), WithClock(func() time.Time { return now }))

	loaded, err := svc.LoadDemoData(ctx)
	require.NoError(t, err)
	assert.True(t, loaded)

	machine, err := svc.Machine(ctx, "demo-machine-1")
	require.NoError(t, err)
	assertSameInstant(t, now, machine.CreatedAt)

	loaded, err = svc.LoadDemoData(ctx)
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestErrorsAreMatchable(t *testing.T) {
	wrapped := fmt.Errorf("%w: machine m1", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrValidation))
}
