package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-maintenance-backend/internal/model"
	"factory-maintenance-backend/internal/store"
)

func intPtr(n int) *int { return &n }

func TestCreateOrUpdateSchedule_Validation(t *testing.T) {
	f := newFixture(t, day(2024, 3, 1))

	testCases := []struct {
		name  string
		input ScheduleInput
		want  error
	}{
		{
			name:  "missing machine",
			input: ScheduleInput{Recurrence: model.RecurrenceWeekly, NextDueDate: day(2024, 3, 8)},
			want:  ErrValidation,
		},
		{
			name:  "missing due date",
			input: ScheduleInput{MachineID: f.machine.ID, Recurrence: model.RecurrenceWeekly},
			want:  ErrValidation,
		},
		{
			name:  "unknown recurrence",
			input: ScheduleInput{MachineID: f.machine.ID, Recurrence: "Yearly", NextDueDate: day(2024, 3, 8)},
			want:  ErrValidation,
		},
		{
			name:  "machine does not exist",
			input: ScheduleInput{MachineID: "ghost", Recurrence: model.RecurrenceWeekly, NextDueDate: day(2024, 3, 8)},
			want:  ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateOrUpdateSchedule(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	all, err := f.store.Schedules().All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.sink.active)
}

func TestCreateOrUpdateSchedule_CreatesWithReminder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, day(2024, 3, 1))

	res, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		MachineID:   f.machine.ID,
		Recurrence:  model.RecurrenceWeekly,
		NextDueDate: day(2024, 3, 8),
	})
	require.NoError(t, err)
	require.NoError(t, res.ReminderErr)

	assert.NotEmpty(t, res.Schedule.ID)
	assert.NotEmpty(t, res.Schedule.NotificationID)
	reminder := f.sink.active[res.Schedule.NotificationID]
	assert.Equal(t, res.Schedule.ID, reminder.referenceID)
	assertSameInstant(t, day(2024, 3, 8), reminder.fireAt)
	assert.Contains(t, reminder.body, "Generator A (GEN-001)")

	stored, err := f.store.Schedules().Get(ctx, res.Schedule.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, res.Schedule.NotificationID, stored.NotificationID)
}

func TestCreateOrUpdateSchedule_IntervalOnlyForCustom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, day(2024, 3, 1))

	res, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		MachineID: f.machine.ID, Recurrence: model.RecurrenceDaily, IntervalDays: intPtr(5), NextDueDate: day(2024, 3, 2),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Schedule.IntervalDays)

	res, err = f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		MachineID: f.machine.ID, Recurrence: model.RecurrenceCustom, IntervalDays: intPtr(5), NextDueDate: day(2024, 3, 2),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Schedule.IntervalDays)
	assert.Equal(t, 5, *res.Schedule.IntervalDays)
}

func TestCreateOrUpdateSchedule_UpdateReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, day(2024, 3, 1))

	first, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		MachineID: f.machine.ID, Recurrence: model.RecurrenceWeekly, NextDueDate: day(2024, 3, 8),
	})
	require.NoError(t, err)
	second, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		MachineID: f.machine.ID, Recurrence: model.RecurrenceDaily, NextDueDate: day(2024, 3, 9),
	})
	require.NoError(t, err)

	f.clock.t = day(2024, 3, 4)
	updated, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		ID:          first.Schedule.ID,
		MachineID:   f.machine.ID,
		Recurrence:  model.RecurrenceMonthly,
		NextDueDate: day(2024, 3, 31),
	})
	require.NoError(t, err)

	assertSameInstant(t, day(2024, 3, 1), updated.Schedule.CreatedAt)
	assert.Contains(t, f.sink.cancelled, first.Schedule.NotificationID)
	assert.NotContains(t, f.sink.active, first.Schedule.NotificationID)
	assert.Len(t, f.sink.active, 2)

	all, err := f.svc.Schedules(ctx, f.machine.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.Schedule.ID, all[0].ID)
	assert.Equal(t, model.RecurrenceMonthly, all[0].Recurrence)
	assert.Equal(t, second.Schedule.ID, all[1].ID)
}

func TestCreateOrUpdateSchedule_SinkFailureKeepsSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, day(2024, 3, 1))

	first, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		MachineID: f.machine.ID, Recurrence: model.RecurrenceWeekly, NextDueDate: day(2024, 3, 8),
	})
	require.NoError(t, err)

	f.sink.err = errors.New("notifications unavailable")
	res, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		ID: first.Schedule.ID, MachineID: f.machine.ID, Recurrence: model.RecurrenceWeekly, NextDueDate: day(2024, 3, 15),
	})
	require.NoError(t, err)
	assert.ErrorIs(t, res.ReminderErr, f.sink.err)
	assert.Empty(t, res.Schedule.NotificationID)

	stored, err := f.store.Schedules().Get(ctx, first.Schedule.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assertSameInstant(t, day(2024, 3, 15), stored.NextDueDate)
	assert.Empty(t, stored.NotificationID)
}

func TestDeleteSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, day(2024, 3, 1))

	res, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		MachineID: f.machine.ID, Recurrence: model.RecurrenceWeekly, NextDueDate: day(2024, 3, 8),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSchedule(ctx, res.Schedule.ID))
	assert.Empty(t, f.sink.active)

	stored, err := f.store.Schedules().Get(ctx, res.Schedule.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	assert.ErrorIs(t, f.svc.DeleteSchedule(ctx, res.Schedule.ID), ErrNotFound)
}

// handleRejectingStore fails every schedule write that carries a reminder handle.
type handleRejectingStore struct {
	store.Store
}

var errHandleWrite = errors.New("handle write failed")

func (s handleRejectingStore) Schedules() store.Repository[model.MaintenanceSchedule] {
	return handleRejectingSchedules{s.Store.Schedules()}
}

type handleRejectingSchedules struct {
	store.Repository[model.MaintenanceSchedule]
}

func (r handleRejectingSchedules) Upsert(ctx context.Context, sched model.MaintenanceSchedule) error {
	if sched.NotificationID != "" {
		return errHandleWrite
	}
	return r.Repository.Upsert(ctx, sched)
}

func TestCreateOrUpdateSchedule_UnsavedHandleIsCancelled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, day(2024, 3, 1))

	first, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		MachineID: f.machine.ID, Recurrence: model.RecurrenceWeekly, NextDueDate: day(2024, 3, 8),
	})
	require.NoError(t, err)

	svc := NewService(handleRejectingStore{f.store}, f.sink, WithClock(f.clock.now))
	_, err = svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		ID: first.Schedule.ID, MachineID: f.machine.ID, Recurrence: model.RecurrenceWeekly, NextDueDate: day(2024, 3, 15),
	})
	assert.ErrorIs(t, err, errHandleWrite)

	// Neither the old nor the new reminder is left registered, and the stored schedule
	// references no handle.
	assert.Empty(t, f.sink.active)
	stored, err := f.store.Schedules().Get(ctx, first.Schedule.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Empty(t, stored.NotificationID)
	assertSameInstant(t, day(2024, 3, 15), stored.NextDueDate)
}
