package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-maintenance-backend/internal/model"
)

func TestPartitionOverdue(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	schedules := []model.MaintenanceSchedule{
		{ID: "past", NextDueDate: now.Add(-time.Second)},
		{ID: "exact", NextDueDate: now},
		{ID: "future", NextDueDate: now.Add(time.Second)},
		{ID: "long-ago", NextDueDate: now.AddDate(0, -1, 0)},
	}

	report := PartitionOverdue(schedules, now)

	var overdue, upcoming []string
	for _, s := range report.Overdue {
		overdue = append(overdue, s.ID)
	}
	for _, s := range report.Upcoming {
		upcoming = append(upcoming, s.ID)
	}
	assert.Equal(t, []string{"past", "long-ago"}, overdue)
	assert.Equal(t, []string{"exact", "future"}, upcoming)
}

func TestPartitionOverdue_Empty(t *testing.T) {
	report := PartitionOverdue(nil, time.Now())
	assert.NotNil(t, report.Overdue)
	assert.NotNil(t, report.Upcoming)
	assert.Empty(t, report.Overdue)
	assert.Empty(t, report.Upcoming)
}

func TestService_OverdueFollowsClock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, day(2024, 3, 1))
	_, err := f.svc.CreateOrUpdateSchedule(ctx, ScheduleInput{
		MachineID: f.machine.ID, Recurrence: model.RecurrenceWeekly, NextDueDate: day(2024, 3, 8),
	})
	require.NoError(t, err)

	report, err := f.svc.Overdue(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Overdue)
	assert.Len(t, report.Upcoming, 1)

	f.clock.t = day(2024, 3, 8).Add(time.Second)
	report, err = f.svc.Overdue(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Overdue, 1)
	assert.Empty(t, report.Upcoming)
}
