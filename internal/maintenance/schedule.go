package maintenance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"factory-maintenance-backend/internal/model"
)

// ScheduleInput describes a schedule to create, or to replace when ID is set.
type ScheduleInput struct {
	ID           string
	MachineID    string
	Recurrence   model.Recurrence
	IntervalDays *int
	NextDueDate  time.Time
}

// ScheduleResult is the stored schedule. ReminderErr is set when the schedule was saved
// but its reminder could not be registered.
type ScheduleResult struct {
	Schedule    model.MaintenanceSchedule
	ReminderErr error
}

func (in ScheduleInput) validate() error {
	if in.MachineID == "" {
		return fmt.Errorf("%w: machine id is required", ErrValidation)
	}
	if !in.Recurrence.Valid() {
		return fmt.Errorf("%w: unknown recurrence %q", ErrValidation, in.Recurrence)
	}
	if in.NextDueDate.IsZero() {
		return fmt.Errorf("%w: next due date is required", ErrValidation)
	}
	return nil
}

// CreateOrUpdateSchedule saves the schedule and replaces its reminder with one firing at
// the new due date.
func (s *Service) CreateOrUpdateSchedule(ctx context.Context, in ScheduleInput) (*ScheduleResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	machine, err := s.store.Machines().Get(ctx, in.MachineID)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, fmt.Errorf("%w: machine %s", ErrNotFound, in.MachineID)
	}

	sched := model.MaintenanceSchedule{
		ID:          in.ID,
		MachineID:   in.MachineID,
		Recurrence:  in.Recurrence,
		NextDueDate: in.NextDueDate,
		CreatedAt:   s.now().UTC(),
	}
	if in.Recurrence == model.RecurrenceCustom {
		sched.IntervalDays = in.IntervalDays
	}

	previousHandle := ""
	if sched.ID == "" {
		sched.ID = uuid.NewString()
	} else {
		previous, err := s.store.Schedules().Get(ctx, sched.ID)
		if err != nil {
			return nil, err
		}
		if previous != nil {
			sched.CreatedAt = previous.CreatedAt
			previousHandle = previous.NotificationID
		}
	}

	// The stored schedule never references the handle that is cancelled below.
	if err := s.store.Schedules().Upsert(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to save schedule %s: %w", sched.ID, err)
	}

	sched, reminderErr := s.replaceReminder(ctx, sched, *machine, previousHandle)
	if err := s.saveHandle(ctx, sched); err != nil {
		return nil, err
	}
	return &ScheduleResult{Schedule: sched, ReminderErr: reminderErr}, nil
}

// replaceReminder cancels previous and registers a new reminder at the schedule's due
// date. The returned schedule carries the new handle, or none when registration failed.
func (s *Service) replaceReminder(ctx context.Context, sched model.MaintenanceSchedule, machine model.Machine, previous string) (model.MaintenanceSchedule, error) {
	s.cancelReminder(ctx, sched.ID, previous)
	sched.NotificationID = ""

	handle, err := s.sink.ScheduleReminder(ctx, sched.ID, s.title, reminderBody(machine, sched), sched.NextDueDate)
	if err != nil {
		log.Printf("failed to register reminder for schedule %s: %v", sched.ID, err)
		return sched, fmt.Errorf("reminder not registered: %w", err)
	}
	sched.NotificationID = handle
	return sched, nil
}

// saveHandle stores the schedule with its reminder handle. When that fails the new
// reminder is cancelled so no reminder fires for a handle the store does not know.
func (s *Service) saveHandle(ctx context.Context, sched model.MaintenanceSchedule) error {
	if err := s.store.Schedules().Upsert(ctx, sched); err != nil {
		s.cancelReminder(ctx, sched.ID, sched.NotificationID)
		return fmt.Errorf("failed to save reminder handle for schedule %s: %w", sched.ID, err)
	}
	return nil
}

func reminderBody(machine model.Machine, sched model.MaintenanceSchedule) string {
	name := machine.Name
	if machine.Code != "" {
		name = fmt.Sprintf("%s (%s)", machine.Name, machine.Code)
	}
	return fmt.Sprintf("%s maintenance is due for %s", sched.Recurrence, name)
}

// Schedules lists the schedules of one machine in store order.
func (s *Service) Schedules(ctx context.Context, machineID string) ([]model.MaintenanceSchedule, error) {
	return s.store.Schedules().Filter(ctx, func(sched model.MaintenanceSchedule) bool {
		return sched.MachineID == machineID
	})
}

// DeleteSchedule removes a schedule and cancels its reminder.
func (s *Service) DeleteSchedule(ctx context.Context, id string) error {
	sched, err := s.store.Schedules().Get(ctx, id)
	if err != nil {
		return err
	}
	if sched == nil {
		return fmt.Errorf("%w: schedule %s", ErrNotFound, id)
	}
	if err := s.store.Schedules().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete schedule %s: %w", id, err)
	}
	s.cancelReminder(ctx, sched.ID, sched.NotificationID)
	return nil
}
