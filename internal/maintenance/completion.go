package maintenance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"factory-maintenance-backend/internal/model"
	"factory-maintenance-backend/internal/recurrence"
	"factory-maintenance-backend/internal/store"
)

// CompleteInput identifies the schedule whose maintenance was performed. MachineID is
// optional; when set it must match the schedule's machine.
type CompleteInput struct {
	ScheduleID string
	MachineID  string
	Notes      string
}

// CompletionResult reports the records written by a completion. AlreadyRecorded is true
// when the same completion had been committed before and nothing new was written.
type CompletionResult struct {
	Event           model.MaintenanceEvent
	Machine         model.Machine
	Schedule        model.MaintenanceSchedule
	AlreadyRecorded bool
	ReminderErr     error
}

// completionToken identifies one completion attempt. Repeated submissions within the
// same second produce the same token.
func completionToken(machineID, scheduleID string, at time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", machineID, scheduleID, at.Unix())))
	return hex.EncodeToString(sum[:16])
}

// CompleteMaintenance records a maintenance event, stamps the machine, advances the
// schedule from its previous due date, then re-registers the reminder. The three writes
// commit together; the reminder is registered afterwards.
func (s *Service) CompleteMaintenance(ctx context.Context, in CompleteInput) (*CompletionResult, error) {
	if in.ScheduleID == "" {
		return nil, fmt.Errorf("%w: schedule id is required", ErrValidation)
	}
	now := s.now().UTC()
	res := &CompletionResult{}
	previousHandle := ""

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		sched, err := tx.Schedules().Get(ctx, in.ScheduleID)
		if err != nil {
			return err
		}
		if sched == nil {
			return fmt.Errorf("%w: schedule %s", ErrNotFound, in.ScheduleID)
		}
		if in.MachineID != "" && in.MachineID != sched.MachineID {
			return fmt.Errorf("%w: schedule %s does not belong to machine %s", ErrValidation, sched.ID, in.MachineID)
		}
		machine, err := tx.Machines().Get(ctx, sched.MachineID)
		if err != nil {
			return err
		}
		if machine == nil {
			return fmt.Errorf("%w: machine %s", ErrNotFound, sched.MachineID)
		}

		event := model.MaintenanceEvent{
			ID:          completionToken(machine.ID, sched.ID, now),
			MachineID:   machine.ID,
			CompletedAt: now,
			Notes:       in.Notes,
		}
		added, err := tx.Events().Append(ctx, event)
		if err != nil {
			return fmt.Errorf("failed to record maintenance event: %w", err)
		}
		previousHandle = sched.NotificationID
		if !added {
			existing, err := tx.Events().Get(ctx, event.ID)
			if err != nil {
				return err
			}
			res.Event = *existing
			res.Machine = *machine
			res.Schedule = *sched
			res.AlreadyRecorded = true
			return nil
		}

		machine.LastMaintenanceDate = &now
		if machine.State == model.StateNeedsMaintenance {
			machine.State = model.StateWorking
		}
		if err := tx.Machines().Upsert(ctx, *machine); err != nil {
			return fmt.Errorf("failed to update machine %s: %w", machine.ID, err)
		}

		// Decoded due dates carry a fixed offset; advance them in the configured zone so a
		// calendar day keeps its wall-clock time across DST changes.
		sched.NextDueDate = recurrence.NextDueDate(*sched, sched.NextDueDate.In(s.loc))
		sched.NotificationID = ""
		if err := tx.Schedules().Upsert(ctx, *sched); err != nil {
			return fmt.Errorf("failed to advance schedule %s: %w", sched.ID, err)
		}

		res.Event = event
		res.Machine = *machine
		res.Schedule = *sched
		return nil
	})
	if err != nil {
		return nil, err
	}

	sched, reminderErr := s.replaceReminder(ctx, res.Schedule, res.Machine, previousHandle)
	if err := s.saveHandle(ctx, sched); err != nil {
		return nil, err
	}
	res.Schedule = sched
	res.ReminderErr = reminderErr
	return res, nil
}

// Events lists the maintenance history of one machine, oldest first.
func (s *Service) Events(ctx context.Context, machineID string) ([]model.MaintenanceEvent, error) {
	return s.store.Events().Filter(ctx, func(ev model.MaintenanceEvent) bool {
		return ev.MachineID == machineID
	})
}
