package maintenance

import (
	"context"
	"time"

	"factory-maintenance-backend/internal/model"
)

// OverdueReport splits schedules by whether their due date has passed.
type OverdueReport struct {
	Overdue  []model.MaintenanceSchedule `json:"overdue"`
	Upcoming []model.MaintenanceSchedule `json:"upcoming"`
}

// PartitionOverdue puts every schedule due strictly before now into Overdue and the rest
// into Upcoming, keeping the input order. A schedule due exactly at now is not overdue.
func PartitionOverdue(schedules []model.MaintenanceSchedule, now time.Time) OverdueReport {
	report := OverdueReport{
		Overdue:  []model.MaintenanceSchedule{},
		Upcoming: []model.MaintenanceSchedule{},
	}
	for _, sched := range schedules {
		if sched.NextDueDate.Before(now) {
			report.Overdue = append(report.Overdue, sched)
		} else {
			report.Upcoming = append(report.Upcoming, sched)
		}
	}
	return report
}

// Overdue partitions every stored schedule against the current time.
func (s *Service) Overdue(ctx context.Context) (OverdueReport, error) {
	schedules, err := s.store.Schedules().All(ctx)
	if err != nil {
		return OverdueReport{}, err
	}
	return PartitionOverdue(schedules, s.now()), nil
}
