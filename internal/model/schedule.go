package model

import "time"

// Recurrence is the rule governing how a schedule's due date advances.
type Recurrence string

const (
	RecurrenceDaily   Recurrence = "Daily"
	RecurrenceWeekly  Recurrence = "Weekly"
	RecurrenceMonthly Recurrence = "Monthly"
	RecurrenceCustom  Recurrence = "Custom"
)

// Valid reports whether r is a known recurrence rule.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceCustom:
		return true
	}
	return false
}

// MaintenanceSchedule is a recurring maintenance plan for one machine.
type MaintenanceSchedule struct {
	ID           string     `json:"id"`
	MachineID    string     `json:"machineId"`
	Recurrence   Recurrence `json:"recurrence"`
	IntervalDays *int       `json:"intervalDays,omitempty"` // Custom only
	NextDueDate  time.Time  `json:"nextDueDate"`
	// NotificationID is the reminder handle returned by the notification sink.
	NotificationID string    `json:"notificationId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s MaintenanceSchedule) RecordID() string { return s.ID }

// MaintenanceEvent records one completed maintenance. Events are append-only.
type MaintenanceEvent struct {
	ID          string    `json:"id"`
	MachineID   string    `json:"machineId"`
	CompletedAt time.Time `json:"completedAt"`
	Notes       string    `json:"notes,omitempty"`
}

func (e MaintenanceEvent) RecordID() string { return e.ID }
