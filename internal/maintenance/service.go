// Package maintenance implements the schedule lifecycle and the machine bookkeeping
// around it: creating schedules with reminders, completing maintenance, and deriving
// what is overdue.
package maintenance

import (
	"context"
	"errors"
	"log"
	"time"

	"factory-maintenance-backend/internal/store"
)

var (
	// ErrValidation is returned when a required field is missing or malformed. Nothing is written.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
)

const defaultReminderTitle = "Maintenance reminder"

// ReminderSink registers and cancels due-date reminders.
type ReminderSink interface {
	ScheduleReminder(ctx context.Context, referenceID, title, body string, fireAt time.Time) (string, error)
	CancelReminder(ctx context.Context, handle string) error
}

// Service coordinates the store and the reminder sink.
type Service struct {
	store store.Store
	sink  ReminderSink
	title string
	loc   *time.Location
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone in which due dates advance by calendar days and months.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithReminderTitle sets the title used for every reminder.
func WithReminderTitle(title string) Option {
	return func(s *Service) {
		if title != "" {
			s.title = title
		}
	}
}

// NewService creates a new maintenance service.
func NewService(st store.Store, sink ReminderSink, opts ...Option) *Service {
	s := &Service{
		store: st,
		sink:  sink,
		title: defaultReminderTitle,
		loc:   time.UTC,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadDemoData seeds the demo sections and machines unless that already happened.
func (s *Service) LoadDemoData(ctx context.Context) (bool, error) {
	return s.store.LoadDemoData(ctx, s.now().UTC())
}

// ClearAll cancels every registered reminder and removes all stored data.
func (s *Service) ClearAll(ctx context.Context) error {
	schedules, err := s.store.Schedules().All(ctx)
	if err != nil {
		return err
	}
	for _, sched := range schedules {
		s.cancelReminder(ctx, sched.ID, sched.NotificationID)
	}
	return s.store.Clear(ctx)
}

func (s *Service) cancelReminder(ctx context.Context, scheduleID, handle string) {
	if handle == "" {
		return
	}
	if err := s.sink.CancelReminder(ctx, handle); err != nil {
		log.Printf("failed to cancel reminder %s for schedule %s: %v", handle, scheduleID, err)
	}
}
