package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"factory-maintenance-backend/internal/model"
	"factory-maintenance-backend/internal/parse"
)

// Slot names of the persisted layout.
const (
	SlotSections  = "factory_sections"
	SlotMachines  = "factory_machines"
	SlotNotes     = "factory_notes"
	SlotSchedules = "factory_schedules"
	SlotEvents    = "factory_events"
	SlotSettings  = "factory_settings"
)

var allSlots = []string{SlotSections, SlotMachines, SlotNotes, SlotSchedules, SlotEvents, SlotSettings}

// ErrDuplicateCode is returned when a machine is saved with a code another machine already uses.
var ErrDuplicateCode = errors.New("machine code already in use")

// Store defines the interface for all entity persistence.
type Store interface {
	Sections() Repository[model.Section]
	Machines() Repository[model.Machine]
	Notes() Repository[model.Note]
	Schedules() Repository[model.MaintenanceSchedule]
	Events() EventLog

	Settings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error

	// Transaction runs fn against a Store whose writes commit together.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	Export(ctx context.Context) ([]byte, error)
	Clear(ctx context.Context) error
	LoadDemoData(ctx context.Context, now time.Time) (bool, error)
}

// EventLog is the append-only maintenance history.
type EventLog interface {
	All(ctx context.Context) ([]model.MaintenanceEvent, error)
	Get(ctx context.Context, id string) (*model.MaintenanceEvent, error)
	Filter(ctx context.Context, keep func(model.MaintenanceEvent) bool) ([]model.MaintenanceEvent, error)
	// Append records ev unless an event with the same id exists; it reports whether ev was added.
	Append(ctx context.Context, ev model.MaintenanceEvent) (bool, error)
}

// kvStore implements Store on top of a KV.
type kvStore struct {
	kv        KV
	sections  *Collection[model.Section]
	machines  *machineRepo
	notes     *Collection[model.Note]
	schedules *Collection[model.MaintenanceSchedule]
	events    *eventLog
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return New(NewGormKV(db))
}

// New creates a Store over any slot persistence.
func New(kv KV) Store {
	return &kvStore{
		kv:        kv,
		sections:  NewCollection[model.Section](kv, SlotSections),
		machines:  &machineRepo{Collection: NewCollection[model.Machine](kv, SlotMachines)},
		notes:     NewCollection[model.Note](kv, SlotNotes),
		schedules: NewCollection[model.MaintenanceSchedule](kv, SlotSchedules),
		events:    &eventLog{NewCollection[model.MaintenanceEvent](kv, SlotEvents)},
	}
}

func (s *kvStore) Sections() Repository[model.Section]              { return s.sections }
func (s *kvStore) Machines() Repository[model.Machine]              { return s.machines }
func (s *kvStore) Notes() Repository[model.Note]                    { return s.notes }
func (s *kvStore) Schedules() Repository[model.MaintenanceSchedule] { return s.schedules }
func (s *kvStore) Events() EventLog                                 { return s.events }

func (s *kvStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.kv.Transaction(ctx, func(tx KV) error {
		return fn(New(tx))
	})
}

func (s *kvStore) Settings(ctx context.Context) (model.Settings, error) {
	raw, ok, err := s.kv.Get(ctx, SlotSettings)
	if err != nil {
		return model.Settings{}, err
	}
	if !ok {
		return model.DefaultSettings(), nil
	}
	settings := model.DefaultSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		return model.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

func (s *kvStore) SaveSettings(ctx context.Context, settings model.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.kv.Put(ctx, SlotSettings, raw)
}

// Backup is the export document. Each field holds the raw contents of one slot.
type Backup struct {
	Sections  json.RawMessage `json:"sections"`
	Machines  json.RawMessage `json:"machines"`
	Notes     json.RawMessage `json:"notes"`
	Schedules json.RawMessage `json:"schedules"`
	Events    json.RawMessage `json:"events"`
}

// Export concatenates the collection slots into one JSON object. Slots that were never
// written export as null.
func (s *kvStore) Export(ctx context.Context) ([]byte, error) {
	var backup Backup
	targets := []struct {
		slot string
		dst  *json.RawMessage
	}{
		{SlotSections, &backup.Sections},
		{SlotMachines, &backup.Machines},
		{SlotNotes, &backup.Notes},
		{SlotSchedules, &backup.Schedules},
		{SlotEvents, &backup.Events},
	}
	for _, target := range targets {
		raw, ok, err := s.kv.Get(ctx, target.slot)
		if err != nil {
			return nil, err
		}
		if ok {
			*target.dst = json.RawMessage(raw)
		}
	}
	return json.Marshal(backup)
}

// Clear removes every slot, settings included.
func (s *kvStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, allSlots...)
}

// machineRepo enforces code uniqueness on top of the plain collection.
type machineRepo struct {
	*Collection[model.Machine]
}

func (r *machineRepo) Upsert(ctx context.Context, m model.Machine) error {
	if m.ID == "" {
		return ErrMissingID
	}
	code := parse.NormalizeCode(m.Code)
	machines, err := r.All(ctx)
	if err != nil {
		return err
	}
	for _, other := range machines {
		if other.ID != m.ID && parse.NormalizeCode(other.Code) == code {
			return fmt.Errorf("%w: %s (machine %s)", ErrDuplicateCode, m.Code, other.ID)
		}
	}
	return r.Collection.Upsert(ctx, m)
}

type eventLog struct {
	c *Collection[model.MaintenanceEvent]
}

func (l *eventLog) All(ctx context.Context) ([]model.MaintenanceEvent, error) {
	return l.c.All(ctx)
}

func (l *eventLog) Get(ctx context.Context, id string) (*model.MaintenanceEvent, error) {
	return l.c.Get(ctx, id)
}

func (l *eventLog) Filter(ctx context.Context, keep func(model.MaintenanceEvent) bool) ([]model.MaintenanceEvent, error) {
	return l.c.Filter(ctx, keep)
}

func (l *eventLog) Append(ctx context.Context, ev model.MaintenanceEvent) (bool, error) {
	if ev.ID == "" {
		return false, ErrMissingID
	}
	events, err := l.c.All(ctx)
	if err != nil {
		return false, err
	}
	for _, existing := range events {
		if existing.ID == ev.ID {
			return false, nil
		}
	}
	return true, l.c.save(ctx, append(events, ev))
}
