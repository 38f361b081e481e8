package maintenance

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"factory-maintenance-backend/internal/model"
	"factory-maintenance-backend/internal/parse"
)

// SectionSummary is a section with the machine counts shown on the dashboard.
type SectionSummary struct {
	model.Section
	MachineCount          int `json:"machineCount"`
	NeedsMaintenanceCount int `json:"needsMaintenanceCount"`
}

// SectionSummaries lists every section with its machine counts.
func (s *Service) SectionSummaries(ctx context.Context) ([]SectionSummary, error) {
	sections, err := s.store.Sections().All(ctx)
	if err != nil {
		return nil, err
	}
	machines, err := s.store.Machines().All(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]SectionSummary, len(sections))
	index := make(map[string]int, len(sections))
	for i, section := range sections {
		summaries[i] = SectionSummary{Section: section}
		index[section.ID] = i
	}
	for _, m := range machines {
		i, ok := index[m.SectionID]
		if !ok {
			continue
		}
		summaries[i].MachineCount++
		if m.State == model.StateNeedsMaintenance {
			summaries[i].NeedsMaintenanceCount++
		}
	}
	return summaries, nil
}

// CreateSection stores a new section.
func (s *Service) CreateSection(ctx context.Context, name, description string) (*model.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: section name is required", ErrValidation)
	}
	section := model.Section{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Sections().Upsert(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to save section: %w", err)
	}
	return &section, nil
}

// DeleteSection removes a section. Its machines are left in place.
func (s *Service) DeleteSection(ctx context.Context, id string) error {
	section, err := s.store.Sections().Get(ctx, id)
	if err != nil {
		return err
	}
	if section == nil {
		return fmt.Errorf("%w: section %s", ErrNotFound, id)
	}
	return s.store.Sections().Delete(ctx, id)
}

// MachineInput describes a machine to create.
type MachineInput struct {
	SectionID string
	Name      string
	Code      string
	State     model.MachineState
}

// CreateMachine stores a new machine with its code normalized. A code already used by
// another machine fails with store.ErrDuplicateCode.
func (s *Service) CreateMachine(ctx context.Context, in MachineInput) (*model.Machine, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Code) == "" || in.SectionID == "" {
		return nil, fmt.Errorf("%w: name, code and section are required", ErrValidation)
	}
	state := in.State
	if state == "" {
		state = model.StateWorking
	}
	if !state.Valid() {
		return nil, fmt.Errorf("%w: unknown machine state %q", ErrValidation, state)
	}

	section, err := s.store.Sections().Get(ctx, in.SectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, fmt.Errorf("%w: section %s", ErrNotFound, in.SectionID)
	}

	machine := model.Machine{
		ID:        uuid.NewString(),
		SectionID: in.SectionID,
		Name:      name,
		Code:      parse.NormalizeCode(in.Code),
		State:     state,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Machines().Upsert(ctx, machine); err != nil {
		return nil, fmt.Errorf("failed to save machine: %w", err)
	}
	return &machine, nil
}

// Machine returns a machine or ErrNotFound.
func (s *Service) Machine(ctx context.Context, id string) (*model.Machine, error) {
	machine, err := s.store.Machines().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, fmt.Errorf("%w: machine %s", ErrNotFound, id)
	}
	return machine, nil
}

// MachinesInSection lists the machines of one section in store order.
func (s *Service) MachinesInSection(ctx context.Context, sectionID string) ([]model.Machine, error) {
	return s.store.Machines().Filter(ctx, func(m model.Machine) bool {
		return m.SectionID == sectionID
	})
}

// SetMachineState changes the operational state of a machine.
func (s *Service) SetMachineState(ctx context.Context, id string, state model.MachineState) (*model.Machine, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("%w: unknown machine state %q", ErrValidation, state)
	}
	machine, err := s.Machine(ctx, id)
	if err != nil {
		return nil, err
	}
	machine.State = state
	if err := s.store.Machines().Upsert(ctx, *machine); err != nil {
		return nil, fmt.Errorf("failed to update machine %s: %w", id, err)
	}
	return machine, nil
}

// NoteInput describes a note to attach to a machine.
type NoteInput struct {
	MachineID   string
	Type        model.NoteType
	Content     string
	Description string
	Tags        []string
}

// AddNote attaches a note to an existing machine.
func (s *Service) AddNote(ctx context.Context, in NoteInput) (*model.Note, error) {
	if in.MachineID == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: machine and content are required", ErrValidation)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown note type %q", ErrValidation, in.Type)
	}
	if _, err := s.Machine(ctx, in.MachineID); err != nil {
		return nil, err
	}

	note := model.Note{
		ID:          uuid.NewString(),
		MachineID:   in.MachineID,
		Type:        in.Type,
		Content:     in.Content,
		Description: strings.TrimSpace(in.Description),
		Tags:        cleanTags(in.Tags),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Notes().Upsert(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	return &note, nil
}

func cleanTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// Notes lists the notes of one machine in store order.
func (s *Service) Notes(ctx context.Context, machineID string) ([]model.Note, error) {
	return s.store.Notes().Filter(ctx, func(n model.Note) bool {
		return n.MachineID == machineID
	})
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	note, err := s.store.Notes().Get(ctx, id)
	if err != nil {
		return err
	}
	if note == nil {
		return fmt.Errorf("%w: note %s", ErrNotFound, id)
	}
	return s.store.Notes().Delete(ctx, id)
}
