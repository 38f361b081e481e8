package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"factory-maintenance-backend/internal/model"
	"factory-maintenance-backend/internal/parse"
)

// LoadDemoData seeds placeholder sections and machines on first run. It returns false
// without writing anything once the demo flag in settings is set. Demo machines whose
// code is already taken are skipped.
func (s *kvStore) LoadDemoData(ctx context.Context, now time.Time) (bool, error) {
	loaded := false
	err := s.Transaction(ctx, func(tx Store) error {
		settings, err := tx.Settings(ctx)
		if err != nil {
			return err
		}
		if settings.DemoDataLoaded {
			return nil
		}

		for _, section := range demoSections(now) {
			if err := tx.Sections().Upsert(ctx, section); err != nil {
				return fmt.Errorf("failed to seed section %s: %w", section.ID, err)
			}
		}
		existing, err := tx.Machines().All(ctx)
		if err != nil {
			return err
		}
		taken := make(map[string]bool, len(existing))
		for _, m := range existing {
			if code := parse.NormalizeCode(m.Code); code != "" {
				taken[code] = true
			}
		}

		for _, machine := range demoMachines(now) {
			if taken[parse.NormalizeCode(machine.Code)] {
				log.Printf("skipping demo machine %s: code %s is already in use", machine.ID, machine.Code)
				continue
			}
			if err := tx.Machines().Upsert(ctx, machine); err != nil {
				return fmt.Errorf("failed to seed machine %s: %w", machine.ID, err)
			}
		}

		settings.DemoDataLoaded = true
		if err := tx.SaveSettings(ctx, settings); err != nil {
			return err
		}
		loaded = true
		return nil
	})
	return loaded, err
}

func demoSections(now time.Time) []model.Section {
	return []model.Section{
		{ID: "demo-section-1", Name: "Electrical Department", Description: "Main electrical systems", CreatedAt: now},
		{ID: "demo-section-2", Name: "Public Health Department", Description: "Water and sanitation systems", CreatedAt: now},
	}
}

func demoMachines(now time.Time) []model.Machine {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)
	return []model.Machine{
		{ID: "demo-machine-1", SectionID: "demo-section-1", Name: "Generator A", Code: "GEN-001", State: model.StateWorking, LastMaintenanceDate: &weekAgo, CreatedAt: now},
		{ID: "demo-machine-2", SectionID: "demo-section-1", Name: "Transformer B", Code: "TRF-001", State: model.StateNeedsMaintenance, CreatedAt: now},
		{ID: "demo-machine-3", SectionID: "demo-section-1", Name: "Control Panel C", Code: "CTL-001", State: model.StateWorking, CreatedAt: now},
		{ID: "demo-machine-4", SectionID: "demo-section-2", Name: "Water Pump 1", Code: "PMP-001", State: model.StateWorking, LastMaintenanceDate: &twoWeeksAgo, CreatedAt: now},
		{ID: "demo-machine-5", SectionID: "demo-section-2", Name: "Filtration System", Code: "FLT-001", State: model.StateStopped, CreatedAt: now},
		{ID: "demo-machine-6", SectionID: "demo-section-2", Name: "Boiler Unit", Code: "BLR-001", State: model.StateWorking, CreatedAt: now},
	}
}
