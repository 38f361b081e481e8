package model

import "time"

// MachineState is the operational state of a machine as shown on the floor.
type MachineState string

const (
	StateWorking          MachineState = "Working"
	StateStopped          MachineState = "Stopped"
	StateNeedsMaintenance MachineState = "Needs Maintenance"
)

// Valid reports whether s is one of the known machine states.
func (s MachineState) Valid() bool {
	switch s {
	case StateWorking, StateStopped, StateNeedsMaintenance:
		return true
	}
	return false
}

// Machine is a single piece of factory equipment.
type Machine struct {
	ID                  string       `json:"id"`
	SectionID           string       `json:"sectionId"`
	Name                string       `json:"name"`
	Code                string       `json:"code"`
	State               MachineState `json:"state"`
	LastMaintenanceDate *time.Time   `json:"lastMaintenanceDate,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
}

func (m Machine) RecordID() string { return m.ID }
