package model

import "time"

// Section groups machines, usually by department.
type Section struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s Section) RecordID() string { return s.ID }
