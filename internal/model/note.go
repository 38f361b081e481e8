package model

import "time"

// NoteType is the kind of content a note carries.
type NoteType string

const (
	NoteText  NoteType = "text"
	NoteAudio NoteType = "audio"
	NoteImage NoteType = "image"
)

// Valid reports whether t is a known note type.
func (t NoteType) Valid() bool {
	return t == NoteText || t == NoteAudio || t == NoteImage
}

// Note is a free-form record attached to a machine. Content is the text itself or a
// URI/data URL for audio and image notes.
type Note struct {
	ID          string    `json:"id"`
	MachineID   string    `json:"machineId"`
	Type        NoteType  `json:"type"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (n Note) RecordID() string { return n.ID }
