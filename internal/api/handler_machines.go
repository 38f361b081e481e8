package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factory-maintenance-backend/internal/maintenance"
	"factory-maintenance-backend/internal/model"
)

type createMachineRequest struct {
	SectionID string             `json:"sectionId"`
	Name      string             `json:"name"`
	Code      string             `json:"code"`
	State     model.MachineState `json:"state"`
}

// CreateMachine adds a machine to a section.
func (h *Handler) CreateMachine(c *gin.Context) {
	var req createMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	machine, err := h.svc.CreateMachine(c.Request.Context(), maintenance.MachineInput{
		SectionID: req.SectionID,
		Name:      req.Name,
		Code:      req.Code,
		State:     req.State,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, machine)
}

// GetMachine returns one machine.
func (h *Handler) GetMachine(c *gin.Context) {
	machine, err := h.svc.Machine(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}

type putMachineStateRequest struct {
	State model.MachineState `json:"state" binding:"required"`
}

// PutMachineState changes a machine's operational state.
func (h *Handler) PutMachineState(c *gin.Context) {
	var req putMachineStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	machine, err := h.svc.SetMachineState(c.Request.Context(), c.Param("id"), req.State)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}

// GetMachineNotes lists the notes of a machine.
func (h *Handler) GetMachineNotes(c *gin.Context) {
	notes, err := h.svc.Notes(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

type createNoteRequest struct {
	Type        model.NoteType `json:"type"`
	Content     string         `json:"content"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
}

// CreateNote attaches a note to a machine.
func (h *Handler) CreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	note, err := h.svc.AddNote(c.Request.Context(), maintenance.NoteInput{
		MachineID:   c.Param("id"),
		Type:        req.Type,
		Content:     req.Content,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// DeleteNote removes a note.
func (h *Handler) DeleteNote(c *gin.Context) {
	if err := h.svc.DeleteNote(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMachineEvents returns the maintenance history of a machine.
func (h *Handler) GetMachineEvents(c *gin.Context) {
	events, err := h.svc.Events(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
