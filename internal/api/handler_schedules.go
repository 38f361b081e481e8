package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"factory-maintenance-backend/internal/maintenance"
	"factory-maintenance-backend/internal/model"
	"factory-maintenance-backend/internal/parse"
)

// GetMachineSchedules lists the schedules of a machine.
func (h *Handler) GetMachineSchedules(c *gin.Context) {
	schedules, err := h.svc.Schedules(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

type putScheduleRequest struct {
	ID           string           `json:"id"`
	MachineID    string           `json:"machineId"`
	Recurrence   model.Recurrence `json:"recurrence"`
	IntervalDays *int             `json:"intervalDays"`
	NextDueDate  string           `json:"nextDueDate"`
}

type scheduleResponse struct {
	Schedule model.MaintenanceSchedule `json:"schedule"`
	Warning  string                    `json:"warning,omitempty"`
}

// PutSchedule creates a schedule, or replaces it when the body carries an id.
func (h *Handler) PutSchedule(c *gin.Context) {
	var req putScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var due time.Time
	if req.NextDueDate != "" {
		var err error
		due, err = parse.DueDate(req.NextDueDate, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	res, err := h.svc.CreateOrUpdateSchedule(c.Request.Context(), maintenance.ScheduleInput{
		ID:           req.ID,
		MachineID:    req.MachineID,
		Recurrence:   req.Recurrence,
		IntervalDays: req.IntervalDays,
		NextDueDate:  due,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scheduleResponse{Schedule: res.Schedule, Warning: warning(res.ReminderErr)})
}

// DeleteSchedule removes a schedule and its reminder.
func (h *Handler) DeleteSchedule(c *gin.Context) {
	if err := h.svc.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type completeRequest struct {
	MachineID string `json:"machineId"`
	Notes     string `json:"notes"`
}

type completionResponse struct {
	Event           model.MaintenanceEvent    `json:"event"`
	Machine         model.Machine             `json:"machine"`
	Schedule        model.MaintenanceSchedule `json:"schedule"`
	AlreadyRecorded bool                      `json:"alreadyRecorded"`
	Warning         string                    `json:"warning,omitempty"`
}

// CompleteSchedule marks the maintenance of a schedule as done.
func (h *Handler) CompleteSchedule(c *gin.Context) {
	var req completeRequest
	// The body is optional.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	res, err := h.svc.CompleteMaintenance(c.Request.Context(), maintenance.CompleteInput{
		ScheduleID: c.Param("id"),
		MachineID:  req.MachineID,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, completionResponse{
		Event:           res.Event,
		Machine:         res.Machine,
		Schedule:        res.Schedule,
		AlreadyRecorded: res.AlreadyRecorded,
		Warning:         warning(res.ReminderErr),
	})
}

// GetOverdue splits all schedules into overdue and upcoming.
func (h *Handler) GetOverdue(c *gin.Context) {
	report, err := h.svc.Overdue(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
