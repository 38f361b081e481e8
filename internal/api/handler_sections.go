package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSections returns every section with its machine counts.
func (h *Handler) GetSections(c *gin.Context) {
	summaries, err := h.svc.SectionSummaries(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

type createSectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateSection adds a section.
func (h *Handler) CreateSection(c *gin.Context) {
	var req createSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	section, err := h.svc.CreateSection(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

// DeleteSection removes a section without touching its machines.
func (h *Handler) DeleteSection(c *gin.Context) {
	if err := h.svc.DeleteSection(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSectionMachines lists the machines of a section.
func (h *Handler) GetSectionMachines(c *gin.Context) {
	machines, err := h.svc.MachinesInSection(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, machines)
}
