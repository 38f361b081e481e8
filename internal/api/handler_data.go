package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetSettings returns the stored settings, or the defaults.
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.store.Settings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type putSettingsRequest struct {
	NotificationsEnabled *bool `json:"notificationsEnabled"`
	DarkMode             *bool `json:"darkMode"`
}

// PutSettings updates the user-facing settings. The demo flag is not writable.
func (h *Handler) PutSettings(c *gin.Context) {
	var req putSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	ctx := c.Request.Context()
	settings, err := h.store.Settings(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.DarkMode != nil {
		settings.DarkMode = *req.DarkMode
	}
	if err := h.store.SaveSettings(ctx, settings); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// LoadDemoData seeds the demo sections and machines once.
func (h *Handler) LoadDemoData(c *gin.Context) {
	loaded, err := h.svc.LoadDemoData(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loaded": loaded})
}

// ClearData removes all stored data and pending reminders.
func (h *Handler) ClearData(c *gin.Context) {
	if err := h.svc.ClearAll(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export returns the backup document as a download.
func (h *Handler) Export(c *gin.Context) {
	raw, err := h.store.Export(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	filename := fmt.Sprintf("factory-maintenance-backup-%s.json", time.Now().In(h.loc).Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/json", raw)
}
