package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"factory-maintenance-backend/internal/maintenance"
	"factory-maintenance-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     *maintenance.Service
	store   store.Store
	db      *gorm.DB
	webpush *webpush.Options
	loc     *time.Location
}

// NewHandler creates a new API handler. Dates without a time of day are read in loc.
func NewHandler(svc *maintenance.Service, s store.Store, db *gorm.DB, webpushOptions *webpush.Options, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		svc:     svc,
		store:   s,
		db:      db,
		webpush: webpushOptions,
		loc:     loc,
	}
}

// writeError maps domain errors to HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, maintenance.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, maintenance.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateCode):
		status = http.StatusConflict
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func warning(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
