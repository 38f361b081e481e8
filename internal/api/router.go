package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"factory-maintenance-backend/config"
	"factory-maintenance-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(mw.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))

	ttl := time.Duration(max(cfg.CacheTTLSeconds, 0)) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Invalidate(cacheStore))
	{
		api.GET("/sections", caching, handler.GetSections)
		api.POST("/sections", handler.CreateSection)
		api.DELETE("/sections/:id", handler.DeleteSection)
		api.GET("/sections/:id/machines", caching, handler.GetSectionMachines)

		api.POST("/machines", handler.CreateMachine)
		api.GET("/machines/:id", caching, handler.GetMachine)
		api.PUT("/machines/:id/state", handler.PutMachineState)
		api.GET("/machines/:id/notes", caching, handler.GetMachineNotes)
		api.POST("/machines/:id/notes", handler.CreateNote)
		api.GET("/machines/:id/schedules", caching, handler.GetMachineSchedules)
		api.GET("/machines/:id/events", caching, handler.GetMachineEvents)
		api.DELETE("/notes/:id", handler.DeleteNote)

		api.PUT("/schedules", handler.PutSchedule)
		api.DELETE("/schedules/:id", handler.DeleteSchedule)
		api.POST("/schedules/:id/complete", handler.CompleteSchedule)

		// Depends on the current time, never cached.
		api.GET("/overdue", handler.GetOverdue)

		api.GET("/settings", handler.GetSettings)
		api.PUT("/settings", handler.PutSettings)
		api.POST("/demo", handler.LoadDemoData)
		api.DELETE("/data", handler.ClearData)
		api.GET("/export", handler.Export)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
