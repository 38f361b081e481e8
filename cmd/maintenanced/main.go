package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"factory-maintenance-backend/config"
	"factory-maintenance-backend/internal/api"
	"factory-maintenance-backend/internal/db"
	"factory-maintenance-backend/internal/maintenance"
	"factory-maintenance-backend/internal/notification"
	"factory-maintenance-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "maintenanced ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	loc := time.Local
	if cfg.Server.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Server.Timezone)
		if err != nil {
			logger.Fatalf("invalid server timezone %q: %v", cfg.Server.Timezone, err)
		}
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Printf("database initialized successfully (driver %s)", cfg.Database.Driver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	reminders := notification.NewReminderStore(gormDB)
	svc := maintenance.NewService(appStore, reminders,
		maintenance.WithReminderTitle(cfg.Reminders.Title),
		maintenance.WithLocation(loc),
	)

	if cfg.Demo.SeedOnStart {
		loaded, err := svc.LoadDemoData(ctx)
		if err != nil {
			logger.Fatalf("failed to seed demo data: %v", err)
		}
		if loaded {
			logger.Println("demo data loaded")
		}
	}

	var webpushOptions *webpush.Options
	var background sync.WaitGroup
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Println("VAPID keys are not configured; reminders are stored but not pushed")
	} else {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		dispatcher := notification.NewDispatcher(reminders, pool, cfg.Reminders.PollInterval)
		background.Add(1)
		go func() {
			defer background.Done()
			dispatcher.Run(ctx)
		}()
	}

	handler := api.NewHandler(svc, appStore, gormDB, webpushOptions, loc)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server Shutdown: %v", err)
	}
	cancel()
	background.Wait()

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Println("Server gracefully stopped")
}
