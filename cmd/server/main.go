package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/bilidash/collector/docs" // Swagger docs
	"github.com/bilidash/collector/internal/api"
	"github.com/bilidash/collector/internal/bilibili"
	"github.com/bilidash/collector/internal/collector"
	"github.com/bilidash/collector/internal/config"
	"github.com/bilidash/collector/internal/db"
	"github.com/bilidash/collector/internal/export"
	"github.com/bilidash/collector/internal/scheduler"
)

// @title Bilidash Collector API
// @version 1.0
// @description Scheduled collection of a Bilibili creator's video catalog with dashboard aggregation
// @description
// @description Features:
// @description - Periodic catalog collection with per-video enrichment
// @description - Month-bucketed Excel export and dashboard summary JSON
// @description - Run history and health monitoring
// @contact.name Bilidash Project
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	// Load configuration from config.yml (CONFIG_PATH to override)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting collector service...")
	log.Printf("Server: Port=%d, WebDir=%s", cfg.Server.Port, cfg.Server.WebDir)
	log.Printf("Output: Excel=%s, Summary=%s, DB=%s",
		cfg.Output.Directory, cfg.Output.SummaryPath, cfg.Output.DBPath)
	log.Printf("Refresh interval: %s (%ds)", cfg.Server.RefreshInterval, cfg.RefreshSeconds())

	// Initialize run-history database
	database, err := db.Init(cfg.Output.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()
	log.Println("Database initialized")

	// Build the collector registry
	registry := collector.NewRegistry()

	bilibiliClient := bilibili.NewClient(cfg.Collectors.Bilibili.RequestDelayMs, cfg.Collectors.Bilibili.UserAgent)
	excelSink := export.NewExcelSink("_bilibili_fetcher")
	bilibiliCollector := collector.NewBilibiliCollector(bilibiliClient, excelSink, collector.Options{
		UID:       cfg.Collectors.Bilibili.UID,
		PageSize:  cfg.Collectors.Bilibili.PageSize,
		PageDelay: time.Duration(cfg.Collectors.Bilibili.PageDelayMs) * time.Millisecond,
		Workers:   cfg.Collectors.Bilibili.Workers,
	})
	if err := registry.Register(bilibiliCollector); err != nil {
		log.Fatalf("Failed to register collector: %v", err)
	}
	log.Printf("Registered collectors: bilibili_fetcher (blacklist: %v)", cfg.Collectors.Blacklist)

	// Initialize scheduler with the configured refresh interval
	sched, err := scheduler.New(cfg, registry, database)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	sched.Start()

	// Kick off the first collection immediately; subsequent runs follow
	// the refresh interval.
	if err := sched.RunNow(); err != nil {
		log.Printf("Failed to start initial refresh: %v", err)
	}

	// Setup HTTP router
	router := api.SetupRouter(database, sched, cfg.Output.SummaryPath, cfg.Server.WebDir)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		log.Printf("HTTP server listening on %s", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}

	case sig := <-shutdown:
		log.Printf("Received signal %v, starting graceful shutdown...", sig)

		// Create context with timeout for shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Shutdown HTTP server
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			server.Close()
		}

		// Stop scheduler (wait for running jobs)
		schedulerCtx, schedulerCancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer schedulerCancel()

		if err := sched.Stop(schedulerCtx); err != nil {
			log.Printf("Scheduler shutdown error: %v", err)
		}

		log.Println("Graceful shutdown complete")
	}
}
