// Package scheduler runs the periodic refresh loop: it dispatches every
// registered collector, aggregates their output into the dashboard
// summary, and records run history.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bilidash/collector/internal/collector"
	"github.com/bilidash/collector/internal/config"
	"github.com/bilidash/collector/internal/dashboard"
	"github.com/bilidash/collector/internal/db"
	"github.com/bilidash/collector/internal/record"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Scheduler manages the scheduled refresh job.
type Scheduler struct {
	cron     *cron.Cron
	db       *db.DB
	registry *collector.Registry
	cfg      *config.Config

	mu        sync.Mutex
	isRunning bool
}

// New creates a Scheduler whose refresh job fires at the configured
// interval.
func New(cfg *config.Config, registry *collector.Registry, database *db.DB) (*Scheduler, error) {
	s := &Scheduler{
		db:       database,
		registry: registry,
		cfg:      cfg,
	}

	s.cron = cron.New(
		cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		),
	)

	spec := fmt.Sprintf("@every %ds", cfg.RefreshSeconds())
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.runAllCollectors(); err != nil {
			log.Printf("Refresh job failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to register refresh job: %w", err)
	}

	log.Printf("Registered refresh job with interval %s (%ds)", cfg.Server.RefreshInterval, cfg.RefreshSeconds())
	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("Scheduler started")
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		log.Println("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler shutdown timeout")
	}
}

// RunNow manually triggers a refresh cycle
func (s *Scheduler) RunNow() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("refresh job is already running")
	}
	s.isRunning = true // Set BEFORE unlocking to prevent race
	s.mu.Unlock()

	// Run in goroutine to return immediately
	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()
		if err := s.runCycle(); err != nil {
			log.Printf("Manual refresh failed: %v", err)
		}
	}()

	return nil
}

// runAllCollectors is the cron entry point with the isRunning guard.
func (s *Scheduler) runAllCollectors() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		log.Println("Refresh job already running, skipping this execution")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	return s.runCycle()
}

// runCycle dispatches every active collector, then rebuilds the summary
// document from the merged record set. A cycle that yields zero records
// leaves the previous summary document on disk.
func (s *Scheduler) runCycle() error {
	log.Println("Starting refresh cycle")

	collectors := s.registry.Active(s.cfg.Collectors.Blacklist)
	if len(collectors) == 0 {
		log.Println("No collectors registered, skipping refresh")
		return nil
	}

	// A run has no mid-cycle cancellation contract: once dispatched it
	// completes all items.
	ctx := context.Background()

	var allRecords []*record.ItemRecord
	var followerTotal int64

	for _, c := range collectors {
		log.Printf("Running collector %s", c.Name())
		startedAt := time.Now()

		result, err := c.Collect(ctx, s.cfg.Output.Directory)

		run := &db.Run{
			ID:        uuid.New().String(),
			Collector: c.Name(),
			StartedAt: startedAt,
		}
		finishedAt := time.Now()
		run.FinishedAt = &finishedAt

		if err != nil {
			// Collector-level failure (e.g. missing subject id): skip its
			// output, keep the process and the other collectors going.
			log.Printf("Collector %s failed: %v", c.Name(), err)
			run.Error = err.Error()
		} else {
			run.ItemCount = len(result.Records)
			run.SuccessCount = result.SuccessCount
			run.FailureCount = result.FailureCount
			run.FollowerCount = result.FollowerCount
			allRecords = append(allRecords, result.Records...)
			followerTotal += result.FollowerCount
			log.Printf("Collector %s completed: %d records (%d ok, %d degraded)",
				c.Name(), len(result.Records), result.SuccessCount, result.FailureCount)
		}

		if err := s.db.InsertRun(run); err != nil {
			log.Printf("Failed to record run for %s: %v", c.Name(), err)
		}
	}

	doc, err := dashboard.Summarize(allRecords, followerTotal)
	if errors.Is(err, dashboard.ErrNoRecords) {
		log.Println("No records collected this cycle, preserving previous summary")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to summarize records: %w", err)
	}

	if err := dashboard.WriteSummary(s.cfg.Output.SummaryPath, doc); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	log.Printf("Refresh cycle complete: %d records, summary written to %s", len(allRecords), s.cfg.Output.SummaryPath)
	return nil
}
