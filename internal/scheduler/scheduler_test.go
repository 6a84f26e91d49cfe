package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bilidash/collector/internal/collector"
	"github.com/bilidash/collector/internal/config"
	"github.com/bilidash/collector/internal/db"
	"github.com/bilidash/collector/internal/record"
)

// stubCollector returns canned results without touching the network.
type stubCollector struct {
	name   string
	result *collector.Result
	err    error
	calls  int
}

func (s *stubCollector) Name() string { return s.name }

func (s *stubCollector) Collect(ctx context.Context, outputDir string) (*collector.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			RefreshInterval: "1h",
			WebDir:          dir,
		},
		Output: config.OutputConfig{
			Directory:   filepath.Join(dir, "Excel"),
			SummaryPath: filepath.Join(dir, "dashboard_data.json"),
			DBPath:      filepath.Join(dir, "test.db"),
		},
	}
}

func setupTestDB(t *testing.T, cfg *config.Config) *db.DB {
	t.Helper()
	database, err := db.Init(cfg.Output.DBPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return database
}

func someRecords() []*record.ItemRecord {
	return []*record.ItemRecord{
		{ID: "BV001", Title: "one", PublishedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local), ViewCount: 1000, LikeCount: 10},
		{ID: "BV002", Title: "two", PublishedAt: time.Date(2024, 2, 5, 0, 0, 0, 0, time.Local), ViewCount: 1500, LikeCount: 10},
	}
}

func TestRunCycleWritesSummary(t *testing.T) {
	cfg := testConfig(t)
	database := setupTestDB(t, cfg)
	defer database.Close()

	registry := collector.NewRegistry()
	stub := &stubCollector{
		name:   "stub",
		result: &collector.Result{Records: someRecords(), FollowerCount: 99, SuccessCount: 2},
	}
	if err := registry.Register(stub); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	sched, err := New(cfg, registry, database)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := sched.runCycle(); err != nil {
		t.Fatalf("runCycle returned error: %v", err)
	}

	data, err := os.ReadFile(cfg.Output.SummaryPath)
	if err != nil {
		t.Fatalf("Expected summary file: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Summary is not valid JSON: %v", err)
	}
	summary, ok := doc["summary"].(map[string]interface{})
	if !ok {
		t.Fatal("Summary document missing 'summary' block")
	}
	if summary["last_month_views_change"] != "+50.0%" {
		t.Errorf("Expected '+50.0%%', got %v", summary["last_month_views_change"])
	}

	runs, err := database.ListRecentRuns(10)
	if err != nil {
		t.Fatalf("ListRecentRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].Collector != "stub" || runs[0].ItemCount != 2 || runs[0].Error != "" {
		t.Errorf("Unexpected run row: %+v", runs[0])
	}
}

func TestRunCycleEmptyPreservesPreviousSummary(t *testing.T) {
	cfg := testConfig(t)
	database := setupTestDB(t, cfg)
	defer database.Close()

	previous := []byte(`{"summary":{"total_videos":7}}`)
	if err := os.WriteFile(cfg.Output.SummaryPath, previous, 0o644); err != nil {
		t.Fatalf("Failed to seed summary file: %v", err)
	}

	registry := collector.NewRegistry()
	registry.Register(&stubCollector{name: "stub", result: &collector.Result{}})

	sched, err := New(cfg, registry, database)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := sched.runCycle(); err != nil {
		t.Fatalf("runCycle returned error: %v", err)
	}

	data, err := os.ReadFile(cfg.Output.SummaryPath)
	if err != nil {
		t.Fatalf("Failed to read summary file: %v", err)
	}
	if string(data) != string(previous) {
		t.Errorf("Summary file was overwritten on an empty cycle:\n%s", data)
	}
}

func TestRunCycleCollectorErrorIsolated(t *testing.T) {
	cfg := testConfig(t)
	database := setupTestDB(t, cfg)
	defer database.Close()

	registry := collector.NewRegistry()
	registry.Register(&stubCollector{name: "broken", err: errors.New("uid is not configured")})
	working := &stubCollector{
		name:   "working",
		result: &collector.Result{Records: someRecords(), SuccessCount: 2},
	}
	registry.Register(working)

	sched, err := New(cfg, registry, database)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := sched.runCycle(); err != nil {
		t.Fatalf("runCycle returned error: %v", err)
	}

	// The working collector's summary still lands on disk.
	if _, err := os.Stat(cfg.Output.SummaryPath); err != nil {
		t.Errorf("Expected summary despite one collector failing: %v", err)
	}
	if working.calls != 1 {
		t.Errorf("Expected working collector to run once, ran %d times", working.calls)
	}

	runs, err := database.ListRecentRuns(10)
	if err != nil {
		t.Fatalf("ListRecentRuns returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 recorded runs, got %d", len(runs))
	}

	byName := make(map[string]db.Run)
	for _, r := range runs {
		byName[r.Collector] = r
	}
	if byName["broken"].Error == "" {
		t.Error("Expected error text on the broken collector's run")
	}
	if byName["working"].Error != "" {
		t.Errorf("Unexpected error on working run: %q", byName["working"].Error)
	}
}

func TestRunCycleRespectsBlacklist(t *testing.T) {
	cfg := testConfig(t)
	cfg.Collectors.Blacklist = []string{"stub"}
	database := setupTestDB(t, cfg)
	defer database.Close()

	registry := collector.NewRegistry()
	stub := &stubCollector{name: "stub", result: &collector.Result{Records: someRecords()}}
	registry.Register(stub)

	sched, err := New(cfg, registry, database)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := sched.runCycle(); err != nil {
		t.Fatalf("runCycle returned error: %v", err)
	}

	if stub.calls != 0 {
		t.Errorf("Blacklisted collector ran %d times", stub.calls)
	}
	if _, err := os.Stat(cfg.Output.SummaryPath); !os.IsNotExist(err) {
		t.Error("Expected no summary file when every collector is blacklisted")
	}
}

func TestRunNowRejectsConcurrentRun(t *testing.T) {
	cfg := testConfig(t)
	database := setupTestDB(t, cfg)
	defer database.Close()

	registry := collector.NewRegistry()
	blocker := make(chan struct{})
	registry.Register(&blockingCollector{release: blocker})

	sched, err := New(cfg, registry, database)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := sched.RunNow(); err != nil {
		t.Fatalf("First RunNow returned error: %v", err)
	}
	// Give the goroutine a moment to take the running flag
	waitForRunning(t, sched)

	if err := sched.RunNow(); err == nil {
		t.Error("Expected second RunNow to be rejected while a run is active")
	}
	close(blocker)
}

type blockingCollector struct {
	release chan struct{}
}

func (b *blockingCollector) Name() string { return "blocking" }

func (b *blockingCollector) Collect(ctx context.Context, outputDir string) (*collector.Result, error) {
	<-b.release
	return &collector.Result{}, nil
}

func waitForRunning(t *testing.T, s *Scheduler) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		s.mu.Lock()
		running := s.isRunning
		s.mu.Unlock()
		if running {
			return
		}
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for run to start")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
