package db

import "time"

// Run is the persisted outcome of one collector's refresh cycle.
// @Description Recorded collection run
type Run struct {
	ID            string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Collector     string     `json:"collector" example:"bilibili_fetcher"`
	StartedAt     time.Time  `json:"started_at" example:"2024-11-15T12:00:00Z"`
	FinishedAt    *time.Time `json:"finished_at,omitempty" example:"2024-11-15T12:03:21Z"`
	ItemCount     int        `json:"item_count" example:"120"`
	SuccessCount  int        `json:"success_count" example:"118"`
	FailureCount  int        `json:"failure_count" example:"2"`
	FollowerCount int64      `json:"follower_count" example:"15230"`
	Error         string     `json:"error,omitempty"`
}

// RunStats aggregates the run history for the metrics endpoint.
// @Description Service metrics and statistics
type RunStats struct {
	TotalRuns      int        `json:"total_runs" example:"42"`
	TotalItems     int        `json:"total_items" example:"5040"`
	TotalFailures  int        `json:"total_failures" example:"12"`
	RunsWithErrors int        `json:"runs_with_errors" example:"1"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty" example:"2024-11-15T12:00:00Z"`
}

// HealthStatus represents the health of the service
// @Description Service health status
type HealthStatus struct {
	Status    string    `json:"status" example:"healthy" enums:"healthy,unhealthy"`
	Database  string    `json:"database" example:"ok"`
	Scheduler string    `json:"scheduler" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2024-11-15T12:00:00Z"`
}
