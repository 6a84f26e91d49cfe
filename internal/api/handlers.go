package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/bilidash/collector/internal/db"
	"github.com/bilidash/collector/internal/scheduler"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db          *db.DB
	scheduler   *scheduler.Scheduler
	summaryPath string
}

// NewHandler creates a new Handler
func NewHandler(database *db.DB, sched *scheduler.Scheduler, summaryPath string) *Handler {
	return &Handler{
		db:          database,
		scheduler:   sched,
		summaryPath: summaryPath,
	}
}

// GetSummary handles GET /api/summary
// @Summary Current dashboard summary
// @Description Returns the summary document produced by the last successful refresh
// @Tags dashboard
// @Produce json
// @Success 200 {object} object
// @Failure 404 {object} api.errorResponse
// @Router /api/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(h.summaryPath)
	if err != nil {
		if os.IsNotExist(err) {
			respondError(w, http.StatusNotFound, "no summary produced yet")
			return
		}
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read summary: %v", err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListRuns handles GET /runs
// @Summary Recent collection runs
// @Description Returns the most recent collection runs, newest first
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum number of runs" default(50)
// @Success 200 {array} db.Run
// @Failure 500 {object} api.errorResponse
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := h.db.ListRecentRuns(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list runs: %v", err))
		return
	}

	json.NewEncoder(w).Encode(runs)
}

// Refresh handles POST /refresh
// @Summary Trigger a refresh cycle
// @Description Starts a collection cycle immediately unless one is already running
// @Tags runs
// @Produce json
// @Success 202 {object} object
// @Failure 409 {object} api.errorResponse
// @Router /refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.RunNow(); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "refresh started"})
}

// Health handles GET /health
// @Summary Service health
// @Tags monitoring
// @Produce json
// @Success 200 {object} db.HealthStatus
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := db.HealthStatus{
		Status:    "healthy",
		Database:  "ok",
		Scheduler: "ok",
		Timestamp: time.Now(),
	}

	if err := h.db.Ping(); err != nil {
		status.Status = "unhealthy"
		status.Database = err.Error()
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(status)
}

// Metrics handles GET /metrics
// @Summary Run statistics
// @Tags monitoring
// @Produce json
// @Success 200 {object} db.RunStats
// @Failure 500 {object} api.errorResponse
// @Router /metrics [get]
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.Stats()
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute metrics: %v", err))
		return
	}

	json.NewEncoder(w).Encode(stats)
}

type errorResponse struct {
	Error string `json:"error" example:"not found"`
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
