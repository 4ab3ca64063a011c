package controller

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"flyer-builder/logger"
	"flyer-builder/models"
	"flyer-builder/repository"
	"flyer-builder/service"
)

// FlyerController handles HTTP requests for flyer runs
type FlyerController struct {
	flyerService service.FlyerServiceInterface
	repository   repository.FlyerRepositoryInterface
	// one generation at a time: runs write to the same file names
	generateMutex sync.Mutex
}

// NewFlyerController creates a new FlyerController. repo may be nil when no database is configured.
func NewFlyerController(flyerService service.FlyerServiceInterface, repo repository.FlyerRepositoryInterface) *FlyerController {
	return &FlyerController{
		flyerService: flyerService,
		repository:   repo,
	}
}

// GenerateResponse is the JSON summary of a run
type GenerateResponse struct {
	RunID     string                `json:"runId"`
	Pages     int                   `json:"pages"`
	Links     int                   `json:"links"`
	Documents []models.Document     `json:"documents"`
	Failures  []models.GroupFailure `json:"failures,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// GenerateFlyers handles POST /admin/flyers/generate
func (c *FlyerController) GenerateFlyers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if r.Method != http.MethodPost {
		log.Warn("❌ GenerateFlyers: Method not allowed", zap.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c.generateMutex.Lock()
	defer c.generateMutex.Unlock()

	result, err := c.flyerService.Generate(r.Context())
	if result == nil {
		log.Error("❌ GenerateFlyers: run failed", zap.Error(err))
		http.Error(w, "Failed to generate flyers: "+errString(err), http.StatusInternalServerError)
		return
	}

	response := GenerateResponse{
		RunID:     result.RunID,
		Pages:     len(result.Pages),
		Documents: result.Documents,
		Failures:  result.Failures,
	}
	for _, link := range result.Links {
		if link != "" {
			response.Links++
		}
	}

	status := http.StatusOK
	if err != nil {
		// partial result: completed groups are still reported
		response.Error = err.Error()
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, response)
}

// ListRuns handles GET /admin/flyers/runs?limit=20
func (c *FlyerController) ListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.repository == nil {
		http.Error(w, "Run history requires DATABASE_URL", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := c.repository.ListRuns(r.Context(), limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("❌ ListRuns: query failed", zap.Error(err))
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetLinks handles GET /admin/flyers/links?runId=...
func (c *FlyerController) GetLinks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.repository == nil {
		http.Error(w, "Run history requires DATABASE_URL", http.StatusServiceUnavailable)
		return
	}

	runID := strings.TrimSpace(r.URL.Query().Get("runId"))
	if runID == "" {
		http.Error(w, "runId parameter is required", http.StatusBadRequest)
		return
	}

	links, err := c.repository.GetLinks(r.Context(), runID)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("❌ GetLinks: query failed", zap.String("runId", runID), zap.Error(err))
		http.Error(w, "Failed to get links", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.GetLogger().Error("❌ Error encoding response", zap.Error(err))
	}
}

func errString(err error) string {
	if err == nil {
		return "no result"
	}
	return err.Error()
}
