package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ytnote/internal/contextutil"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db                 Pinger
	vaultRoot          string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, vaultRoot string) *HealthHandler {
	return &HealthHandler{
		db:                 db,
		vaultRoot:          vaultRoot,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles GET /api/health.
// A vault without .obsidian config still accepts notes, so it only degrades
// the status. Returns 503 Service Unavailable when unhealthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string
	unhealthy := false

	if err := h.db.PingContext(checkCtx); err != nil {
		logger.WarnContext(ctx, "database health check failed", "error", err)
		checks["database"] = "error"
		issues = append(issues, "database_unavailable")
		unhealthy = true
	} else {
		checks["database"] = "ok"
	}

	switch h.vaultState() {
	case vaultOK:
		checks["vault"] = "ok"
		checks["obsidian_config"] = "ok"
	case vaultNoConfig:
		checks["vault"] = "ok"
		checks["obsidian_config"] = "missing"
		issues = append(issues, "obsidian_config_missing")
	default:
		logger.WarnContext(ctx, "vault health check failed", "vault", h.vaultRoot)
		checks["vault"] = "error"
		issues = append(issues, "vault_unavailable")
		unhealthy = true
	}

	status := "healthy"
	httpStatus := http.StatusOK
	switch {
	case unhealthy:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case len(issues) > 0:
		status = "degraded"
	}

	writeJSON(ctx, w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}

type vaultHealth int

const (
	vaultOK vaultHealth = iota
	vaultNoConfig
	vaultMissing
)

func (h *HealthHandler) vaultState() vaultHealth {
	info, err := os.Stat(h.vaultRoot)
	if err != nil || !info.IsDir() {
		return vaultMissing
	}
	if info, err := os.Stat(filepath.Join(h.vaultRoot, ".obsidian")); err != nil || !info.IsDir() {
		return vaultNoConfig
	}
	return vaultOK
}
