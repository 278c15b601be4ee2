package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(context.Context) error {
	return f.err
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	vaultDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(vaultDir, ".obsidian"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	plainDir := t.TempDir()

	tests := []struct {
		name       string
		db         Pinger
		vaultRoot  string
		wantStatus int
		wantState  string
		wantIssues []string
	}{
		{
			name:       "healthy",
			db:         fakePinger{},
			vaultRoot:  vaultDir,
			wantStatus: http.StatusOK,
			wantState:  "healthy",
		},
		{
			name:       "no obsidian config",
			db:         fakePinger{},
			vaultRoot:  plainDir,
			wantStatus: http.StatusOK,
			wantState:  "degraded",
			wantIssues: []string{"obsidian_config_missing"},
		},
		{
			name:       "database down",
			db:         fakePinger{err: errors.New("database is closed")},
			vaultRoot:  vaultDir,
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
			wantIssues: []string{"database_unavailable"},
		},
		{
			name:       "vault missing",
			db:         fakePinger{},
			vaultRoot:  filepath.Join(vaultDir, "gone"),
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
			wantIssues: []string{"vault_unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.db, tt.vaultRoot)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("ServeHTTP() status field = %q, want %q", resp.Status, tt.wantState)
			}
			if len(resp.Issues) != len(tt.wantIssues) {
				t.Fatalf("ServeHTTP() issues = %v, want %v", resp.Issues, tt.wantIssues)
			}
			for i := range tt.wantIssues {
				if resp.Issues[i] != tt.wantIssues[i] {
					t.Errorf("ServeHTTP() issues[%d] = %q, want %q", i, resp.Issues[i], tt.wantIssues[i])
				}
			}
			if resp.Timestamp == "" {
				t.Error("ServeHTTP() missing timestamp")
			}
		})
	}
}
