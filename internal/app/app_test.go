package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytnote/internal/config"
	"ytnote/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	vaultDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(vaultDir, "Videos"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return &config.Config{
		VaultPath:     vaultDir,
		YouTubeAPIKey: "env-key",
		DBPath:        filepath.Join(t.TempDir(), "ytnote.db"),
		LogLevel:      slog.LevelInfo,
		LogFormat:     "text",
		NotesFolder:   "Videos",
		CreatePaths:   true,
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		level    slog.Level
		contains string
	}{
		{"text", "text", slog.LevelInfo, "msg=hello"},
		{"json", "json", slog.LevelInfo, `"msg":"hello"`},
		{"level filters", "text", slog.LevelWarn, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&config.Config{LogFormat: tt.format, LogLevel: tt.level}, &buf)
			logger.Info("hello")

			got := buf.String()
			if tt.contains == "" {
				if got != "" {
					t.Errorf("NewLogger() wrote %q, want nothing", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("NewLogger() wrote %q, want it to contain %q", got, tt.contains)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		_ = a.Close()
	}()

	ctx := context.Background()
	if err := a.DB.PingContext(ctx); err != nil {
		t.Errorf("PingContext() error = %v", err)
	}

	settings, err := a.Settings.Get(ctx)
	if err != nil {
		t.Fatalf("Settings.Get() error = %v", err)
	}
	if settings.Folder != "Videos" || settings.GoogleCloudAPIKey != "env-key" || !settings.CreatePaths {
		t.Errorf("Settings.Get() = %+v, want config defaults", settings)
	}

	folders, err := a.Settings.Folders(ctx)
	if err != nil {
		t.Fatalf("Settings.Folders() error = %v", err)
	}
	if len(folders) != 2 || folders[0] != "/" || folders[1] != "Videos" {
		t.Errorf("Settings.Folders() = %v, want [/ Videos]", folders)
	}

	notes, err := a.Notes.ListNotes(ctx, 10)
	if err != nil {
		t.Fatalf("Notes.ListNotes() error = %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("Notes.ListNotes() = %v, want empty", notes)
	}

	// Settings round trip through the real store and vault.
	updated, err := a.Settings.Update(ctx, service.UpdateSettingsRequest{
		Folder:        "/",
		ChapterFormat: "{{chapter}}",
		HashtagFormat: "#{{hashtag}}",
		Template:      "# {{title}}",
	})
	if err != nil {
		t.Fatalf("Settings.Update() error = %v", err)
	}
	if updated.GoogleCloudAPIKey != "env-key" {
		t.Errorf("Settings.Update() key = %q, want saved key kept", updated.GoogleCloudAPIKey)
	}
}

func TestNew_MissingVault(t *testing.T) {
	cfg := testConfig(t)
	cfg.VaultPath = filepath.Join(t.TempDir(), "missing")

	if _, err := New(cfg); err == nil {
		t.Fatal("New() expected error for missing vault")
	}
}
