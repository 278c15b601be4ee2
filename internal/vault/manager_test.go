package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// newTestVault creates a vault directory with the given attachmentFolderPath.
// An empty setting leaves .obsidian/app.json out.
func newTestVault(t *testing.T, attachmentSetting string) *Manager {
	t.Helper()

	root := t.TempDir()
	if attachmentSetting != "" {
		if err := os.MkdirAll(filepath.Join(root, ".obsidian"), 0o755); err != nil {
			t.Fatalf("mkdir .obsidian: %v", err)
		}
		cfg := `{"attachmentFolderPath": "` + attachmentSetting + `", "alwaysUpdateLinks": true}`
		if err := os.WriteFile(filepath.Join(root, ".obsidian", "app.json"), []byte(cfg), 0o644); err != nil {
			t.Fatalf("write app.json: %v", err)
		}
	}

	m, err := NewManager(root)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func TestNewManager(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.md")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	tests := []struct {
		name    string
		root    string
		wantErr bool
	}{
		{"existing directory", dir, false},
		{"missing directory", filepath.Join(dir, "missing"), true},
		{"regular file", file, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager(tt.root)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewManager() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && m.Root() != dir {
				t.Errorf("Root() = %q, want %q", m.Root(), dir)
			}
		})
	}
}

func TestManager_AttachmentFolder(t *testing.T) {
	tests := []struct {
		name       string
		setting    string
		activeNote string
		want       string
		wantErr    error
	}{
		{name: "no config", setting: "", want: "/"},
		{name: "explicit root", setting: "/", want: "/"},
		{name: "fixed folder", setting: "assets/images", want: "assets/images"},
		{name: "fixed folder ignores active note", setting: "assets", activeNote: "Notes/a.md", want: "assets"},
		{name: "same folder marker", setting: "./", want: "/"},
		{name: "relative to active note", setting: "./attachments", activeNote: "Notes/Daily/today.md", want: "Notes/Daily/attachments"},
		{name: "relative to root note", setting: "./attachments", activeNote: "today.md", want: "attachments"},
		{name: "relative with leading slash note", setting: "./img", activeNote: "/Notes/a.md", want: "Notes/img"},
		{name: "relative without active note", setting: "./attachments", wantErr: ErrNoActiveNote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestVault(t, tt.setting)

			got, err := m.AttachmentFolder(tt.activeNote)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("AttachmentFolder() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AttachmentFolder() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AttachmentFolder() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManager_AttachmentFolder_InvalidConfig(t *testing.T) {
	m := newTestVault(t, "")
	if err := os.MkdirAll(filepath.Join(m.Root(), ".obsidian"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(m.Root(), ".obsidian", "app.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := m.AttachmentFolder(""); err == nil {
		t.Error("AttachmentFolder() expected error for invalid app.json")
	}
}

func TestNormalizeFolder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"./", "/"},
		{"Videos", "Videos"},
		{"/Videos/YouTube/", "Videos/YouTube"},
		{"Videos//YouTube", "Videos/YouTube"},
		{"../outside", "outside"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeFolder(tt.in); got != tt.want {
				t.Errorf("NormalizeFolder(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestManager_FoldersAndExists(t *testing.T) {
	m := newTestVault(t, "attachments")
	for _, dir := range []string{"Videos/YouTube", "Inbox", ".trash/old"} {
		if err := os.MkdirAll(filepath.Join(m.Root(), filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(m.Root(), "Inbox", "note.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}

	got, err := m.Folders(context.Background())
	if err != nil {
		t.Fatalf("Folders() error = %v", err)
	}
	want := []string{"/", "Inbox", "Videos", "Videos/YouTube"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Folders() = %v, want %v", got, want)
	}

	exists := map[string]bool{
		"/":              true,
		"Videos/YouTube": true,
		"/Inbox/":        true,
		"Missing":        false,
		"Inbox/note.md":  false,
	}
	for folder, want := range exists {
		if got := m.FolderExists(folder); got != want {
			t.Errorf("FolderExists(%q) = %v, want %v", folder, got, want)
		}
	}
}

func TestManager_FoldersCanceled(t *testing.T) {
	m := newTestVault(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Folders(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Folders() error = %v, want context.Canceled", err)
	}
}
