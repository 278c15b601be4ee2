package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_WriteNote(t *testing.T) {
	tests := []struct {
		name        string
		folder      string
		fileName    string
		createPaths bool
		setup       func(t *testing.T, root string)
		wantRel     string
		wantErr     error
	}{
		{
			name:     "root folder",
			folder:   "/",
			fileName: "Video.md",
			wantRel:  "Video.md",
		},
		{
			name:     "existing folder",
			folder:   "Videos",
			fileName: "Video.md",
			setup: func(t *testing.T, root string) {
				mustMkdir(t, filepath.Join(root, "Videos"))
			},
			wantRel: "Videos/Video.md",
		},
		{
			name:        "missing folder created",
			folder:      "Videos/YouTube",
			fileName:    "Video.md",
			createPaths: true,
			wantRel:     "Videos/YouTube/Video.md",
		},
		{
			name:     "missing folder not created",
			folder:   "Videos/YouTube",
			fileName: "Video.md",
			wantErr:  ErrFolderNotFound,
		},
		{
			name:     "existing file kept",
			folder:   "/",
			fileName: "Video.md",
			setup: func(t *testing.T, root string) {
				if err := os.WriteFile(filepath.Join(root, "Video.md"), []byte("original"), 0o644); err != nil {
					t.Fatalf("write: %v", err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestVault(t, "")
			if tt.setup != nil {
				tt.setup(t, m.Root())
			}

			rel, err := m.WriteNote(tt.folder, tt.fileName, "# content", tt.createPaths)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("WriteNote() error = %v, want %v", err, tt.wantErr)
				}
				if errors.Is(tt.wantErr, ErrFileExists) {
					data, _ := os.ReadFile(filepath.Join(m.Root(), tt.fileName))
					if string(data) != "original" {
						t.Errorf("existing file overwritten: %q", data)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("WriteNote() unexpected error: %v", err)
			}
			if rel != tt.wantRel {
				t.Errorf("WriteNote() = %q, want %q", rel, tt.wantRel)
			}

			data, err := m.ReadNote(rel)
			if err != nil {
				t.Fatalf("ReadNote() error = %v", err)
			}
			if string(data) != "# content" {
				t.Errorf("ReadNote() = %q, want %q", data, "# content")
			}
		})
	}
}

func TestManager_WriteAttachment(t *testing.T) {
	m := newTestVault(t, "")
	data := []byte{0xff, 0xd8, 0xff}

	rel, err := m.WriteAttachment("assets", "thumb.jpg", data, true)
	if err != nil {
		t.Fatalf("WriteAttachment() error = %v", err)
	}
	if rel != "assets/thumb.jpg" {
		t.Errorf("WriteAttachment() = %q, want assets/thumb.jpg", rel)
	}

	got, err := os.ReadFile(filepath.Join(m.Root(), "assets", "thumb.jpg"))
	if err != nil {
		t.Fatalf("read attachment: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("attachment = %v, want %v", got, data)
	}

	if err := m.RemoveFile(rel); err != nil {
		t.Fatalf("RemoveFile() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(m.Root(), "assets", "thumb.jpg")); !os.IsNotExist(err) {
		t.Errorf("attachment still present after RemoveFile(): %v", err)
	}
	if err := m.RemoveFile(rel); err != nil {
		t.Errorf("RemoveFile() on missing file error = %v", err)
	}
}

func TestManager_WriteInvalidName(t *testing.T) {
	m := newTestVault(t, "")

	for _, name := range []string{"", "a/b.md", `a\b.md`} {
		if _, err := m.WriteNote("/", name, "x", true); err == nil {
			t.Errorf("WriteNote(%q) expected error", name)
		}
	}
}

func TestManager_ReadNote(t *testing.T) {
	m := newTestVault(t, "")

	tests := []struct {
		name    string
		rel     string
		wantErr error
	}{
		{"missing note", "Missing.md", ErrNotFound},
		{"traversal", "../secret.md", ErrPathEscapesVault},
		{"nested traversal", "Videos/../../secret.md", ErrPathEscapesVault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ReadNote(tt.rel); !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadNote(%q) error = %v, want %v", tt.rel, err, tt.wantErr)
			}
		})
	}

	if _, err := m.ReadNote("   "); err == nil {
		t.Error("ReadNote(blank) expected error")
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		folder string
		want   string
	}{
		{"/", "Note.md"},
		{"", "Note.md"},
		{"Videos", "Videos/Note.md"},
		{"/Videos/Go/", "Videos/Go/Note.md"},
	}

	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			if got := JoinPath(tt.folder, "Note.md"); got != tt.want {
				t.Errorf("JoinPath(%q) = %q, want %q", tt.folder, got, tt.want)
			}
		})
	}
}
