package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// RootFolder is how the vault root is written in settings and API responses.
const RootFolder = "/"

var (
	// ErrNoActiveNote is returned when the attachment folder is relative to the
	// active note but no note is active.
	ErrNoActiveNote = errors.New("no active note: can't resolve the attachment folder")
	// ErrFolderNotFound is returned when a target folder is missing and folder creation is disabled.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrFileExists is returned when a note or attachment would overwrite an existing file.
	ErrFileExists = errors.New("file already exists")
	// ErrNotFound is returned when a requested note does not exist.
	ErrNotFound = errors.New("note not found")
	// ErrPathEscapesVault is returned for paths that resolve outside the vault root.
	ErrPathEscapesVault = errors.New("path escapes vault root")
)

// appConfig is the subset of .obsidian/app.json the manager reads.
type appConfig struct {
	AttachmentFolderPath string `json:"attachmentFolderPath"`
}

// Manager reads and writes files inside one Obsidian vault.
type Manager struct {
	root string
}

// NewManager creates a manager for the vault at root, which must be an existing directory.
func NewManager(root string) (*Manager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path %s is not a directory", abs)
	}

	return &Manager{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute vault root.
func (m *Manager) Root() string {
	return m.root
}

// AttachmentFolder resolves the folder new attachments go to, following the
// vault's attachmentFolderPath setting:
//
//	"./"      the vault root
//	"./sub"   sub, relative to the folder of activeNote
//	other     that folder, unchanged
//
// activeNote is a vault-relative note path. It is only needed for "./sub"
// settings, which fail with ErrNoActiveNote when it is empty.
func (m *Manager) AttachmentFolder(activeNote string) (string, error) {
	configured, err := m.attachmentSetting()
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(configured, "./") {
		return NormalizeFolder(configured), nil
	}
	if len(configured) == 2 {
		return RootFolder, nil
	}

	if strings.TrimSpace(activeNote) == "" {
		return "", ErrNoActiveNote
	}

	parent := path.Dir(strings.TrimPrefix(filepath.ToSlash(activeNote), "/"))
	if parent == "." {
		parent = ""
	}
	return NormalizeFolder(path.Join(parent, configured[2:])), nil
}

// attachmentSetting reads attachmentFolderPath from .obsidian/app.json.
// A vault without the file or the key stores attachments in the root.
func (m *Manager) attachmentSetting() (string, error) {
	data, err := os.ReadFile(filepath.Join(m.root, ".obsidian", "app.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return RootFolder, nil
		}
		return "", fmt.Errorf("failed to read vault config: %w", err)
	}

	var cfg appConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("failed to parse vault config: %w", err)
	}
	if cfg.AttachmentFolderPath == "" {
		return RootFolder, nil
	}
	return cfg.AttachmentFolderPath, nil
}

// FolderExists reports whether folder is an existing directory inside the vault.
func (m *Manager) FolderExists(folder string) bool {
	abs, err := m.absFolder(folder)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.IsDir()
}

// NormalizeFolder converts a folder path to its canonical vault form:
// RootFolder for the root, otherwise a slash separated path without leading
// or trailing slashes.
func NormalizeFolder(folder string) string {
	f := strings.Trim(path.Clean("/"+filepath.ToSlash(strings.TrimSpace(folder))), "/")
	if f == "" {
		return RootFolder
	}
	return f
}

// absFolder returns the absolute directory of a vault folder.
func (m *Manager) absFolder(folder string) (string, error) {
	f := NormalizeFolder(folder)
	if f == RootFolder {
		return m.root, nil
	}
	return buildAbsPath(m.root, f)
}
