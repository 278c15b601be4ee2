package vault

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// WriteNote creates a markdown note named name in folder and returns its
// vault-relative path. Existing files are never overwritten.
func (m *Manager) WriteNote(folder, name, content string, createPaths bool) (string, error) {
	return m.writeFile(folder, name, []byte(content), createPaths)
}

// WriteAttachment stores binary data named name in folder and returns its
// vault-relative path. Existing files are never overwritten.
func (m *Manager) WriteAttachment(folder, name string, data []byte, createPaths bool) (string, error) {
	return m.writeFile(folder, name, data, createPaths)
}

func (m *Manager) writeFile(folder, name string, data []byte, createPaths bool) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	dir, err := m.absFolder(folder)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return "", fmt.Errorf("%s is not a folder: %w", folder, ErrFolderNotFound)
	case os.IsNotExist(err):
		if !createPaths {
			return "", fmt.Errorf("%s: %w", NormalizeFolder(folder), ErrFolderNotFound)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create folder %s: %w", folder, err)
		}
	case err != nil:
		return "", fmt.Errorf("failed to stat folder %s: %w", folder, err)
	}

	rel := JoinPath(folder, name)
	abs := filepath.Join(dir, name)

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%s: %w", rel, ErrFileExists)
		}
		return "", fmt.Errorf("failed to create %s: %w", rel, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(abs)
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(abs)
		return "", fmt.Errorf("failed to close %s: %w", rel, err)
	}

	return rel, nil
}

// ReadNote returns the contents of the note at the vault-relative relPath.
func (m *Manager) ReadNote(relPath string) ([]byte, error) {
	rel, err := cleanRelPath(relPath)
	if err != nil {
		return nil, err
	}
	abs, err := buildAbsPath(m.root, rel)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", rel, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return data, nil
}

// RemoveFile deletes a file previously written by the manager.
func (m *Manager) RemoveFile(relPath string) error {
	rel, err := cleanRelPath(relPath)
	if err != nil {
		return err
	}
	abs, err := buildAbsPath(m.root, rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", rel, err)
	}
	return nil
}

// JoinPath returns the vault-relative path of name inside folder.
func JoinPath(folder, name string) string {
	f := NormalizeFolder(folder)
	if f == RootFolder {
		return name
	}
	return path.Join(f, name)
}

func cleanRelPath(raw string) (string, error) {
	trimmed := strings.TrimSpace(filepath.ToSlash(raw))
	if trimmed == "" {
		return "", errors.New("empty path")
	}

	for _, segment := range strings.Split(trimmed, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%s: %w", raw, ErrPathEscapesVault)
		}
	}

	cleaned := strings.TrimPrefix(path.Clean("/"+trimmed), "/")
	if cleaned == "" || cleaned == "." {
		return "", errors.New("invalid path")
	}
	return cleaned, nil
}

func buildAbsPath(root, rel string) (string, error) {
	root = filepath.Clean(root)
	abs := filepath.Join(root, filepath.FromSlash(rel))

	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) && abs != root {
		return "", ErrPathEscapesVault
	}
	return abs, nil
}
