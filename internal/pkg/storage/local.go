package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalBackend stores files below a base directory on the local filesystem.
type LocalBackend struct {
	basePath string
	baseURL  string
}

func NewLocalBackend(basePath, baseURL string) *LocalBackend {
	return &LocalBackend{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// fullPath resolves a storage-relative path below basePath. Paths whose
// ".." segments would climb out of the storage root are refused.
func (b *LocalBackend) fullPath(relative string) (string, error) {
	cleaned := path.Clean(relative)
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("path %s escapes the storage root", relative)
	}
	return filepath.Join(b.basePath, filepath.FromSlash(cleaned)), nil
}

func (b *LocalBackend) Save(p string, content io.Reader) (string, error) {
	fullPath, err := b.fullPath(p)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", p, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", p, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		// Clean up partial file
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file %s: %w", p, err)
	}

	return p, nil
}

func (b *LocalBackend) Open(p string) (io.ReadCloser, error) {
	fullPath, err := b.fullPath(p)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", p, err)
	}
	return file, nil
}

func (b *LocalBackend) Delete(p string) error {
	fullPath, err := b.fullPath(p)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", p, err)
	}
	return nil
}

func (b *LocalBackend) ListDir(p string) ([]string, []string, error) {
	fullPath, err := b.fullPath(p)
	if err != nil {
		return nil, nil, err
	}
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, nil, err
	}

	var dirs, files []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	return dirs, files, nil
}

func (b *LocalBackend) URL(p string) string {
	return b.baseURL + "/" + strings.TrimLeft(p, "/")
}

func (b *LocalBackend) GetAvailableName(p string) string {
	for {
		fullPath, err := b.fullPath(p)
		if err != nil {
			// The later Save will refuse the path too
			return p
		}
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			return p
		}
		ext := path.Ext(p)
		stem := strings.TrimSuffix(p, ext)
		p = fmt.Sprintf("%s_%s%s", stem, randomSuffix(), ext)
	}
}

// randomSuffix returns a short collision-avoidance token.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:7]
}
