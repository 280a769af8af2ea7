package storage

import (
	"io"

	"github.com/gofiber/fiber/v2/log"

	"github.com/editorfox/EditorFox/internal/pkg/config"
	"github.com/editorfox/EditorFox/internal/pkg/constants"
)

// Backend is the blob store the uploader persists through. Paths are
// storage-relative, forward-slash separated and never absolute.
type Backend interface {
	// Save writes the content at path and returns the stored path.
	Save(path string, content io.Reader) (string, error)
	// Open returns a reader for a stored file.
	Open(path string) (io.ReadCloser, error)
	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(path string) error
	// ListDir returns the immediate subdirectories and files under path.
	ListDir(path string) (dirs []string, files []string, err error)
	// URL returns the public URL for a stored path.
	URL(path string) string
	// GetAvailableName returns a path that does not collide with an
	// existing file, derived from the requested path.
	GetAvailableName(path string) string
}

var backend Backend

// Setup initializes the configured storage backend. Called once at startup.
func Setup() {
	cfg := config.Get()
	switch cfg.StorageBackend {
	case "s3":
		b, err := NewS3Backend(LoadS3Config())
		if err != nil {
			panic("storage: " + err.Error())
		}
		backend = b
		log.Info("[Storage] Using S3 backend")
	default:
		backend = NewLocalBackend("./uploads-data", constants.UploadsRoute)
		log.Info("[Storage] Using local backend")
	}
}

// GetBackend returns the process-wide storage backend.
func GetBackend() Backend {
	if backend == nil {
		Setup()
	}
	return backend
}

// SetBackend swaps the backend handle (tests and embedders).
func SetBackend(b Backend) {
	backend = b
}
