package upload

import (
	"path"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/editorfox/EditorFox/internal/pkg/config"
	"github.com/editorfox/EditorFox/internal/pkg/storage"
)

// UserScopeProvider yields the path segment that scopes uploads to one
// user. An empty segment disables scoping; browse and delete refuse to
// operate in that case.
type UserScopeProvider interface {
	ScopeSegment(attribute string) string
}

// ResolveFilename derives the storage-relative target path for an upload:
// {upload_path}/{user_segment}/{year?}/{name}. The final name goes through
// slugification or the configured generator hook, and collision avoidance
// is delegated to the storage backend.
func ResolveFilename(originalName string, user UserScopeProvider, c *fiber.Ctx, cfg *config.Settings, backend storage.Backend) string {
	userSegment := ""
	if user != nil {
		userSegment = user.ScopeSegment(cfg.RestrictByUser)
	}

	dateSegment := ""
	if cfg.RestrictByDate {
		// Only the year, to keep browse listings fast
		dateSegment = strconv.Itoa(time.Now().Year())
	}

	name := path.Base(originalName)
	switch {
	case cfg.FilenameGenerator != nil:
		name = cfg.FilenameGenerator(name, c)
	case cfg.LegacyFilenameGenerator != nil:
		log.Warn("[Upload] Update the filename generator to accept the arguments (filename, ctx)")
		name = cfg.LegacyFilenameGenerator(name)
	case cfg.SlugifyFilename:
		name = SlugifyFilename(name)
	}

	return backend.GetAvailableName(path.Join(cfg.UploadPath, userSegment, dateSegment, name))
}
