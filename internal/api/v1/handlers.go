package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/editorfox/EditorFox/app/controllers"
	"github.com/editorfox/EditorFox/internal/pkg/browse"
	"github.com/editorfox/EditorFox/internal/pkg/config"
	"github.com/editorfox/EditorFox/internal/pkg/middleware"
	"github.com/editorfox/EditorFox/internal/pkg/storage"
	"github.com/editorfox/EditorFox/internal/pkg/usercontext"
)

// APIServer implements the JSON API used by editor plugins
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// RegisterHandlers attaches the v1 routes to the given router group
func RegisterHandlers(r fiber.Router, s *APIServer) {
	r.Get("/ping", s.GetPing)
	r.Get("/browse", middleware.RequireAuth, s.GetBrowse)
	r.Post("/upload", middleware.RequireAuth, s.PostUpload)
	r.Delete("/delete", middleware.RequireAuth, s.DeleteFile)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

// GetBrowse returns the file listing as JSON. Filters mirror the HTML
// browse pages: ?q= substring search, ?type=image|video.
func (s *APIServer) GetBrowse(c *fiber.Ctx) error {
	cfg := config.Get()
	userCtx := usercontext.GetUserContext(c)

	files := browse.ListFiles(userCtx.ScopeSegment(cfg.RestrictByUser), cfg, storage.GetBackend())
	files = browse.FilterQuery(files, c.Query("q"))
	if fileType := c.Query("type"); fileType != "" {
		files = browse.FilterType(files, fileType)
	}

	return c.JSON(fiber.Map{
		"files": files,
		"dirs":  browse.Dirs(files),
	})
}

// PostUpload accepts an upload through the JSON API
func (s *APIServer) PostUpload(c *fiber.Ctx) error {
	return controllers.HandleUpload(c)
}

// DeleteFile removes a stored file through the JSON API
func (s *APIServer) DeleteFile(c *fiber.Ctx) error {
	return controllers.HandleDelete(c)
}
