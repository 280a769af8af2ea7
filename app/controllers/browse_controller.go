package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/editorfox/EditorFox/internal/pkg/browse"
	"github.com/editorfox/EditorFox/internal/pkg/config"
	"github.com/editorfox/EditorFox/internal/pkg/storage"
	"github.com/editorfox/EditorFox/internal/pkg/usercontext"
)

// HandleBrowse renders the media browser for all file types.
func HandleBrowse(c *fiber.Ctx) error {
	return renderBrowse(c, "browse", false)
}

// HandleBrowseAllFiles is the legacy alias for the all-files browser.
func HandleBrowseAllFiles(c *fiber.Ctx) error {
	return renderBrowse(c, "browseAllFiles", false)
}

// HandleBrowseImages renders the image-only browser.
func HandleBrowseImages(c *fiber.Ctx) error {
	return renderBrowse(c, "browseImages", true)
}

func renderBrowse(c *fiber.Ctx, view string, imagesOnly bool) error {
	cfg := config.Get()
	backend := storage.GetBackend()
	userCtx := usercontext.GetUserContext(c)

	files := browse.ListFiles(userCtx.ScopeSegment(cfg.RestrictByUser), cfg, backend)

	query := ""
	if c.Method() == fiber.MethodPost {
		query = c.FormValue("q")
		files = browse.FilterQuery(files, query)
	}

	if imagesOnly {
		files = browse.FilterType(files, "image")
	} else if fileType := c.Query("type"); fileType != "" {
		files = browse.FilterType(files, fileType)
	}

	return c.Render(view, fiber.Map{
		"show_dirs": cfg.BrowseShowDirs,
		"dirs":      browse.Dirs(files),
		"files":     files,
		"form":      fiber.Map{"q": query},
	})
}
