package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/editorfox/EditorFox/app/controllers"
	"github.com/editorfox/EditorFox/internal/pkg/constants"
	"github.com/editorfox/EditorFox/internal/pkg/middleware"
	"github.com/editorfox/EditorFox/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// All editor endpoints are staff-only surfaces of the admin UI
	editor := app.Group(constants.EditorRoute, middleware.RequireAuth)

	editor.Post("/upload", controllers.HandleUpload)
	editor.Delete("/delete", controllers.HandleDelete)

	// Browse pages accept GET and a POST search form and must not be
	// cached by the browser.
	editor.Get("/browse", noCache, controllers.HandleBrowse)
	editor.Post("/browse", noCache, controllers.HandleBrowse)
	editor.Get("/browseAllFiles", noCache, controllers.HandleBrowseAllFiles)
	editor.Post("/browseAllFiles", noCache, controllers.HandleBrowseAllFiles)
	editor.Get("/browseImages", noCache, controllers.HandleBrowseImages)
	editor.Post("/browseImages", noCache, controllers.HandleBrowseImages)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func noCache(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
	return c.Next()
}
