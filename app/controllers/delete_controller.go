package controllers

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/editorfox/EditorFox/internal/pkg/browse"
	"github.com/editorfox/EditorFox/internal/pkg/config"
	"github.com/editorfox/EditorFox/internal/pkg/metrics/counter"
	"github.com/editorfox/EditorFox/internal/pkg/storage"
	"github.com/editorfox/EditorFox/internal/pkg/usercontext"
)

// HandleDelete removes a stored file (and its thumbnail) owned by the
// requesting user. Failures are reported as a generic boolean so the
// response leaks no storage structure.
func HandleDelete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": 0})
	}

	cfg := config.Get()
	target := c.Query("path")
	scope := userCtx.ScopeSegment(cfg.RestrictByUser)

	fiberlog.Infof("[Delete] User %d requests delete of %s", userCtx.UserID, target)

	if target == "" || !browse.DeleteFile(scope, target, cfg, storage.GetBackend()) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": 0})
	}

	if err := counter.AddDelete(scope); err != nil {
		fiberlog.Debugf("[Delete] Counter not updated: %v", err)
	}
	return c.JSON(fiber.Map{"success": 1})
}
