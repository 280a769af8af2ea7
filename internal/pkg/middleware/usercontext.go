package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/editorfox/EditorFox/internal/pkg/session"
	"github.com/editorfox/EditorFox/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the user context for every request from
// the host application's session. This centralizes session handling so
// controllers only deal with usercontext.UserContext.
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := usercontext.UserContext{IsLoggedIn: false}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: treat as anonymous user
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		// Anonymous user - no session data
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	id, ok := userID.(uint)
	if !ok {
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	// Collect custom identity attributes the host app stored for us
	// (keys prefixed with "user_attr:").
	attrs := make(map[string]string)
	for _, key := range sess.Keys() {
		if strings.HasPrefix(key, usercontext.KeyUserAttrs) {
			if v, ok := sess.Get(key).(string); ok {
				attrs[strings.TrimPrefix(key, usercontext.KeyUserAttrs)] = v
			}
		}
	}

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     id,
		Username:   session.GetSessionValue(c, usercontext.KeyUsername),
		IsLoggedIn: true,
		Attributes: attrs,
	})

	return c.Next()
}

// RequireAuth ensures a logged-in session; responds 403 otherwise. The
// editor endpoints are staff-only surfaces of the admin interface.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": 0})
	}
	return c.Next()
}
