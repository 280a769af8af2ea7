package usercontext

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// UserContext represents the authenticated user for a request. The
// hosting application's auth layer fills it; this module only consumes it.
type UserContext struct {
	UserID     uint              `json:"user_id"`
	Username   string            `json:"username"`
	IsLoggedIn bool              `json:"is_logged_in"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(KeyUserContext); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// ScopeSegment derives the path segment that scopes storage operations to
// this user. The configured attribute is looked up first; a username-like
// accessor is the fallback, mirroring duck-typed identity lookup. An
// empty result disables browse and delete for the request.
func (u UserContext) ScopeSegment(attribute string) string {
	switch attribute {
	case "":
		return ""
	case "id":
		if u.UserID > 0 {
			return strconv.FormatUint(uint64(u.UserID), 10)
		}
		return u.Username
	case "username":
		return u.Username
	default:
		if v, ok := u.Attributes[attribute]; ok && v != "" {
			return v
		}
		return u.Username
	}
}
