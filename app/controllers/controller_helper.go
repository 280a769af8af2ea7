package controllers

import (
	"fmt"
	"html"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/editorfox/EditorFox/internal/pkg/constants"
)

// editorCallbackFragment builds the script fragment the editor expects
// after an iframe-based upload. errMsg is empty on success.
func editorCallbackFragment(funcNum, url, errMsg string) string {
	funcNum = html.EscapeString(funcNum)
	if errMsg != "" {
		return fmt.Sprintf(`
		<script type='text/javascript'>
		window.parent.CKEDITOR.tools.callFunction(%s, '', '%s');
		</script>`, funcNum, escapeJS(errMsg))
	}
	return fmt.Sprintf(`
	<script type='text/javascript'>
		window.parent.CKEDITOR.tools.callFunction(%s, '%s');
	</script>`, funcNum, escapeJS(url))
}

// escapeJS escapes a value for embedding in a single-quoted JS string.
func escapeJS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "</", `<\/`)
	return s
}

func respondUploadError(c *fiber.Ctx, status int, message string) error {
	if c.Accepts("application/json", "text/html") == "text/html" && c.Get("X-Requested-With") == "" {
		flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": message,
		})
		return c.Redirect(constants.BrowseRoute)
	}
	return c.Status(status).JSON(fiber.Map{
		"uploaded": "0",
		"error":    fiber.Map{"message": message},
	})
}
