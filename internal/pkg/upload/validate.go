package upload

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// Extensions that are rejected outright because browsers may execute
// their content when served from the uploads tree.
var scriptableExt = map[string]bool{
	".html":  true,
	".htm":   true,
	".xhtml": true,
	".xml":   true,
	// Note: SVG is intentionally excluded due to XSS risk without sanitization
	".svg": true,
}

// ValidateUploadBySniff checks the provided filename (extension) and the first
// bytes (head) for content a browser could execute. Returns the detected mime
// or an error. It does not restrict uploads to images; that policy is applied
// separately by the upload handler.
func ValidateUploadBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if scriptableExt[ext] {
		return "", errors.New("HTML, XML and SVG uploads are not supported")
	}

	detected := http.DetectContentType(head)

	// Block obvious scriptable types regardless of extension
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return "", errors.New("HTML content is not allowed")
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		// Block SVG/XML until a sanitizer is available
		return "", errors.New("SVG and XML uploads are not supported")
	}

	return detected, nil
}
