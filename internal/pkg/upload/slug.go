package upload

import (
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// RandomTokenLength is the length of the fallback name used when
// slugification leaves nothing.
const RandomTokenLength = 6

// SlugifyFilename slugifies the stem of a filename and lowercases the
// extension. An empty slug is replaced by a random token.
func SlugifyFilename(filename string) string {
	ext := path.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	slug := Slugify(stem)
	if slug == "" {
		slug = RandomToken(RandomTokenLength)
	}
	return slug + strings.ToLower(ext)
}

// Slugify normalizes a name into a safe URL-friendly token: lowercase
// ASCII letters and digits, runs of anything else collapsed to a single
// dash, dashes trimmed from the ends.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// RandomToken returns a random lowercase alphanumeric token.
func RandomToken(length int) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	if length > len(token) {
		length = len(token)
	}
	return token[:length]
}
