package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/editorfox/EditorFox/internal/pkg/env"
)

// Output formats for compressed uploads and thumbnails
const (
	FormatJPEG = "jpeg"
	FormatWebP = "webp"
)

// FilenameGenerator replaces the slugified upload name. It receives the
// original filename and the request context.
type FilenameGenerator func(name string, c *fiber.Ctx) string

// LegacyFilenameGenerator is the old hook shape that only receives the
// filename. Configuring it still works but logs a deprecation warning.
type LegacyFilenameGenerator func(name string) string

// IconRule maps a filename pattern (matched case-insensitively against the
// end of the name) to an icon path. Rules are evaluated top to bottom.
type IconRule struct {
	Extensions []string
	Icon       string
}

// Settings is the uploader configuration, initialized once at startup and
// read-only afterwards.
type Settings struct {
	UploadPath         string `validate:"required"`
	RestrictByUser     string
	RestrictByDate     bool
	SlugifyFilename    bool
	AllowNonImageFiles bool

	ThumbnailWidth   int    `validate:"gt=0"`
	ThumbnailHeight  int    `validate:"gt=0"`
	ImageMaxWidth    int    `validate:"gte=0"`
	ImageMaxHeight   int    `validate:"gte=0"`
	ImageQuality     int    `validate:"gte=1,lte=100"`
	ForceCompression bool
	OutputFormat     string `validate:"oneof=jpeg webp"`

	StorageBackend string `validate:"oneof=local s3"`
	BrowseShowDirs bool
	FileIconsPath  string

	// Code-level hooks set by the embedding application before Setup.
	FilenameGenerator       FilenameGenerator
	LegacyFilenameGenerator LegacyFilenameGenerator
	FileIconOverrides       []IconRule
}

var settings *Settings

// Setup loads the settings from the environment and validates them.
// It panics on invalid configuration, matching the other startup steps.
func Setup() {
	s, err := Load()
	if err != nil {
		panic(fmt.Sprintf("invalid uploader configuration: %v", err))
	}
	settings = s
}

// Get returns the process-wide settings. Setup must have run.
func Get() *Settings {
	if settings == nil {
		Setup()
	}
	return settings
}

// Override installs a fully built settings object (used by tests and by
// embedders that configure hooks in code).
func Override(s *Settings) {
	settings = s
}

// Load reads the uploader settings from the environment.
func Load() (*Settings, error) {
	thumbW, thumbH, err := parseSize(env.GetEnv("EDITORFOX_THUMBNAIL_SIZE", "75x75"))
	if err != nil {
		return nil, fmt.Errorf("EDITORFOX_THUMBNAIL_SIZE: %w", err)
	}

	s := &Settings{
		UploadPath:         strings.Trim(env.GetEnv("EDITORFOX_UPLOAD_PATH", "uploads"), "/"),
		RestrictByUser:     env.GetEnv("EDITORFOX_RESTRICT_BY_USER", "id"),
		RestrictByDate:     parseBool(env.GetEnv("EDITORFOX_RESTRICT_BY_DATE", "true")),
		SlugifyFilename:    parseBool(env.GetEnv("EDITORFOX_SLUGIFY_FILENAME", "true")),
		AllowNonImageFiles: parseBool(env.GetEnv("EDITORFOX_ALLOW_NONIMAGE_FILES", "true")),
		ThumbnailWidth:     thumbW,
		ThumbnailHeight:    thumbH,
		ImageMaxWidth:      parseInt(env.GetEnv("EDITORFOX_IMAGE_MAX_WIDTH", "1024")),
		ImageMaxHeight:     parseInt(env.GetEnv("EDITORFOX_IMAGE_MAX_HEIGHT", "0")),
		ImageQuality:       parseInt(env.GetEnv("EDITORFOX_IMAGE_QUALITY", "75")),
		ForceCompression:   parseBool(env.GetEnv("EDITORFOX_FORCE_COMPRESSION", "true")),
		OutputFormat:       strings.ToLower(env.GetEnv("EDITORFOX_OUTPUT_FORMAT", FormatJPEG)),
		StorageBackend:     strings.ToLower(env.GetEnv("EDITORFOX_STORAGE_BACKEND", "local")),
		BrowseShowDirs:     parseBool(env.GetEnv("EDITORFOX_BROWSE_SHOW_DIRS", "false")),
		FileIconsPath:      strings.TrimRight(env.GetEnv("EDITORFOX_FILEICONS_PATH", "/static/editorfox"), "/"),
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(s); err != nil {
		return nil, err
	}
	return s, nil
}

// parseSize parses "WxH" dimensions such as "75x75".
func parseSize(value string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(value), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected WxH, got %q", value)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("expected positive WxH, got %q", value)
	}
	return w, h, nil
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return b
}

func parseInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
