package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "uploads", s.UploadPath)
	assert.Equal(t, "id", s.RestrictByUser)
	assert.True(t, s.RestrictByDate)
	assert.True(t, s.SlugifyFilename)
	assert.True(t, s.AllowNonImageFiles)
	assert.Equal(t, 75, s.ThumbnailWidth)
	assert.Equal(t, 75, s.ThumbnailHeight)
	assert.Equal(t, 1024, s.ImageMaxWidth)
	assert.Equal(t, 0, s.ImageMaxHeight)
	assert.Equal(t, 75, s.ImageQuality)
	assert.True(t, s.ForceCompression)
	assert.Equal(t, FormatJPEG, s.OutputFormat)
	assert.Equal(t, "local", s.StorageBackend)
	assert.False(t, s.BrowseShowDirs)
	assert.Equal(t, "/static/editorfox", s.FileIconsPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("EDITORFOX_UPLOAD_PATH", "/media/editor/")
	t.Setenv("EDITORFOX_RESTRICT_BY_USER", "username")
	t.Setenv("EDITORFOX_THUMBNAIL_SIZE", "150x100")
	t.Setenv("EDITORFOX_OUTPUT_FORMAT", "WEBP")
	t.Setenv("EDITORFOX_STORAGE_BACKEND", "s3")
	t.Setenv("EDITORFOX_FORCE_COMPRESSION", "false")

	s, err := Load()
	require.NoError(t, err)

	// Surrounding slashes are trimmed so the path joins cleanly
	assert.Equal(t, "media/editor", s.UploadPath)
	assert.Equal(t, "username", s.RestrictByUser)
	assert.Equal(t, 150, s.ThumbnailWidth)
	assert.Equal(t, 100, s.ThumbnailHeight)
	assert.Equal(t, FormatWebP, s.OutputFormat)
	assert.Equal(t, "s3", s.StorageBackend)
	assert.False(t, s.ForceCompression)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("bad thumbnail size", func(t *testing.T) {
		t.Setenv("EDITORFOX_THUMBNAIL_SIZE", "banana")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("quality out of range", func(t *testing.T) {
		t.Setenv("EDITORFOX_IMAGE_QUALITY", "150")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown output format", func(t *testing.T) {
		t.Setenv("EDITORFOX_OUTPUT_FORMAT", "tiff")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown storage backend", func(t *testing.T) {
		t.Setenv("EDITORFOX_STORAGE_BACKEND", "ftp")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("75x75")
	require.NoError(t, err)
	assert.Equal(t, 75, w)
	assert.Equal(t, 75, h)

	w, h, err = parseSize(" 150 X 100 ")
	require.NoError(t, err)
	assert.Equal(t, 150, w)
	assert.Equal(t, 100, h)

	for _, bad := range []string{"", "75", "0x75", "-1x10", "axb"} {
		_, _, err := parseSize(bad)
		assert.Error(t, err, "value %q", bad)
	}
}

func TestOverrideAndGet(t *testing.T) {
	original := settings
	t.Cleanup(func() { settings = original })

	custom := &Settings{UploadPath: "custom"}
	Override(custom)

	assert.Same(t, custom, Get())
}
