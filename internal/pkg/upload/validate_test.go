package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUploadBySniff(t *testing.T) {
	t.Run("png passes", func(t *testing.T) {
		mime, err := ValidateUploadBySniff("pic.png", pngBytes(t, 4, 4))
		require.NoError(t, err)
		assert.Equal(t, "image/png", mime)
	})

	t.Run("plain text passes", func(t *testing.T) {
		_, err := ValidateUploadBySniff("notes.txt", []byte("hello world"))
		assert.NoError(t, err)
	})

	t.Run("html content blocked regardless of extension", func(t *testing.T) {
		_, err := ValidateUploadBySniff("pic.png", []byte("<!DOCTYPE html><html><body>x</body></html>"))
		assert.Error(t, err)
	})

	t.Run("svg extension blocked", func(t *testing.T) {
		_, err := ValidateUploadBySniff("drawing.svg", []byte("<svg xmlns='http://www.w3.org/2000/svg'/>"))
		assert.Error(t, err)
	})

	t.Run("html extension blocked", func(t *testing.T) {
		_, err := ValidateUploadBySniff("page.HTML", []byte("binary-ish content"))
		assert.Error(t, err)
	})
}
