package upload

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"spaces and uppercase", "My Photo.PNG", "my-photo.png"},
		{"already clean", "report.pdf", "report.pdf"},
		{"punctuation collapsed", "a__b  c!!d.jpg", "a-b-c-d.jpg"},
		{"leading and trailing junk", "--hello--.gif", "hello.gif"},
		{"no extension", "Quarterly Report", "quarterly-report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SlugifyFilename(tt.input))
		})
	}
}

func TestSlugifyFilenameEmptyStemGetsRandomToken(t *testing.T) {
	got := SlugifyFilename("!!!.png")

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{6}\.png$`), got)

	// Two calls must not collide on the same fallback name
	assert.NotEqual(t, got, SlugifyFilename("!!!.png"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "foo-bar-42", Slugify("Foo / Bar / 42"))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "", Slugify(""))
}

func TestRandomToken(t *testing.T) {
	token := RandomToken(6)
	assert.Len(t, token, 6)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]+$`), token)

	// Longer than the uuid source caps at the source length
	assert.Len(t, RandomToken(100), 32)
}
