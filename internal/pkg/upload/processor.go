package upload

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/editorfox/EditorFox/internal/pkg/config"
	"github.com/editorfox/EditorFox/internal/pkg/imageprocessor"
	"github.com/editorfox/EditorFox/internal/pkg/storage"
)

// File wraps one uploaded byte stream for the duration of a request and
// sequences classification, normalization, storage and thumbnailing.
type File struct {
	cfg     *config.Settings
	backend storage.Backend
	data    []byte

	classified bool
	decoded    *imageprocessor.DecodedImage
}

// NewFile creates the request-scoped wrapper around uploaded bytes.
func NewFile(data []byte, cfg *config.Settings, backend storage.Backend) *File {
	return &File{cfg: cfg, backend: backend, data: data}
}

// IsImage reports whether the upload is a decodable image. The structural
// decode runs once; repeat calls reuse the result.
func (f *File) IsImage() bool {
	if !f.classified {
		decoded, err := imageprocessor.Decode(f.data)
		if err == nil {
			f.decoded = decoded
		}
		f.classified = true
	}
	return f.decoded != nil
}

// SaveAs persists the upload at the resolved path and returns the final
// stored path. Images that qualify are re-encoded (the stored extension
// switches to the lossy format and the stem gets a random suffix) and get
// a thumbnail; everything else is stored verbatim.
func (f *File) SaveAs(resolvedPath string) (string, error) {
	if !f.IsImage() {
		return f.backend.Save(resolvedPath, bytes.NewReader(f.data))
	}

	// Animated containers keep their frames unless the format is in the
	// compress-anyway set.
	eligible := !f.decoded.Animated || imageprocessor.CompressibleAnimatedFormats[f.decoded.Format]

	var storedPath string
	var storedBytes []byte

	if f.cfg.ForceCompression && eligible {
		buf, err := imageprocessor.Normalize(f.decoded, f.data, imageprocessor.NormalizeOptions{
			MaxWidth:  f.cfg.ImageMaxWidth,
			MaxHeight: f.cfg.ImageMaxHeight,
			Quality:   f.cfg.ImageQuality,
			Format:    f.cfg.OutputFormat,
		})
		if err != nil {
			return "", fmt.Errorf("failed to compress upload: %w", err)
		}

		// The format change can collide with an earlier upload that
		// resolved to the same stem, so disambiguate before saving.
		ext := path.Ext(resolvedPath)
		stem := strings.TrimSuffix(resolvedPath, ext)
		compressedPath := fmt.Sprintf("%s_%s%s", stem, RandomToken(RandomTokenLength), imageprocessor.OutputExt(f.cfg.OutputFormat))

		storedBytes = buf.Bytes()
		saved, err := f.backend.Save(compressedPath, buf)
		if err != nil {
			return "", err
		}
		storedPath = saved
	} else {
		storedBytes = f.data
		saved, err := f.backend.Save(resolvedPath, bytes.NewReader(f.data))
		if err != nil {
			return "", err
		}
		storedPath = saved
	}

	if eligible {
		thumbPath, err := imageprocessor.GenerateThumbnail(bytes.NewReader(storedBytes), storedPath, f.backend, imageprocessor.ThumbnailOptions{
			Width:   f.cfg.ThumbnailWidth,
			Height:  f.cfg.ThumbnailHeight,
			Quality: f.cfg.ImageQuality,
			Format:  f.cfg.OutputFormat,
		})
		if err != nil {
			return "", err
		}
		log.Debugf("[Upload] Thumbnail created: %s", thumbPath)
	}

	return storedPath, nil
}
