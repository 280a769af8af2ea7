package imageprocessor

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"

	"github.com/editorfox/EditorFox/internal/pkg/storage"
)

// ThumbSuffix is appended to the stem of the primary stored path.
const ThumbSuffix = "_thumb"

// ThumbnailOptions bound and encode a thumbnail rendition.
type ThumbnailOptions struct {
	Width   int
	Height  int
	Quality int
	Format  string
}

// ThumbPath derives the thumbnail path for a stored asset. The extension
// is always the lossy format used for thumbnails, independent of the
// primary asset's format.
func ThumbPath(storedPath, format string) string {
	ext := path.Ext(storedPath)
	stem := strings.TrimSuffix(storedPath, ext)
	return stem + ThumbSuffix + OutputExt(format)
}

// GenerateThumbnail renders a small preview of a just-stored asset and
// persists it next to the asset. The in-memory source stream is preferred;
// if it is no longer readable (some backends consume it on save) the asset
// is read back from the backend before giving up.
func GenerateThumbnail(source io.Reader, storedPath string, backend storage.Backend, opts ThumbnailOptions) (string, error) {
	decoded, err := decodeReader(source)
	if err != nil {
		log.Infof("[ImageProcessor] Thumbnail source unreadable, reopening %s from backend: %v", storedPath, err)
		stored, openErr := backend.Open(storedPath)
		if openErr != nil {
			return "", fmt.Errorf("failed to reopen stored asset %s: %w", storedPath, openErr)
		}
		defer stored.Close()

		decoded, err = decodeReader(stored)
		if err != nil {
			return "", fmt.Errorf("failed to decode stored asset %s: %w", storedPath, err)
		}
	}

	thumb := imaging.Fit(toRGB(decoded.Image), opts.Width, opts.Height, imaging.Lanczos)
	buf, err := Encode(thumb, opts.Format, opts.Quality)
	if err != nil {
		return "", err
	}

	thumbPath := ThumbPath(storedPath, opts.Format)
	savedPath, err := backend.Save(thumbPath, buf)
	if err != nil {
		return "", fmt.Errorf("failed to save thumbnail %s: %w", thumbPath, err)
	}
	return savedPath, nil
}

func decodeReader(r io.Reader) (*DecodedImage, error) {
	if r == nil {
		return nil, fmt.Errorf("no source stream")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
