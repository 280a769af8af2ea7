package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"io"

	// Register the decoders the pipeline accepts. BMP and WebP come from
	// golang.org/x/image, the rest from the standard library.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Image container formats as reported by image.Decode.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatWebP = "webp"
	FormatBMP  = "bmp"
)

// CompressibleAnimatedFormats are containers that may carry multiple
// frames but are still re-encoded to a static image when compression is
// forced. MPO files decode as JPEG, so "mpo" is covered by "jpeg" here;
// it is kept in the set for configuration clarity.
var CompressibleAnimatedFormats = map[string]bool{
	"mpo":      true,
	FormatJPEG: true,
	FormatPNG:  true,
}

// DecodedImage is the result of a successful structural decode.
type DecodedImage struct {
	Image    image.Image
	Format   string
	Animated bool
}

// Decode attempts a structural decode of the given bytes. A failure is a
// normal classification outcome ("not an image"), not an exceptional path.
func Decode(data []byte) (*DecodedImage, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a decodable image: %w", err)
	}

	return &DecodedImage{
		Image:    img,
		Format:   format,
		Animated: detectAnimated(format, data),
	}, nil
}

// IsImage reports whether the stream contains a decodable image. The
// stream position is restored afterwards regardless of outcome.
func IsImage(r io.ReadSeeker) bool {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}
	defer r.Seek(pos, io.SeekStart)

	data, err := io.ReadAll(r)
	if err != nil {
		return false
	}
	_, decodeErr := Decode(data)
	return decodeErr == nil
}

// detectAnimated reports whether the container holds more than one frame.
// Only GIF and WebP carry animation in a form we can detect.
func detectAnimated(format string, data []byte) bool {
	switch format {
	case FormatGIF:
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return false
		}
		return len(g.Image) > 1
	case FormatWebP:
		// Animated WebP files carry an ANIM chunk in the RIFF header.
		limit := len(data)
		if limit > 256 {
			limit = 256
		}
		return bytes.Contains(data[:limit], []byte("ANIM"))
	default:
		return false
	}
}
