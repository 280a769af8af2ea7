package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// NormalizeOptions bound and encode a normalized image. A max dimension
// of 0 means unbounded. Format is "jpeg" or "webp".
type NormalizeOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
	Format    string
}

// Normalize applies EXIF orientation correction, an aspect-preserving
// downscale to the configured bounds and a lossy re-encode. The original
// bytes are needed alongside the decoded image to read EXIF metadata.
func Normalize(decoded *DecodedImage, original []byte, opts NormalizeOptions) (*bytes.Buffer, error) {
	img := applyOrientation(decoded.Image, readOrientation(original))

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	newW, newH := FitDimensions(w, h, opts.MaxWidth, opts.MaxHeight)
	if newW != w || newH != h {
		img = imaging.Resize(img, newW, newH, imaging.Lanczos)
	}

	return Encode(toRGB(img), opts.Format, opts.Quality)
}

// FitDimensions scales (w, h) down to fit within (maxW, maxH) while
// preserving the aspect ratio. A bound of 0 is unbounded and the result
// never exceeds the source dimensions.
func FitDimensions(w, h, maxW, maxH int) (int, int) {
	widthRatio := 1.0
	heightRatio := 1.0

	if maxW > 0 {
		if r := float64(w) / float64(maxW); r > 1 {
			widthRatio = r
		}
	}
	if maxH > 0 {
		if r := float64(h) / float64(maxH); r > 1 {
			heightRatio = r
		}
	}

	ratio := widthRatio
	if heightRatio > ratio {
		ratio = heightRatio
	}

	return int(float64(w) / ratio), int(float64(h) / ratio)
}

// readOrientation extracts the EXIF orientation value. Missing or corrupt
// metadata is logged and treated as "no rotation".
func readOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debugf("[ImageProcessor] No EXIF data: %v", err)
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		log.Infof("[ImageProcessor] Unreadable EXIF orientation: %v", err)
		return 1
	}
	return orientation
}

// applyOrientation rotates the image according to the EXIF orientation
// value. Rotation expands the frame so nothing is cropped. Values other
// than 3, 6 and 8 leave the image untouched.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 3:
		return imaging.Rotate180(img)
	case 6:
		return imaging.Rotate270(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// toRGB flattens the image to a 3-channel color model since the lossy
// target encodings do not carry transparency.
func toRGB(img image.Image) image.Image {
	if _, ok := img.(*image.YCbCr); ok {
		// Already alpha-free
		return img
	}
	rgb := image.NewRGBA(img.Bounds())
	draw.Draw(rgb, rgb.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(rgb, rgb.Bounds(), img, img.Bounds().Min, draw.Over)
	return rgb
}

// Encode re-encodes the image as JPEG or WebP at the given quality.
func Encode(img image.Image, format string, quality int) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)

	switch format {
	case FormatWebP:
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
		if err != nil {
			return nil, fmt.Errorf("error creating encoder options: %w", err)
		}
		if err := webp.Encode(buf, img, options); err != nil {
			return nil, fmt.Errorf("error encoding WebP image: %w", err)
		}
	default:
		if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("error encoding JPEG image: %w", err)
		}
	}

	return buf, nil
}

// OutputExt returns the canonical file extension for an output format.
func OutputExt(format string) string {
	if format == FormatWebP {
		return ".webp"
	}
	return ".jpg"
}
