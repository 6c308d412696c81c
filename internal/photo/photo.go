// Package photo validates captured photos and normalizes them before they are queued.
package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"hazardsync/internal/domain"
	"hazardsync/pkg/e"
)

const jpegQuality = 85

// DefaultMaxPixels bounds the decoded area when Constraints.MaxPixels is zero.
const DefaultMaxPixels = 50_000_000

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type Constraints struct {
	MaxBytes     int64
	MaxDimension int
	// MaxPixels caps width*height before any full decode.
	MaxPixels int64
}

func (c Constraints) maxPixels() int64 {
	if c.MaxPixels > 0 {
		return c.MaxPixels
	}
	return DefaultMaxPixels
}

// Validate checks presence, size, sniffed content type, decodability and
// decoded area.
func Validate(data []byte, c Constraints) (string, error) {
	if len(data) == 0 {
		return "", e.NewValidationError("photo", "is required")
	}
	if int64(len(data)) > c.MaxBytes {
		return "", e.NewValidationError("photo", fmt.Sprintf("is %d bytes, limit is %d", len(data), c.MaxBytes))
	}

	ct := http.DetectContentType(data)
	if !allowedTypes[ct] {
		return "", e.NewValidationError("photo", fmt.Sprintf("unsupported type %q, expected jpeg, png or webp", ct))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", e.NewValidationError("photo", "is not a readable image")
	}
	if area := int64(cfg.Width) * int64(cfg.Height); area > c.maxPixels() {
		return "", e.NewValidationError("photo",
			fmt.Sprintf("is %dx%d pixels, limit is %d pixels", cfg.Width, cfg.Height, c.maxPixels()))
	}
	return ct, nil
}

// Prepare validates data and returns the photo to store with the report.
// JPEGs carrying an EXIF rotation and images larger than MaxDimension are
// re-encoded as upright, downscaled JPEG.
func Prepare(filename string, data []byte, c Constraints) (domain.Photo, error) {
	ct, err := Validate(data, c)
	if err != nil {
		return domain.Photo{}, err
	}

	out, outType, err := normalize(data, ct, c.MaxDimension)
	if err != nil {
		return domain.Photo{}, e.NewValidationError("photo", err.Error())
	}
	if int64(len(out)) > c.MaxBytes {
		return domain.Photo{}, e.NewValidationError("photo", "exceeds size limit after normalization")
	}

	if outType != ct {
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	}
	if filename == "" || filename == ".jpg" {
		filename = "photo" + extension(outType)
	}

	return domain.Photo{Filename: filename, ContentType: outType, Data: out}, nil
}

func normalize(data []byte, ct string, maxDim int) ([]byte, string, error) {
	orientation := 1
	if ct == "image/jpeg" {
		orientation = Orientation(data)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	if orientation == 1 && cfg.Width <= maxDim && cfg.Height <= maxDim {
		return data, ct, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	img = Orient(img, orientation)
	img = Fit(img, maxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// Orientation returns the EXIF orientation tag, or 1 when absent.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// Orient applies an EXIF orientation (2..8) so the result is upright.
func Orient(img image.Image, orientation int) image.Image {
	if orientation <= 1 || orientation > 8 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	swap := orientation >= 5

	dw, dh := w, h
	if swap {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch orientation {
			case 2:
				dx, dy = w-1-x, y
			case 3:
				dx, dy = w-1-x, h-1-y
			case 4:
				dx, dy = x, h-1-y
			case 5:
				dx, dy = y, x
			case 6:
				dx, dy = h-1-y, x
			case 7:
				dx, dy = h-1-y, w-1-x
			case 8:
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// Fit scales img down, preserving aspect ratio, so neither side exceeds maxDim.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if s := float64(maxDim) / float64(h); s < scale {
		scale = s
	}
	nw := max(1, min(maxDim, int(float64(w)*scale)))
	nh := max(1, min(maxDim, int(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func extension(ct string) string {
	switch ct {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
