package photo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"hazardsync/pkg/e"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// withDimensions rewrites the IHDR header of a PNG so it claims w x h pixels
// while the payload stays tiny.
func withDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := append([]byte(nil), data...)
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc after 13 data bytes
	if string(out[12:16]) != "IHDR" {
		t.Fatalf("unexpected png layout")
	}
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

var limits = Constraints{MaxBytes: 1 << 20, MaxDimension: 100}

func TestValidate_Rejections(t *testing.T) {
	t.Parallel()

	valid := encodePNG(t, 10, 10)

	tests := []struct {
		name string
		data []byte
		c    Constraints
	}{
		{name: "missing", data: nil, c: limits},
		{name: "oversized", data: valid, c: Constraints{MaxBytes: int64(len(valid) - 1), MaxDimension: 100}},
		{name: "wrong type", data: []byte("this is plain text, not a picture"), c: limits},
		{name: "truncated png", data: valid[:20], c: limits},
		{name: "too many pixels", data: withDimensions(t, valid, 30000, 30000), c: limits},
		{name: "above explicit pixel cap", data: valid, c: Constraints{MaxBytes: 1 << 20, MaxDimension: 100, MaxPixels: 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.data, tt.c)
			if !errors.Is(err, e.ErrValidation) {
				t.Fatalf("expected validation error got %v", err)
			}
			var ve *e.ValidationError
			if !errors.As(err, &ve) || ve.Field != "photo" {
				t.Fatalf("expected photo field error got %v", err)
			}
		})
	}
}

func TestValidate_AcceptsPNG(t *testing.T) {
	t.Parallel()

	ct, err := Validate(encodePNG(t, 10, 10), limits)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ct != "image/png" {
		t.Fatalf("expected image/png got %q", ct)
	}
}

func TestPrepare_SmallImageUnchanged(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 40, 20)
	p, err := Prepare("pothole.png", data, limits)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ContentType != "image/png" || p.Filename != "pothole.png" {
		t.Fatalf("unexpected photo meta: %s %s", p.Filename, p.ContentType)
	}
	if !bytes.Equal(p.Data, data) {
		t.Fatalf("small image should be stored as captured")
	}
}

func TestPrepare_DownscalesLargeImage(t *testing.T) {
	t.Parallel()

	p, err := Prepare("big.png", encodePNG(t, 300, 150), limits)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ContentType != "image/jpeg" || p.Filename != "big.jpg" {
		t.Fatalf("expected re-encoded jpeg, got %s %s", p.Filename, p.ContentType)
	}

	img, err := jpeg.Decode(bytes.NewReader(p.Data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("expected 100x50 got %dx%d", b.Dx(), b.Dy())
	}
}

func TestOrient_RotateSwapsDimensions(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})

	out := Orient(src, 6)
	if b := out.Bounds(); b.Dx() != 2 || b.Dy() != 4 {
		t.Fatalf("expected 2x4 got %dx%d", b.Dx(), b.Dy())
	}
	// top-left pixel of a 90° clockwise rotation lands in the top-right corner
	r, _, _, _ := out.At(1, 0).RGBA()
	if r == 0 {
		t.Fatalf("expected red pixel at (1,0)")
	}
}

func TestOrientation_NoExif(t *testing.T) {
	t.Parallel()

	if got := Orientation(encodePNG(t, 2, 2)); got != 1 {
		t.Fatalf("expected default orientation 1 got %d", got)
	}
}

func TestPrepare_RejectsHugeDecodedArea(t *testing.T) {
	t.Parallel()

	bomb := withDimensions(t, encodePNG(t, 1, 1), 30000, 30000)
	if len(bomb) > 1024 {
		t.Fatalf("header-only image should stay small, got %d bytes", len(bomb))
	}

	_, err := Prepare("bomb.png", bomb, limits)
	var ve *e.ValidationError
	if !errors.As(err, &ve) || ve.Field != "photo" {
		t.Fatalf("expected photo validation error got %v", err)
	}
}
