// Package imaging decodes uploaded screenshots, shrinks them for the vision
// models and renders share cards.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/yungbote/roastmycode-backend/internal/platform/dataurl"
)

const (
	MaxEdge     = 1600
	JPEGQuality = 85
	// MaxPixels bounds the declared dimensions accepted for decoding; the
	// decoders allocate the full pixel buffer up front.
	MaxPixels = 40_000_000
)

var (
	ErrEmptyImage   = errors.New("imaging: empty image")
	ErrInvalidImage = errors.New("imaging: invalid image data")
	// ErrUnsupportedFormat means the payload decoded as base64 but no image
	// decoder recognised it.
	ErrUnsupportedFormat = errors.New("imaging: unsupported image format")
	ErrImageTooLarge     = fmt.Errorf("%w: dimensions too large", ErrInvalidImage)
)

// DecodeDataURL accepts "data:image/<fmt>;base64,<payload>" or a bare base64
// payload and returns the raw bytes.
func DecodeDataURL(s string) ([]byte, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyImage
	}
	_, raw, err := dataurl.Decode(s)
	if err != nil {
		return nil, ErrInvalidImage
	}
	if len(raw) == 0 {
		return nil, ErrEmptyImage
	}
	return raw, nil
}

// EncodeDataURL wraps raw file bytes in a data URL, sniffing the type.
func EncodeDataURL(raw []byte) string {
	ct := http.DetectContentType(raw)
	if !strings.HasPrefix(ct, "image/") {
		ct = "image/png"
	}
	return dataurl.Encode(ct, raw)
}

// PrepareForVision decodes an uploaded image, downsizes it so the long edge
// is at most MaxEdge and returns it as a JPEG data URL.
func PrepareForVision(dataURL string) (string, error) {
	raw, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if errors.Is(err, image.ErrFormat) {
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", ErrImageTooLarge
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	out, err := EncodeJPEG(Downscale(img, MaxEdge))
	if err != nil {
		return "", err
	}
	return dataurl.Encode("image/jpeg", out), nil
}

// Downscale returns img unchanged when it already fits within maxEdge.
func Downscale(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}
	nw, nh := maxEdge, maxEdge
	if w >= h {
		nh = max(1, h*maxEdge/w)
	} else {
		nw = max(1, w*maxEdge/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func EncodeJPEG(img image.Image) ([]byte, error) {
	// JPEG has no alpha; flatten onto white so transparent screenshots stay legible.
	b := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
