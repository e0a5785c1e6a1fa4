// internal/services/image.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	// Registered decoders for accepted upload formats.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/image/draw"
)

const ImageContentType = "image/png"

// ErrTooManyPixels is returned for images whose declared dimensions exceed
// the pixel limit. The header is checked before any pixel buffer is allocated.
var ErrTooManyPixels = errors.New("image dimensions exceed the pixel limit")

// NormalizeImage decodes any supported raster format and re-encodes it as
// PNG with non-premultiplied RGBA pixels. It returns the source format name.
// maxPixels <= 0 disables the dimension check.
func NormalizeImage(data []byte, maxPixels int64) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	rgba, ok := src.(*image.NRGBA)
	if !ok {
		b := src.Bounds()
		rgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, rgba); err != nil {
		return nil, "", fmt.Errorf("failed to encode png: %w", err)
	}

	return buf.Bytes(), format, nil
}
