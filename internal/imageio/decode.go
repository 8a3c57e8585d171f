package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrImageDecodeFailure is returned when a file cannot be opened or decoded.
var ErrImageDecodeFailure = errors.New("image decode failure")

// Extensions lists the recognised image extensions (lower case).
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif", ".webp"}

// IsSupported reports whether path carries a recognised image extension.
// The comparison is case-insensitive.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif", ".webp":
		return true
	default:
		return false
	}
}

// Decode reads the file at path and returns an upright image plus whatever
// metadata could be recovered from it.
func Decode(path string) (image.Image, Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("%w: %s: %v", ErrImageDecodeFailure, path, err)
	}
	return DecodeBytes(data, path)
}

// DecodeBytes decodes an in-memory image. path is only used for messages.
func DecodeBytes(data []byte, path string) (image.Image, Metadata, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("%w: decoding %s: %v", ErrImageDecodeFailure, path, err)
	}

	meta := readMetadata(bytes.NewReader(data))
	meta.Format = format
	img = applyOrientation(img, meta.Orientation)
	b := img.Bounds()
	meta.Width, meta.Height = b.Dx(), b.Dy()

	return img, meta, nil
}
