package imageio

import (
	"image"
	"image/draw"
	"io"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata describes a decoded image for the status bar.
type Metadata struct {
	Format      string
	Width       int // after orientation is applied
	Height      int
	Orientation int // EXIF orientation tag, 0 when absent
	Taken       time.Time
	Camera      string
}

// readMetadata extracts EXIF fields. Files without EXIF (png, bmp, most webp)
// simply yield a zero Metadata.
func readMetadata(r io.Reader) Metadata {
	var meta Metadata

	x, err := exif.Decode(r)
	if err != nil {
		return meta
	}

	if t, err := x.DateTime(); err == nil {
		meta.Taken = t
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if v, err := tag.Int(0); err == nil {
			meta.Orientation = v
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if v, err := tag.StringVal(); err == nil {
			meta.Camera = strings.TrimSpace(v)
		}
	}

	return meta
}

// applyOrientation returns img rotated/flipped so that it displays upright
// for the given EXIF orientation value (1-8). Unknown values are ignored.
func applyOrientation(img image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return img
	}

	src := toRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			var sx, sy int
			switch orientation {
			case 2: // mirrored horizontally
				sx, sy = w-1-x, y
			case 3: // rotated 180
				sx, sy = w-1-x, h-1-y
			case 4: // mirrored vertically
				sx, sy = x, h-1-y
			case 5: // transposed
				sx, sy = y, x
			case 6: // needs 90 clockwise
				sx, sy = y, h-1-x
			case 7: // transversed
				sx, sy = w-1-y, h-1-x
			case 8: // needs 90 counter-clockwise
				sx, sy = w-1-y, x
			}
			si := src.PixOffset(sx, sy)
			di := dst.PixOffset(x, y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}

	return dst
}

// toRGBA returns img as a zero-origin *image.RGBA, converting if needed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
