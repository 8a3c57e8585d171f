// Package viewport turns a continuous zoom/pan state into cached, resampled
// bitmaps for display.
//
// All coordinates are in viewport pixels with the origin at the top-left of
// the viewport. Pan is the position of the image's top-left corner.
package viewport

import (
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"golang.org/x/image/draw"
)

const (
	DefaultMinZoom         = 0.05
	DefaultMaxZoom         = 20.0
	DefaultZoomStep        = 1.15
	DefaultDebounce        = 100 * time.Millisecond
	DefaultMaxRenderPixels = 64 << 20

	// Used when the viewport has not been laid out yet.
	fallbackWidth  = 800
	fallbackHeight = 600
)

var (
	// ErrNoImage is returned when rendering without a loaded source.
	ErrNoImage = errors.New("no image loaded")
	// ErrTargetTooLarge is returned when the requested render would exceed
	// the configured pixel budget.
	ErrTargetTooLarge = errors.New("render target too large")
)

// Point is a position in viewport space.
type Point struct {
	X, Y float64
}

// Config tunes the engine.
type Config struct {
	MinZoom         float64
	MaxZoom         float64
	ZoomStep        float64 // scale factor per wheel step
	Debounce        time.Duration
	CacheSize       int
	MaxRenderPixels int
	Filter          draw.Interpolator
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		MinZoom:         DefaultMinZoom,
		MaxZoom:         DefaultMaxZoom,
		ZoomStep:        DefaultZoomStep,
		Debounce:        DefaultDebounce,
		CacheSize:       defaultCacheSize,
		MaxRenderPixels: DefaultMaxRenderPixels,
		Filter:          draw.CatmullRom,
	}
}

// State is the observable transform.
type State struct {
	Loaded  bool
	Zoom    float64
	Pan     Point
	SourceW int
	SourceH int
}

// Frame is one render result. Image is owned by the cache and must not be
// modified by the caller.
type Frame struct {
	Image  *image.RGBA
	Key    CacheKey
	Origin Point // top-left corner in viewport space (the pan offset)
	Center Point // Origin + size/2
	Hit    bool  // served from cache
}

// Viewport owns the transform of one source image and its render cache.
type Viewport struct {
	cfg Config

	source image.Image
	srcW   int
	srcH   int
	zoom   float64
	pan    Point
	viewW  int
	viewH  int
	cache  *RenderCache
	wheel  *debouncer
}

// New creates an empty viewport.
func New(cfg Config) *Viewport {
	def := DefaultConfig()
	if cfg.MinZoom <= 0 {
		cfg.MinZoom = def.MinZoom
	}
	if cfg.MaxZoom < cfg.MinZoom {
		cfg.MaxZoom = def.MaxZoom
	}
	if cfg.ZoomStep <= 1 {
		cfg.ZoomStep = def.ZoomStep
	}
	if cfg.MaxRenderPixels <= 0 {
		cfg.MaxRenderPixels = def.MaxRenderPixels
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = def.CacheSize
	}
	if cfg.Filter == nil {
		cfg.Filter = def.Filter
	}

	return &Viewport{
		cfg:   cfg,
		zoom:  1,
		viewW: fallbackWidth,
		viewH: fallbackHeight,
		cache: NewRenderCache(cfg.CacheSize),
		wheel: newDebouncer(cfg.Debounce),
	}
}

// Load replaces the source image, invalidates every cached render and frames
// the new image to fit the viewport.
func (v *Viewport) Load(img image.Image, viewW, viewH int) State {
	v.cache.Purge()
	v.source = img
	b := img.Bounds()
	v.srcW, v.srcH = b.Dx(), b.Dy()
	v.zoom = 1
	v.pan = Point{}
	v.FitToViewport(viewW, viewH)
	return v.State()
}

// Clear drops the source image and its renders.
func (v *Viewport) Clear() {
	v.cache.Purge()
	v.source = nil
	v.srcW, v.srcH = 0, 0
	v.zoom = 1
	v.pan = Point{}
}

// Loaded reports whether a source image is active.
func (v *Viewport) Loaded() bool {
	return v.source != nil && v.srcW > 0 && v.srcH > 0
}

// Source returns the active source image, or nil.
func (v *Viewport) Source() image.Image {
	return v.source
}

// State returns the current transform.
func (v *Viewport) State() State {
	return State{
		Loaded:  v.Loaded(),
		Zoom:    v.zoom,
		Pan:     v.pan,
		SourceW: v.srcW,
		SourceH: v.srcH,
	}
}

// Zoom returns the current zoom level.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// Pan returns the current pan offset.
func (v *Viewport) Pan() Point {
	return v.pan
}

// ViewSize returns the viewport size used by the last fit.
func (v *Viewport) ViewSize() (int, int) {
	return v.viewW, v.viewH
}

// FitToViewport scales the image to fill the viewport on at least one axis,
// preserving aspect ratio, and centres it. Degenerate viewport sizes are
// replaced by a fallback so the scale never collapses.
func (v *Viewport) FitToViewport(viewW, viewH int) (float64, Point) {
	if viewW <= 1 || viewH <= 1 {
		viewW, viewH = fallbackWidth, fallbackHeight
	}
	v.viewW, v.viewH = viewW, viewH

	if !v.Loaded() {
		return v.zoom, v.pan
	}

	iw, ih := float64(v.srcW), float64(v.srcH)
	vw, vh := float64(viewW), float64(viewH)

	v.zoom = v.clamp(math.Min(vw/iw, vh/ih))
	v.pan = Point{
		X: (vw - iw*v.zoom) / 2,
		Y: (vh - ih*v.zoom) / 2,
	}
	return v.zoom, v.pan
}

// ZoomAt scales by ZoomStep^steps while keeping the source pixel under
// cursor fixed.
func (v *Viewport) ZoomAt(cursor Point, steps int) (float64, Point) {
	if !v.Loaded() || steps == 0 {
		return v.zoom, v.pan
	}

	factor := math.Pow(v.cfg.ZoomStep, float64(steps))
	newZoom := v.clamp(v.zoom * factor)

	// cursor position in source coordinates under the current transform
	relX := (cursor.X - v.pan.X) / v.zoom
	relY := (cursor.Y - v.pan.Y) / v.zoom

	v.pan = Point{
		X: cursor.X - relX*newZoom,
		Y: cursor.Y - relY*newZoom,
	}
	v.zoom = newZoom
	return v.zoom, v.pan
}

// WheelZoom is ZoomAt behind the wheel debounce. It returns false when the
// event was dropped.
func (v *Viewport) WheelZoom(now time.Time, cursor Point, steps int) bool {
	if steps == 0 || !v.Loaded() {
		return false
	}
	if !v.wheel.allow(now) {
		return false
	}
	v.ZoomAt(cursor, steps)
	return true
}

// ZoomStep zooms around the centre of the viewport.
func (v *Viewport) ZoomStep(steps int) (float64, Point) {
	centre := Point{X: float64(v.viewW) / 2, Y: float64(v.viewH) / 2}
	return v.ZoomAt(centre, steps)
}

// PanBy moves the image by the given viewport delta.
func (v *Viewport) PanBy(dx, dy float64) Point {
	if !v.Loaded() {
		return v.pan
	}
	v.pan.X += dx
	v.pan.Y += dy
	return v.pan
}

// TargetSize returns the bitmap size for the current zoom.
func (v *Viewport) TargetSize() (int, int) {
	w := int(math.Round(float64(v.srcW) * v.zoom))
	h := int(math.Round(float64(v.srcH) * v.zoom))
	return max(w, 1), max(h, 1)
}

// Render returns the bitmap for the current zoom, resampling on a cache miss.
// The viewport size is recorded so later centre-anchored zooms use it.
func (v *Viewport) Render(viewW, viewH int) (Frame, error) {
	if !v.Loaded() {
		return Frame{}, ErrNoImage
	}
	if viewW > 1 && viewH > 1 {
		v.viewW, v.viewH = viewW, viewH
	}

	dstW, dstH := v.TargetSize()
	key := CacheKey{SrcW: v.srcW, SrcH: v.srcH, DstW: dstW, DstH: dstH}
	frame := Frame{
		Key:    key,
		Origin: v.pan,
		Center: Point{
			X: v.pan.X + float64(dstW)/2,
			Y: v.pan.Y + float64(dstH)/2,
		},
	}

	if img, ok := v.cache.Get(key); ok {
		frame.Image = img
		frame.Hit = true
		return frame, nil
	}

	if dstW*dstH > v.cfg.MaxRenderPixels {
		return frame, fmt.Errorf("%w: %dx%d", ErrTargetTooLarge, dstW, dstH)
	}

	img := resample(v.source, dstW, dstH, v.cfg.Filter)
	v.cache.Add(key, img)
	frame.Image = img
	return frame, nil
}

// CacheStats returns render cache statistics.
func (v *Viewport) CacheStats() CacheStats {
	return v.cache.Stats()
}

func (v *Viewport) clamp(z float64) float64 {
	return math.Max(v.cfg.MinZoom, math.Min(v.cfg.MaxZoom, z))
}
