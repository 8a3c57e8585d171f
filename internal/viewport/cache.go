package viewport

import (
	"image"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
)

const defaultCacheSize = 16

// CacheKey identifies a rendered bitmap by source and target resolution.
type CacheKey struct {
	SrcW, SrcH int
	DstW, DstH int
}

// CacheStats provides statistics about render cache usage
type CacheStats struct {
	Entries int
	Hits    int
	Misses  int
	Evicted int
}

// RenderCache holds resampled bitmaps for the current source image.
// Entries are never valid across source images; the owner purges it on load.
type RenderCache struct {
	entries *lru.Cache[CacheKey, *image.RGBA]
	stats   CacheStats
}

// NewRenderCache creates a cache holding at most size target resolutions.
func NewRenderCache(size int) *RenderCache {
	c := &RenderCache{}
	entries, err := lru.NewWithEvict[CacheKey, *image.RGBA](size, c.onEvict)
	if err != nil {
		log.Printf("Error: Failed to create render cache of size %d: %v", size, err)
		entries, _ = lru.NewWithEvict[CacheKey, *image.RGBA](defaultCacheSize, c.onEvict)
	}
	c.entries = entries
	return c
}

func (c *RenderCache) onEvict(_ CacheKey, _ *image.RGBA) {
	c.stats.Evicted++
}

// Get returns the cached bitmap for key and records a hit or miss.
func (c *RenderCache) Get(key CacheKey) (*image.RGBA, bool) {
	img, ok := c.entries.Get(key)
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return img, ok
}

// Add stores a bitmap, replacing any entry with the same key.
func (c *RenderCache) Add(key CacheKey, img *image.RGBA) {
	c.entries.Add(key, img)
}

// Purge drops every entry.
func (c *RenderCache) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached resolutions.
func (c *RenderCache) Len() int {
	return c.entries.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *RenderCache) Stats() CacheStats {
	s := c.stats
	s.Entries = c.entries.Len()
	return s
}

// resample scales src to exactly w x h pixels.
func resample(src image.Image, w, h int, filter draw.Interpolator) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	filter.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// FilterByName maps a configuration name to a resampling filter.
// Unknown names fall back to Catmull-Rom.
func FilterByName(name string) draw.Interpolator {
	switch name {
	case "nearest":
		return draw.NearestNeighbor
	case "approxbilinear":
		return draw.ApproxBiLinear
	case "bilinear":
		return draw.BiLinear
	default:
		return draw.CatmullRom
	}
}
