package main

import (
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultTextureCacheSize = 4

// TextureManager uploads rendered bitmaps to the GPU. A bitmap is uploaded
// once; later frames that return the same cached bitmap reuse the texture.
type TextureManager struct {
	textures *lru.Cache[*image.RGBA, *ebiten.Image]

	source    image.Image
	sourceTex *ebiten.Image

	errorKey string
	errorTex *ebiten.Image
}

// NewTextureManager creates a TextureManager keeping at most size textures.
func NewTextureManager(size int) *TextureManager {
	deallocate := func(_ *image.RGBA, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	}
	textures, err := lru.NewWithEvict[*image.RGBA, *ebiten.Image](size, deallocate)
	if err != nil {
		log.Printf("Error: Failed to create texture cache: %v", err)
		textures, _ = lru.NewWithEvict[*image.RGBA, *ebiten.Image](defaultTextureCacheSize, deallocate)
	}
	return &TextureManager{textures: textures}
}

// Texture returns the GPU copy of a rendered bitmap.
func (m *TextureManager) Texture(img *image.RGBA) *ebiten.Image {
	if tex, ok := m.textures.Get(img); ok {
		return tex
	}
	tex := ebiten.NewImageFromImage(img)
	m.textures.Add(img, tex)
	debugLog("Texture upload: %dx%d (textures: %d)", img.Bounds().Dx(), img.Bounds().Dy(), m.textures.Len())
	return tex
}

// SourceTexture returns the full resolution source as a texture. It is used
// when a zoomed render is too large to resample on the CPU.
func (m *TextureManager) SourceTexture(src image.Image) *ebiten.Image {
	if m.sourceTex != nil && m.source == src {
		return m.sourceTex
	}
	if m.sourceTex != nil {
		m.sourceTex.Deallocate()
	}
	m.source = src
	m.sourceTex = ebiten.NewImageFromImage(src)
	debugLog("Source texture upload: %dx%d", src.Bounds().Dx(), src.Bounds().Dy())
	return m.sourceTex
}

// ErrorTexture returns the placeholder shown for a file that failed to decode.
func (m *TextureManager) ErrorTexture(path string, err error) *ebiten.Image {
	key := path + "\x00" + err.Error()
	if m.errorTex != nil && m.errorKey == key {
		return m.errorTex
	}
	if m.errorTex != nil {
		m.errorTex.Deallocate()
	}
	m.errorKey = key
	m.errorTex = CreateErrorImage(480, 160, path, err.Error())
	return m.errorTex
}

// Purge releases every texture. Called whenever the displayed file changes.
func (m *TextureManager) Purge() {
	m.textures.Purge()
	if m.sourceTex != nil {
		m.sourceTex.Deallocate()
		m.sourceTex = nil
		m.source = nil
	}
}
