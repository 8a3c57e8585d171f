package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"picsort/internal/config"
	"picsort/internal/session"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// Drawable is the image to put on screen together with its placement.
type Drawable struct {
	Image *ebiten.Image
	GeoM  ebiten.GeoM
	// Scaled is set when the GPU scales the source instead of drawing a
	// pre-resampled bitmap 1:1.
	Scaled bool
}

// RenderState provides read-only access to game state for the renderer
type RenderState interface {
	// Rendering data
	GetDrawable() (Drawable, bool)
	GetErrorImage() (*ebiten.Image, bool)
	GetStatus() session.Status
	GetCategories() []string

	// UI state
	IsShowingHelp() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// Display data
	GetFontSize() float64
	GetConfigStatus() config.ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()
	ToggleHelp()
	CopyPath()

	// Session commands: navigation, moves, undo, zoom and pan
	Dispatch(cmd session.Command)

	// Messages
	ShowOverlayMessage(message string)
}
