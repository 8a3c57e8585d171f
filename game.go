package main

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"

	"picsort/internal/config"
	"picsort/internal/imageio"
	"picsort/internal/session"
	"picsort/internal/viewport"
	"picsort/internal/workflow"
)

// Game is the ebiten front end. It owns no sorting state of its own; every
// change goes through the session.
type Game struct {
	session      *session.Session
	config       config.Config
	configPath   string
	configStatus config.ConfigLoadResult

	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	inputHandler        *InputHandler
	renderer            *Renderer
	textures            *TextureManager

	status      session.Status
	shownPath   string
	showHelp    bool
	quit        bool
	tooLargeFor string

	overlayMessage     string
	overlayMessageTime time.Time

	screenW, screenH int
}

// NewGame wires a session to the input and rendering layers.
func NewGame(s *session.Session, result config.ConfigLoadResult, configPath string) *Game {
	g := &Game{
		session:      s,
		config:       result.Config,
		configPath:   configPath,
		configStatus: result,
		textures:     NewTextureManager(defaultTextureCacheSize),
	}
	g.keybindingManager = NewKeybindingManager(result.Config.Keybindings)
	g.mousebindingManager = NewMousebindingManager(result.Config.Mousebindings, result.Config.MouseSettings)
	g.inputHandler = NewInputHandler(g, g.keybindingManager, g.mousebindingManager)
	g.renderer = NewRenderer(g)
	g.status = s.Status()
	return g
}

// LoadDirectory selects the directory to sort.
func (g *Game) LoadDirectory(path string) error {
	st, err := g.session.LoadDirectory(path)
	g.apply(st, err)
	if err == nil {
		debugLog("Loaded %s: %d images (sort: %s)", path, st.Total, g.session.Workflow().SortStrategy().Name())
	}
	return err
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	if g.screenW > 0 && g.screenH > 0 {
		st := g.session.Resize(g.screenW, g.viewportHeight())
		g.status = st
	}

	g.inputHandler.HandleInput()

	if g.quit {
		g.saveWindowSize()
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// viewportHeight is the screen height minus the status bar.
func (g *Game) viewportHeight() int {
	return max(g.screenH-statusBarHeight(g.GetFontSize()), 1)
}

// apply records the result of a session call and surfaces any error.
func (g *Game) apply(st session.Status, err error) {
	g.status = st
	if st.Path != g.shownPath {
		g.textures.Purge()
		g.shownPath = st.Path
		g.tooLargeFor = ""
		ebiten.SetWindowTitle(displayName(st.Path))
	}
	if err != nil {
		log.Printf("Error: %v", err)
		g.ShowOverlayMessage(errorHeadline(err))
	}
}

// InputActions implementation

func (g *Game) Exit() {
	g.quit = true
}

func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

func (g *Game) CopyPath() {
	if g.status.Path == "" {
		return
	}
	if err := clipboard.WriteAll(g.status.Path); err != nil {
		log.Printf("Error: Failed to copy path to clipboard: %v", err)
		g.ShowOverlayMessage("Clipboard unavailable")
		return
	}
	g.ShowOverlayMessage("Copied " + g.status.File)
}

func (g *Game) Dispatch(cmd session.Command) {
	before := g.status
	st, err := g.session.Dispatch(cmd)
	g.apply(st, err)
	if err != nil {
		return
	}

	switch cmd.Kind {
	case session.CmdMoveSlot:
		category, _ := g.session.Category(cmd.Slot)
		debugLog("Moved %s to %s (remaining: %d)", before.Path, category, st.Remaining)
		if st.State == workflow.Empty {
			g.ShowOverlayMessage("All images sorted")
		} else {
			g.ShowOverlayMessage(fmt.Sprintf("%s → %s", before.File, category))
		}
	case session.CmdUndo:
		if before.CanUndo && !st.CanUndo {
			debugLog("Undo restored %s", st.Path)
			g.ShowOverlayMessage("Restored " + st.File)
		}
	}
}

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}

// RenderState implementation

// GetDrawable renders the current transform and returns its texture. When
// the target is too large to resample, the source is scaled on the GPU.
func (g *Game) GetDrawable() (Drawable, bool) {
	frame, err := g.session.Render()
	switch {
	case err == nil:
		if !frame.Hit {
			stats := g.session.CacheStats()
			debugLog("Render cache MISS: %dx%d (entries: %d, hits: %d, misses: %d)",
				frame.Key.DstW, frame.Key.DstH, stats.Entries, stats.Hits, stats.Misses)
		}
		d := Drawable{Image: g.textures.Texture(frame.Image)}
		d.GeoM.Translate(frame.Origin.X, frame.Origin.Y)
		return d, true

	case errors.Is(err, viewport.ErrTargetTooLarge):
		src, ok := g.session.CurrentImage()
		if !ok {
			return Drawable{}, false
		}
		if g.tooLargeFor != g.status.Path {
			log.Printf("Warning: %v, scaling on the GPU", err)
			g.tooLargeFor = g.status.Path
		}
		vs := g.session.ViewportState()
		d := Drawable{Image: g.textures.SourceTexture(src), Scaled: true}
		d.GeoM.Scale(vs.Zoom, vs.Zoom)
		d.GeoM.Translate(vs.Pan.X, vs.Pan.Y)
		return d, true
	}
	return Drawable{}, false
}

// GetErrorImage returns the placeholder for a file that failed to decode.
func (g *Game) GetErrorImage() (*ebiten.Image, bool) {
	if g.status.LoadErr == nil {
		return nil, false
	}
	return g.textures.ErrorTexture(g.status.Path, g.status.LoadErr), true
}

func (g *Game) GetStatus() session.Status {
	return g.status
}

func (g *Game) GetCategories() []string {
	return g.session.Categories()
}

func (g *Game) IsShowingHelp() bool {
	return g.showHelp
}

func (g *Game) GetOverlayMessage() string {
	return g.overlayMessage
}

func (g *Game) GetOverlayMessageTime() time.Time {
	return g.overlayMessageTime
}

func (g *Game) GetFontSize() float64 {
	return g.config.FontSize
}

func (g *Game) GetConfigStatus() config.ConfigLoadResult {
	return g.configStatus
}

func (g *Game) GetKeybindings() map[string][]string {
	return g.keybindingManager.GetKeybindings()
}

func (g *Game) GetMousebindings() map[string][]string {
	return g.mousebindingManager.GetMousebindings()
}

// saveWindowSize stores the window size for the next start, unless the
// configuration could not be parsed.
func (g *Game) saveWindowSize() {
	if g.configStatus.Status == "Error" || g.configPath == "" {
		return
	}
	w, h := ebiten.WindowSize()
	if w == g.config.WindowWidth && h == g.config.WindowHeight {
		return
	}
	g.config.WindowWidth, g.config.WindowHeight = w, h
	if err := config.Save(g.config, g.configPath); err != nil {
		log.Printf("Error: Failed to save config to %s: %v", g.configPath, err)
	}
}

// errorHeadline is the short user-facing text for a session error.
func errorHeadline(err error) string {
	switch {
	case errors.Is(err, workflow.ErrDirectoryInvalid):
		return "Cannot open directory"
	case errors.Is(err, workflow.ErrNoSupportedImages):
		return "No supported images (" + supportedList() + ")"
	case errors.Is(err, imageio.ErrImageDecodeFailure):
		return "Cannot decode image"
	case errors.Is(err, workflow.ErrMoveFailure):
		return "Move failed"
	case errors.Is(err, workflow.ErrUndoFailure):
		return "Undo failed"
	case errors.Is(err, config.ErrConfigurationMissing):
		return "Configuration missing: add categories to the config file"
	}
	return err.Error()
}

func supportedList() string {
	return strings.Join(imageio.Extensions, " ")
}

// displayName trims a path for the window title.
func displayName(path string) string {
	if path == "" {
		return "picsort"
	}
	return filepath.Base(path) + " - picsort"
}
