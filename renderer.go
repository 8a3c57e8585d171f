package main

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"picsort/internal/config"
	"picsort/internal/session"
	"picsort/internal/workflow"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}

	colorBackground = color.RGBA{32, 32, 32, 255}
	colorStatusBar  = color.RGBA{20, 20, 20, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
)

const (
	helpPadding   = 40.0
	minHelpFont   = 10.0
	maxWarnings   = 2
	maxWarningLen = 60
)

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
}

// NewRenderer creates a new Renderer
func NewRenderer(renderState RenderState) *Renderer {
	return &Renderer{renderState: renderState}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	st := r.renderState.GetStatus()
	viewH := float64(screen.Bounds().Dy() - statusBarHeight(r.renderState.GetFontSize()))

	// The image area is clipped so panned images never cover the status bar.
	area := screen.SubImage(imageRect(screen, viewH)).(*ebiten.Image)
	if d, ok := r.renderState.GetDrawable(); ok {
		op := &ebiten.DrawImageOptions{GeoM: d.GeoM}
		if d.Scaled {
			op.Filter = ebiten.FilterLinear
		}
		area.DrawImage(d.Image, op)
	} else if errImg, ok := r.renderState.GetErrorImage(); ok {
		r.drawCentered(area, errImg, viewH)
	} else if st.State == workflow.Empty {
		r.drawCenteredText(area, emptyMessage(st), viewH)
	}

	r.drawCategoryLegend(screen)
	r.drawStatusBar(screen, st)

	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

func (r *Renderer) drawCentered(screen, img *ebiten.Image, viewH float64) {
	w := float64(screen.Bounds().Dx())
	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate((w-iw)/2, (viewH-ih)/2)
	screen.DrawImage(img, op)
}

func (r *Renderer) drawCenteredText(screen *ebiten.Image, msg string, viewH float64) {
	font := newFace(r.renderState.GetFontSize() * 1.3)
	tw, th := text.Measure(msg, font, 0)
	x := (float64(screen.Bounds().Dx()) - tw) / 2
	DrawText(screen, msg, font, x, (viewH-th)/2, colorGray)
}

// drawStatusBar draws file details on the left and the queue count on the right
func (r *Renderer) drawStatusBar(screen *ebiten.Image, st session.Status) {
	fontSize := r.renderState.GetFontSize()
	barH := float64(statusBarHeight(fontSize))
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, h-barH, w, barH, colorStatusBar)

	font := newFace(fontSize)
	textY := h - barH + (barH-fontSize)/2 - 2

	left := statusLeft(st)
	leftColor := colorWhite
	if st.LoadErr != nil {
		leftColor = colorLightRed
	}
	DrawText(screen, left, font, 10, textY, leftColor)

	right := statusRight(st)
	rw, _ := text.Measure(right, font, 0)
	DrawText(screen, right, font, w-rw-10, textY, colorGray)
}

// drawCategoryLegend lists the shortcut of every category in the top left corner
func (r *Renderer) drawCategoryLegend(screen *ebiten.Image) {
	lines := categoryLegend(r.renderState.GetCategories())
	if len(lines) == 0 {
		return
	}
	font := newFace(r.renderState.GetFontSize())
	lineHeight := r.renderState.GetFontSize() * 1.4

	maxW := 0.0
	for _, line := range lines {
		lw, _ := text.Measure(line, font, 0)
		maxW = max(maxW, lw)
	}
	pad := 8.0
	DrawFilledRect(screen, pad, pad, maxW+pad*2, float64(len(lines))*lineHeight+pad*2, bgColorLight)
	for i, line := range lines {
		DrawText(screen, line, font, pad*2, pad*2+float64(i)*lineHeight, colorWhite)
	}
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	lines := helpLines(config.ActionDefinitions(), r.renderState.GetKeybindings(), r.renderState.GetMousebindings())
	configStatus := r.renderState.GetConfigStatus()

	fontSize, ok := r.calculateOptimalFontSize(lines, configStatus, w-helpPadding*2, h-helpPadding*2)
	if !ok {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)

	helpFont := newFace(fontSize)
	lineHeight := fontSize * 1.5
	cols := measureHelpColumns(lines, helpFont)

	currentY := helpPadding + 20
	DrawText(screen, "Controls (Keyboard | Mouse):", helpFont, helpPadding+20, currentY, colorWhite)
	currentY += lineHeight * 1.5

	actionX := helpPadding + 40
	inputX := actionX + cols.action + 30
	descX := inputX + cols.input + 20

	for _, line := range lines {
		DrawText(screen, line.Action, helpFont, actionX, currentY, colorLightBlue)

		x := inputX
		if line.Keys != "" {
			DrawText(screen, line.Keys, helpFont, x, currentY, colorYellow)
			kw, _ := text.Measure(line.Keys, helpFont, 0)
			x += kw
		}
		if line.Keys != "" && line.Mouse != "" {
			DrawText(screen, " | ", helpFont, x, currentY, colorWhite)
			sw, _ := text.Measure(" | ", helpFont, 0)
			x += sw
		}
		if line.Mouse != "" {
			DrawText(screen, line.Mouse, helpFont, x, currentY, colorCyan)
		}

		DrawText(screen, line.Description, helpFont, descX, currentY, colorGray)
		currentY += lineHeight
	}

	currentY += lineHeight
	DrawText(screen, "Wheel zooms at the cursor, left drag pans.", helpFont, helpPadding+20, currentY, colorGray)
	currentY += lineHeight

	statusColor := colorGreen
	if configStatus.Status != "OK" {
		statusColor = colorOrange
	}
	DrawText(screen, "Config Status: "+configStatus.Status, helpFont, helpPadding+20, currentY, statusColor)
	currentY += lineHeight

	for _, warning := range shortWarnings(configStatus) {
		DrawText(screen, "• "+warning, helpFont, helpPadding+40, currentY, colorLightRed)
		currentY += lineHeight
	}
}

// helpColumns holds the measured widths of the help table columns
type helpColumns struct {
	action, input, desc float64
}

func measureHelpColumns(lines []helpLine, font *text.GoTextFace) helpColumns {
	var cols helpColumns
	for _, line := range lines {
		aw, _ := text.Measure(line.Action, font, 0)
		iw, _ := text.Measure(line.Input(), font, 0)
		dw, _ := text.Measure(line.Description, font, 0)
		cols.action = max(cols.action, aw)
		cols.input = max(cols.input, iw)
		cols.desc = max(cols.desc, dw)
	}
	return cols
}

// calculateRequiredDimensions calculates the size of the help content at a given font size
func (r *Renderer) calculateRequiredDimensions(lines []helpLine, configStatus config.ConfigLoadResult, fontSize float64) (float64, float64) {
	font := newFace(fontSize)
	lineHeight := fontSize * 1.5
	cols := measureHelpColumns(lines, font)

	width := 40 + cols.action + 30 + cols.input + 20 + cols.desc + helpPadding
	height := 20 + lineHeight*1.5 + float64(len(lines))*lineHeight
	height += lineHeight * 3 // spacing, mouse hint, config status
	height += float64(len(shortWarnings(configStatus))) * lineHeight
	return width, height
}

// calculateOptimalFontSize finds the largest font size that fits within the given dimensions
func (r *Renderer) calculateOptimalFontSize(lines []helpLine, configStatus config.ConfigLoadResult, availableWidth, availableHeight float64) (float64, bool) {
	fits := func(size float64) bool {
		w, h := r.calculateRequiredDimensions(lines, configStatus, size)
		return w <= availableWidth && h <= availableHeight
	}

	maxFontSize := r.renderState.GetFontSize()
	if !fits(minHelpFont) {
		return minHelpFont, false
	}
	if fits(maxFontSize) {
		return maxFontSize, true
	}

	low, high := minHelpFont, maxFontSize
	for high-low > 0.5 {
		mid := (low + high) / 2
		if fits(mid) {
			low = mid
		} else {
			high = mid
		}
	}
	return low, true
}

// drawMarginTooSmallMessage is shown when the help cannot fit the window
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)

	font := newFace(16.0)
	message := "Window too small for help"
	mw, mh := text.Measure(message, font, 0)
	DrawText(screen, message, font, w/2-mw/2, h/2-mh/2, colorWhite)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	messageFont := newFace(r.renderState.GetFontSize())
	message := r.renderState.GetOverlayMessage()

	textWidth, textHeight := text.Measure(message, messageFont, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, message, messageFont, boxX+padding, boxY+padding, colorWhite)
}

// helpLine is one row of the help table
type helpLine struct {
	Action      string
	Keys        string
	Mouse       string
	Description string
}

// Input returns the combined "keys | mouse" column text.
func (l helpLine) Input() string {
	switch {
	case l.Keys != "" && l.Mouse != "":
		return l.Keys + " | " + l.Mouse
	case l.Keys != "":
		return l.Keys
	}
	return l.Mouse
}

// helpLines builds the help rows in definition order, skipping actions
// that have no binding at all.
func helpLines(defs []config.ActionDefinition, keybindings, mousebindings map[string][]string) []helpLine {
	lines := make([]helpLine, 0, len(defs))
	for _, def := range defs {
		keys := keybindings[def.Name]
		mouse := mousebindings[def.Name]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		lines = append(lines, helpLine{
			Action:      def.Name,
			Keys:        strings.Join(keys, ", "),
			Mouse:       strings.Join(mouse, ", "),
			Description: def.Description,
		})
	}
	return lines
}

func shortWarnings(result config.ConfigLoadResult) []string {
	var out []string
	for i, warning := range result.Warnings {
		if i >= maxWarnings {
			break
		}
		out = append(out, truncate(warning, maxWarningLen))
	}
	return out
}

// statusBarHeight returns the height in pixels of the bottom status bar.
func statusBarHeight(fontSize float64) int {
	return int(fontSize*1.6) + 8
}

// statusLeft describes the current file, its size, zoom and capture date.
func statusLeft(st session.Status) string {
	if st.State == workflow.Empty {
		return emptyMessage(st)
	}
	if st.LoadErr != nil {
		return fmt.Sprintf("%s | failed to load", st.File)
	}
	s := fmt.Sprintf("%s | %d×%d px | Zoom: %.2f×", st.File, st.ImageW, st.ImageH, st.Zoom)
	if !st.Taken.IsZero() {
		s += " | " + st.Taken.Format("2006-01-02 15:04")
	}
	if st.Camera != "" {
		s += " | " + st.Camera
	}
	return s
}

// statusRight shows the queue position and what is left to sort.
func statusRight(st session.Status) string {
	if st.State == workflow.Empty {
		return fmt.Sprintf("Remaining: 0 of %d", st.Total)
	}
	s := fmt.Sprintf("%d/%d | Remaining: %d of %d", st.Index+1, st.Remaining, st.Remaining, st.Total)
	if st.CanUndo {
		s += " | undo available"
	}
	return s
}

func emptyMessage(st session.Status) string {
	if st.Total > 0 {
		return "All images sorted"
	}
	return "No images to sort"
}

// categoryLegend returns "n  label" lines for the categories reachable by shortcut.
func categoryLegend(categories []string) []string {
	lines := make([]string, 0, len(categories))
	for i, category := range categories {
		if i >= session.MaxSlots {
			break
		}
		lines = append(lines, fmt.Sprintf("%d  %s", i+1, category))
	}
	return lines
}

// imageRect is the part of the screen above the status bar.
func imageRect(screen *ebiten.Image, viewH float64) image.Rectangle {
	b := screen.Bounds()
	return image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+int(max(viewH, 1)))
}
