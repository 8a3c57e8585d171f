package main

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"picsort/internal/config"
	"picsort/internal/session"
	"picsort/internal/viewport"
)

// InputHandler handles all keyboard and mouse input processing
type InputHandler struct {
	inputActions        InputActions
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	actions             []string
	drag                dragTracker
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager) *InputHandler {
	defs := config.ActionDefinitions()
	actions := make([]string, len(defs))
	for i, def := range defs {
		actions[i] = def.Name
	}
	return &InputHandler{
		inputActions:        inputActions,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
		actions:             actions,
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	h.mousebindingManager.BeginFrame(time.Now())

	inputProcessed := false
	for _, action := range h.actions {
		if h.keybindingManager.ExecuteAction(action, h.inputActions) {
			inputProcessed = true
			continue
		}
		if h.mousebindingManager.ExecuteAction(action, h.inputActions) {
			inputProcessed = true
		}
	}

	inputProcessed = h.handleWheelZoom() || inputProcessed
	inputProcessed = h.handleDragPan() || inputProcessed
	return inputProcessed
}

func (h *InputHandler) handleWheelZoom() bool {
	settings := h.mousebindingManager.GetSettings()
	if !settings.EnableMouse {
		return false
	}
	_, wheelY := ebiten.Wheel()
	steps := wheelSteps(wheelY, settings.WheelSensitivity, settings.WheelInverted)
	if steps == 0 {
		return false
	}
	x, y := ebiten.CursorPosition()
	h.inputActions.Dispatch(session.WheelCommand(viewport.Point{X: float64(x), Y: float64(y)}, steps))
	return true
}

func (h *InputHandler) handleDragPan() bool {
	settings := h.mousebindingManager.GetSettings()
	if !settings.EnableMouse || !settings.EnableDragPan {
		return false
	}
	x, y := ebiten.CursorPosition()
	dx, dy, ok := h.drag.update(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), x, y, settings.DragThreshold)
	if !ok {
		return false
	}
	s := settings.DragSensitivity
	h.inputActions.Dispatch(session.PanCommand(float64(dx)*s, float64(dy)*s))
	return true
}

// wheelSteps converts a wheel delta into whole zoom steps. Any movement
// counts as at least one step so fine-grained touchpads still zoom.
func wheelSteps(delta, sensitivity float64, inverted bool) int {
	if inverted {
		delta = -delta
	}
	delta *= sensitivity
	if delta == 0 {
		return 0
	}
	steps := int(math.Round(delta))
	if steps == 0 {
		if delta > 0 {
			return 1
		}
		return -1
	}
	return steps
}

// dragTracker turns button state and cursor positions into pan deltas. A
// press only becomes a drag once the cursor has moved past the threshold,
// so clicks and double clicks do not nudge the image.
type dragTracker struct {
	pressed  bool
	dragging bool
	startX   int
	startY   int
	lastX    int
	lastY    int
}

func (d *dragTracker) update(pressed bool, x, y, threshold int) (int, int, bool) {
	if !pressed {
		d.pressed, d.dragging = false, false
		return 0, 0, false
	}
	if !d.pressed {
		d.pressed = true
		d.startX, d.startY = x, y
		d.lastX, d.lastY = x, y
		return 0, 0, false
	}
	if !d.dragging {
		if abs(x-d.startX) <= threshold && abs(y-d.startY) <= threshold {
			return 0, 0, false
		}
		d.dragging = true
	}
	dx, dy := x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	return dx, dy, dx != 0 || dy != 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
