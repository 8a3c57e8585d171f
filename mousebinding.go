package main

import (
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"picsort/internal/config"
)

// DoubleClickTracker tracks double-click state
type DoubleClickTracker struct {
	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int
}

// register records a click at now and reports whether it completes a
// double click within window.
func (t *DoubleClickTracker) register(button ebiten.MouseButton, now time.Time, window time.Duration) bool {
	if t.clickCount > 0 && t.lastClickButton == button && now.Sub(t.lastClickTime) <= window {
		t.clickCount = 0
		t.lastClickTime = now
		return true
	}
	t.clickCount = 1
	t.lastClickButton = button
	t.lastClickTime = now
	return false
}

// MouseCombination represents a mouse button with optional modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsDoubleClick bool
	Shift         bool
	Ctrl          bool
	Alt           bool
}

// MousebindingManager handles dynamic mouse binding processing. Wheel and
// drag are not bindable; the input handler maps them to zoom and pan.
type MousebindingManager struct {
	mousebindings      map[string][]string
	combinations       map[string][]MouseCombination
	settings           config.MouseSettings
	doubleClickTracker DoubleClickTracker
	doubleClickFrame   map[ebiten.MouseButton]bool
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings config.MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{settings: settings}
	mm.UpdateMousebindings(mousebindings)
	return mm
}

// mouseMapping maps configuration button names to Ebiten mouse buttons
var mouseMapping = map[string]ebiten.MouseButton{
	"LeftClick":   ebiten.MouseButtonLeft,
	"RightClick":  ebiten.MouseButtonRight,
	"MiddleClick": ebiten.MouseButtonMiddle,
	"Back":        ebiten.MouseButton3,
	"Forward":     ebiten.MouseButton4,
}

// parseMouseString parses a mouse string like "Shift+DoubleLeftClick"
func parseMouseString(mouseStr string) (MouseCombination, bool) {
	parts := strings.Split(mouseStr, "+")
	combination := MouseCombination{}

	actionName := parts[len(parts)-1]
	if base, ok := strings.CutPrefix(actionName, "Double"); ok {
		combination.IsDoubleClick = true
		actionName = base
	}
	button, exists := mouseMapping[actionName]
	if !exists {
		return combination, false
	}
	combination.Button = button

	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(modifier) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return combination, false
		}
	}

	return combination, true
}

// BeginFrame samples button presses once per frame so that every binding
// sees the same double-click result.
func (mm *MousebindingManager) BeginFrame(now time.Time) {
	mm.doubleClickFrame = make(map[ebiten.MouseButton]bool)
	if !mm.settings.EnableMouse {
		return
	}
	window := time.Duration(mm.settings.DoubleClickTime) * time.Millisecond
	for _, button := range mouseMapping {
		if inpututil.IsMouseButtonJustPressed(button) {
			mm.doubleClickFrame[button] = mm.doubleClickTracker.register(button, now, window)
		}
	}
}

// isMouseActionTriggered checks if a mouse combination fired this frame
func (mm *MousebindingManager) isMouseActionTriggered(combination MouseCombination) bool {
	if !mm.settings.EnableMouse {
		return false
	}
	if !modifiersMatch(combination.Shift, combination.Ctrl, combination.Alt) {
		return false
	}
	if combination.IsDoubleClick {
		return mm.doubleClickFrame[combination.Button]
	}
	return inpututil.IsMouseButtonJustPressed(combination.Button)
}

// CheckAction checks if any mouse binding for the given action is triggered
func (mm *MousebindingManager) CheckAction(action string) bool {
	for _, combination := range mm.combinations[action] {
		if mm.isMouseActionTriggered(combination) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions) bool {
	if !mm.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions)
}

// GetMousebindings returns the current mouse bindings map (for display purposes)
func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}

// UpdateMousebindings replaces the mouse bindings and parses them once
func (mm *MousebindingManager) UpdateMousebindings(mousebindings map[string][]string) {
	mm.mousebindings = mousebindings
	mm.combinations = make(map[string][]MouseCombination, len(mousebindings))
	for action, bindings := range mousebindings {
		for _, mouseStr := range bindings {
			combination, ok := parseMouseString(mouseStr)
			if !ok {
				log.Printf("Warning: Ignoring mouse binding '%s' for action '%s'", mouseStr, action)
				continue
			}
			mm.combinations[action] = append(mm.combinations[action], combination)
		}
	}
}

// GetSettings returns the current mouse settings
func (mm *MousebindingManager) GetSettings() config.MouseSettings {
	return mm.settings
}
