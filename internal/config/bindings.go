package config

import (
	"fmt"
	"strings"
)

// MaxCategorySlots is the number of categories reachable from the number keys.
const MaxCategorySlots = 9

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// CategoryAction returns the action name bound to category slot n (1-based).
func CategoryAction(n int) string {
	return fmt.Sprintf("category_%d", n)
}

// ActionDefinitions returns every action with its default bindings, in help order.
func ActionDefinitions() []ActionDefinition {
	defs := []ActionDefinition{
		{"exit", []string{"Escape", "KeyQ"}, []string{}, "Quit application"},
		{"help", []string{"Shift+Slash"}, []string{"Alt+RightClick"}, "Show/hide help"},
		{"next", []string{"KeyD", "ArrowRight"}, []string{"Forward"}, "Next image"},
		{"previous", []string{"KeyA", "ArrowLeft"}, []string{"Back"}, "Previous image"},
		{"first", []string{"Home"}, []string{}, "Jump to first image"},
		{"last", []string{"End"}, []string{}, "Jump to last image"},
		{"undo", []string{"KeyU", "Ctrl+KeyZ"}, []string{}, "Undo last move"},
		{"zoom_in", []string{"Equal", "Shift+Equal"}, []string{}, "Zoom in"},
		{"zoom_out", []string{"Minus"}, []string{}, "Zoom out"},
		{"zoom_fit", []string{"KeyR"}, []string{"DoubleLeftClick"}, "Fit image to window"},
		{"copy_path", []string{"KeyC"}, []string{}, "Copy current file path to clipboard"},
	}
	for n := 1; n <= MaxCategorySlots; n++ {
		defs = append(defs, ActionDefinition{
			Name:         CategoryAction(n),
			Keys:         []string{fmt.Sprintf("Key%d", n)},
			MouseActions: []string{},
			Description:  fmt.Sprintf("Move to category %d", n),
		})
	}
	return defs
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range ActionDefinitions() {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range ActionDefinitions() {
		keybindings[action.Name] = action.Keys
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range ActionDefinitions() {
		mousebindings[action.Name] = action.MouseActions
	}
	return mousebindings
}

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `json:"wheel_sensitivity" yaml:"wheel_sensitivity"`
	DoubleClickTime  int     `json:"double_click_time" yaml:"double_click_time"` // milliseconds
	DragThreshold    int     `json:"drag_threshold" yaml:"drag_threshold"`       // pixels
	EnableMouse      bool    `json:"enable_mouse" yaml:"enable_mouse"`
	WheelInverted    bool    `json:"wheel_inverted" yaml:"wheel_inverted"`
	EnableDragPan    bool    `json:"enable_drag_pan" yaml:"enable_drag_pan"`
	DragSensitivity  float64 `json:"drag_sensitivity" yaml:"drag_sensitivity"`
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300,
		DragThreshold:    5,
		EnableMouse:      true,
		WheelInverted:    false,
		EnableDragPan:    true,
		DragSensitivity:  1.0,
	}
}

// validateKeybindings checks key formats and rejects keys bound to two actions
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)
	validKeys := ValidKeyNames()

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			if existingAction, exists := keyToAction[keyStr]; exists && existingAction != action {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	if keyStr == "" {
		return fmt.Errorf("empty key string")
	}
	parts := strings.Split(keyStr, "+")

	// Last part should be the actual key
	keyName := parts[len(parts)-1]
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	return validateModifiers(parts[:len(parts)-1])
}

func validateModifiers(modifiers []string) error {
	for _, m := range modifiers {
		switch strings.ToLower(m) {
		case "shift", "ctrl", "alt":
		default:
			return fmt.Errorf("unknown modifier: %s", m)
		}
	}
	return nil
}

// validateMousebindings validates mouse strings such as "Ctrl+DoubleLeftClick"
func validateMousebindings(mousebindings map[string][]string) error {
	used := make(map[string]string)
	buttons := ValidMouseButtonNames()

	for action, bindings := range mousebindings {
		for _, mouseStr := range bindings {
			if mouseStr == "" {
				return fmt.Errorf("empty mouse binding for action '%s'", action)
			}
			parts := strings.Split(mouseStr, "+")
			name := strings.TrimPrefix(parts[len(parts)-1], "Double")
			if !buttons[name] {
				return fmt.Errorf("invalid mouse action '%s' for action '%s'", mouseStr, action)
			}
			if err := validateModifiers(parts[:len(parts)-1]); err != nil {
				return fmt.Errorf("invalid mouse action '%s' for action '%s': %v", mouseStr, action, err)
			}
			if existing, exists := used[mouseStr]; exists && existing != action {
				return fmt.Errorf("mouse conflict: '%s' is bound to both '%s' and '%s'", mouseStr, existing, action)
			}
			used[mouseStr] = action
		}
	}
	return nil
}

// ValidMouseButtonNames returns the button names accepted in mouse bindings.
func ValidMouseButtonNames() map[string]bool {
	return map[string]bool{
		"LeftClick":   true,
		"RightClick":  true,
		"MiddleClick": true,
		"Back":        true,
		"Forward":     true,
	}
}

// ValidKeyNames returns a set of valid key names
func ValidKeyNames() map[string]bool {
	return map[string]bool{
		// Letters
		"KeyA": true, "KeyB": true, "KeyC": true, "KeyD": true,
		"KeyE": true, "KeyF": true, "KeyG": true, "KeyH": true,
		"KeyI": true, "KeyJ": true, "KeyK": true, "KeyL": true,
		"KeyM": true, "KeyN": true, "KeyO": true, "KeyP": true,
		"KeyQ": true, "KeyR": true, "KeyS": true, "KeyT": true,
		"KeyU": true, "KeyV": true, "KeyW": true, "KeyX": true,
		"KeyY": true, "KeyZ": true,

		// Numbers
		"Key0": true, "Key1": true, "Key2": true, "Key3": true,
		"Key4": true, "Key5": true, "Key6": true, "Key7": true,
		"Key8": true, "Key9": true,

		// Special keys
		"Space": true, "Backspace": true, "Enter": true, "Escape": true,
		"Tab": true, "Home": true, "End": true, "PageUp": true, "PageDown": true,
		"ArrowUp": true, "ArrowDown": true, "ArrowLeft": true, "ArrowRight": true,

		// Punctuation
		"Comma": true, "Period": true, "Slash": true, "Semicolon": true,
		"Quote": true, "Minus": true, "Equal": true,

		// Numpad
		"Numpad0": true, "Numpad1": true, "Numpad2": true, "Numpad3": true,
		"Numpad4": true, "Numpad5": true, "Numpad6": true, "Numpad7": true,
		"Numpad8": true, "Numpad9": true, "NumpadEnter": true,
	}
}
