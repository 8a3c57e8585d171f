// Package config loads picsort settings from a JSON or YAML file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Window size constants
const (
	defaultWidth  = 1400
	defaultHeight = 900
	minWidth      = 400
	minHeight     = 300
)

// Sort method constants, mirrored from the workflow package
const (
	SortNatural    = 0
	SortSimple     = 1
	SortEntryOrder = 2
)

const (
	defaultFontSize        = 18.0
	defaultCacheSize       = 16
	defaultMinZoom         = 0.05
	defaultMaxZoom         = 20.0
	defaultZoomStep        = 1.15
	defaultWheelDebounceMS = 100
	defaultResampleFilter  = "catmullrom"
	defaultMaxRenderPixels = 64 << 20
)

// ErrConfigurationMissing is reported when the file is absent or lists no
// categories. It is surfaced to the user but never fatal.
var ErrConfigurationMissing = errors.New("configuration missing")

var resampleFilters = map[string]bool{
	"catmullrom":     true,
	"bilinear":       true,
	"approxbilinear": true,
	"nearest":        true,
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
	Err      error  // wraps ErrConfigurationMissing when categories are unusable
}

type Config struct {
	Categories      []string            `json:"categories" yaml:"categories"`
	WindowWidth     int                 `json:"window_width" yaml:"window_width"`
	WindowHeight    int                 `json:"window_height" yaml:"window_height"`
	FontSize        float64             `json:"font_size" yaml:"font_size"`
	SortMethod      int                 `json:"sort_method" yaml:"sort_method"`
	CacheSize       int                 `json:"cache_size" yaml:"cache_size"`
	MinZoom         float64             `json:"min_zoom" yaml:"min_zoom"`
	MaxZoom         float64             `json:"max_zoom" yaml:"max_zoom"`
	ZoomStep        float64             `json:"zoom_step" yaml:"zoom_step"`
	WheelDebounceMS int                 `json:"wheel_debounce_ms" yaml:"wheel_debounce_ms"`
	ResampleFilter  string              `json:"resample_filter" yaml:"resample_filter"`
	MaxRenderPixels int                 `json:"max_render_pixels" yaml:"max_render_pixels"`
	Keybindings     map[string][]string `json:"keybindings" yaml:"keybindings"`
	Mousebindings   map[string][]string `json:"mousebindings" yaml:"mousebindings"`
	MouseSettings   MouseSettings       `json:"mouse_settings" yaml:"mouse_settings"`
}

// Default returns the stock configuration with no categories.
func Default() Config {
	return Config{
		Categories:      []string{},
		WindowWidth:     defaultWidth,
		WindowHeight:    defaultHeight,
		FontSize:        defaultFontSize,
		SortMethod:      SortNatural,
		CacheSize:       defaultCacheSize,
		MinZoom:         defaultMinZoom,
		MaxZoom:         defaultMaxZoom,
		ZoomStep:        defaultZoomStep,
		WheelDebounceMS: defaultWheelDebounceMS,
		ResampleFilter:  defaultResampleFilter,
		MaxRenderPixels: defaultMaxRenderPixels,
		Keybindings:     GetDefaultKeybindings(),
		Mousebindings:   GetDefaultMousebindings(),
		MouseSettings:   GetDefaultMouseSettings(),
	}
}

// DefaultPath returns ~/.picsort.json, or picsort.json when there is no home.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "picsort.json"
	}
	return filepath.Join(homeDir, ".picsort.json")
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads and validates the configuration at configPath. It always
// returns a usable Config; problems are reported through the result.
func Load(configPath string) ConfigLoadResult {
	config := Default()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		result.Status = "Default"
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: Failed to read config file %s: %v", configPath, err)
			result.Err = fmt.Errorf("%w: %v", ErrConfigurationMissing, err)
			return result
		}
		if werr := WriteTemplate(configPath); werr != nil {
			log.Printf("Warning: Failed to write config template %s: %v", configPath, werr)
		}
		result.Err = fmt.Errorf("%w: created %s, add categories to it", ErrConfigurationMissing, configPath)
		return result
	}

	if isYAML(configPath) {
		err = yaml.Unmarshal(data, &config)
	} else {
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		result.Err = fmt.Errorf("%w: %v", ErrConfigurationMissing, err)
		return result
	}

	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("Warning: %s", msg)
		result.Warnings = append(result.Warnings, msg)
		result.Status = "Warning"
	}

	config.Categories, err = cleanCategories(config.Categories, warn)
	if err != nil {
		result.Err = err
		result.Status = "Warning"
	}

	// Validate minimum size
	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	// Validate font size (minimum 8px for readability)
	if config.FontSize < 8.0 {
		config.FontSize = defaultFontSize
	}

	if config.SortMethod < SortNatural || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortNatural
	}

	// Validate cache size (minimum 1, maximum 64)
	if config.CacheSize < 1 {
		config.CacheSize = defaultCacheSize
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}

	if config.MinZoom <= 0 || config.MaxZoom <= 0 || config.MinZoom >= config.MaxZoom {
		if config.MinZoom != defaultMinZoom || config.MaxZoom != defaultMaxZoom {
			warn("Invalid zoom range %.2f-%.2f, using defaults", config.MinZoom, config.MaxZoom)
		}
		config.MinZoom = defaultMinZoom
		config.MaxZoom = defaultMaxZoom
	}

	if config.ZoomStep <= 1.0 || config.ZoomStep > 4.0 {
		config.ZoomStep = defaultZoomStep
	}

	// Validate wheel debounce (minimum 0, maximum 1000)
	if config.WheelDebounceMS < 0 {
		config.WheelDebounceMS = 0
	} else if config.WheelDebounceMS > 1000 {
		config.WheelDebounceMS = 1000
	}

	config.ResampleFilter = strings.ToLower(config.ResampleFilter)
	if !resampleFilters[config.ResampleFilter] {
		warn("Unknown resample filter %q, using %s", config.ResampleFilter, defaultResampleFilter)
		config.ResampleFilter = defaultResampleFilter
	}

	if config.MaxRenderPixels <= 0 {
		config.MaxRenderPixels = defaultMaxRenderPixels
	}

	// Validate keybindings - ensure defaults exist for missing actions
	if config.Keybindings == nil {
		config.Keybindings = GetDefaultKeybindings()
	} else {
		for action, defaultKeys := range GetDefaultKeybindings() {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = defaultKeys
			}
		}
		if err := validateKeybindings(config.Keybindings); err != nil {
			warn("Keybinding errors, using defaults: %v", err)
			config.Keybindings = GetDefaultKeybindings()
		}
	}

	if config.Mousebindings == nil {
		config.Mousebindings = GetDefaultMousebindings()
	} else {
		for action, defaultMouse := range GetDefaultMousebindings() {
			if _, exists := config.Mousebindings[action]; !exists {
				config.Mousebindings[action] = defaultMouse
			}
		}
		if err := validateMousebindings(config.Mousebindings); err != nil {
			warn("Mouse binding errors, using defaults: %v", err)
			config.Mousebindings = GetDefaultMousebindings()
		}
	}

	if config.MouseSettings.WheelSensitivity <= 0 {
		config.MouseSettings.WheelSensitivity = 1.0
	}
	if config.MouseSettings.DoubleClickTime < 100 || config.MouseSettings.DoubleClickTime > 1000 {
		config.MouseSettings.DoubleClickTime = 300
	}
	if config.MouseSettings.DragThreshold < 0 {
		config.MouseSettings.DragThreshold = 5
	}
	if config.MouseSettings.DragSensitivity <= 0 {
		config.MouseSettings.DragSensitivity = 1.0
	}

	result.Config = config
	return result
}

// cleanCategories trims labels and drops the ones that cannot be used as a
// single directory name. An empty result wraps ErrConfigurationMissing.
func cleanCategories(categories []string, warn func(string, ...any)) ([]string, error) {
	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(categories))
	for _, raw := range categories {
		name := strings.TrimSpace(raw)
		switch {
		case name == "":
			continue
		case name == "." || name == "..", strings.ContainsAny(name, `/\`):
			warn("Ignoring category %q: not a plain folder name", raw)
			continue
		case seen[name]:
			warn("Ignoring duplicate category %q", name)
			continue
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}

	if len(cleaned) == 0 {
		return cleaned, fmt.Errorf("%w: no categories configured", ErrConfigurationMissing)
	}
	if len(cleaned) > MaxCategorySlots {
		warn("Only the first %d of %d categories have shortcut keys", MaxCategorySlots, len(cleaned))
	}
	return cleaned, nil
}

// WriteTemplate writes the default configuration, with no categories, to path.
func WriteTemplate(path string) error {
	return Save(Default(), path)
}

// Save writes config to path as YAML or indented JSON depending on the extension.
func Save(config Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
