package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadMissingWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picsort.json")

	result := Load(path)
	if !errors.Is(result.Err, ErrConfigurationMissing) {
		t.Errorf("Expected ErrConfigurationMissing, got %v", result.Err)
	}
	if result.Status != "Default" {
		t.Errorf("Expected status Default, got %s", result.Status)
	}
	if len(result.Config.Categories) != 0 {
		t.Errorf("Expected no categories, got %v", result.Config.Categories)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected template to be written: %v", err)
	}

	// The template itself still has no categories.
	again := Load(path)
	if !errors.Is(again.Err, ErrConfigurationMissing) {
		t.Errorf("Expected ErrConfigurationMissing from template, got %v", again.Err)
	}
	if again.HasError {
		t.Errorf("Expected template to parse cleanly, warnings: %v", again.Warnings)
	}
}

func TestLoadJSONAndYAMLAgree(t *testing.T) {
	jsonPath := writeConfig(t, "c.json", `{"categories": ["cats", "dogs", "birds"], "sort_method": 1}`)
	yamlPath := writeConfig(t, "c.yaml", "categories:\n  - cats\n  - dogs\n  - birds\nsort_method: 1\n")

	jr := Load(jsonPath)
	yr := Load(yamlPath)

	for name, r := range map[string]ConfigLoadResult{"json": jr, "yaml": yr} {
		if r.Err != nil || r.HasError {
			t.Errorf("%s: unexpected error %v (warnings %v)", name, r.Err, r.Warnings)
		}
		if r.Status != "OK" {
			t.Errorf("%s: expected status OK, got %s", name, r.Status)
		}
	}
	if !reflect.DeepEqual(jr.Config, yr.Config) {
		t.Errorf("Expected JSON and YAML to produce the same config\njson: %+v\nyaml: %+v", jr.Config, yr.Config)
	}
	if !reflect.DeepEqual(jr.Config.Categories, []string{"cats", "dogs", "birds"}) {
		t.Errorf("Unexpected categories %v", jr.Config.Categories)
	}
	if jr.Config.SortMethod != SortSimple {
		t.Errorf("Expected sort method %d, got %d", SortSimple, jr.Config.SortMethod)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, "bad.json", `{"categories": [`)
	result := Load(path)
	if !result.HasError || result.Status != "Error" {
		t.Errorf("Expected Error status, got %s (HasError=%v)", result.Status, result.HasError)
	}
	if !reflect.DeepEqual(result.Config, Default()) {
		t.Errorf("Expected defaults after a parse error")
	}
}

func TestLoadCategoryCleaning(t *testing.T) {
	path := writeConfig(t, "c.json", `{"categories": [" cats ", "", "a/b", "..", ".", "cats", "dogs"]}`)
	result := Load(path)

	if result.Err != nil {
		t.Errorf("Unexpected error: %v", result.Err)
	}
	expected := []string{"cats", "dogs"}
	if !reflect.DeepEqual(result.Config.Categories, expected) {
		t.Errorf("Expected %v, got %v", expected, result.Config.Categories)
	}
	if result.Status != "Warning" || len(result.Warnings) != 4 {
		t.Errorf("Expected 4 warnings, got %s %v", result.Status, result.Warnings)
	}
}

func TestLoadEmptyCategories(t *testing.T) {
	path := writeConfig(t, "c.json", `{"categories": []}`)
	result := Load(path)
	if !errors.Is(result.Err, ErrConfigurationMissing) {
		t.Errorf("Expected ErrConfigurationMissing, got %v", result.Err)
	}
	if result.Config.WindowWidth != defaultWidth {
		t.Errorf("Expected the rest of the config to load")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, c Config)
	}{
		{
			"window too small",
			`{"categories": ["x"], "window_width": 100, "window_height": 50}`,
			func(t *testing.T, c Config) {
				if c.WindowWidth != defaultWidth || c.WindowHeight != defaultHeight {
					t.Errorf("Expected default size, got %dx%d", c.WindowWidth, c.WindowHeight)
				}
			},
		},
		{
			"sort method out of range",
			`{"categories": ["x"], "sort_method": 7}`,
			func(t *testing.T, c Config) {
				if c.SortMethod != SortNatural {
					t.Errorf("Expected natural sort, got %d", c.SortMethod)
				}
			},
		},
		{
			"cache size clamped",
			`{"categories": ["x"], "cache_size": 1000}`,
			func(t *testing.T, c Config) {
				if c.CacheSize != 64 {
					t.Errorf("Expected 64, got %d", c.CacheSize)
				}
			},
		},
		{
			"inverted zoom range",
			`{"categories": ["x"], "min_zoom": 5, "max_zoom": 2}`,
			func(t *testing.T, c Config) {
				if c.MinZoom != defaultMinZoom || c.MaxZoom != defaultMaxZoom {
					t.Errorf("Expected default zoom range, got %v-%v", c.MinZoom, c.MaxZoom)
				}
			},
		},
		{
			"zoom step must enlarge",
			`{"categories": ["x"], "zoom_step": 0.5}`,
			func(t *testing.T, c Config) {
				if c.ZoomStep != defaultZoomStep {
					t.Errorf("Expected default zoom step, got %v", c.ZoomStep)
				}
			},
		},
		{
			"debounce clamped",
			`{"categories": ["x"], "wheel_debounce_ms": -5}`,
			func(t *testing.T, c Config) {
				if c.WheelDebounceMS != 0 {
					t.Errorf("Expected 0, got %d", c.WheelDebounceMS)
				}
			},
		},
		{
			"resample filter normalised",
			`{"categories": ["x"], "resample_filter": "BiLinear"}`,
			func(t *testing.T, c Config) {
				if c.ResampleFilter != "bilinear" {
					t.Errorf("Expected bilinear, got %s", c.ResampleFilter)
				}
			},
		},
		{
			"unknown resample filter",
			`{"categories": ["x"], "resample_filter": "lanczos"}`,
			func(t *testing.T, c Config) {
				if c.ResampleFilter != defaultResampleFilter {
					t.Errorf("Expected %s, got %s", defaultResampleFilter, c.ResampleFilter)
				}
			},
		},
		{
			"double click time out of range",
			`{"categories": ["x"], "mouse_settings": {"enable_mouse": true, "double_click_time": 5}}`,
			func(t *testing.T, c Config) {
				if c.MouseSettings.DoubleClickTime != 300 {
					t.Errorf("Expected 300, got %d", c.MouseSettings.DoubleClickTime)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Load(writeConfig(t, "c.json", tt.content))
			if result.HasError {
				t.Fatalf("Unexpected parse error: %v", result.Warnings)
			}
			tt.check(t, result.Config)
		})
	}
}

func TestLoadKeybindings(t *testing.T) {
	t.Run("partial override keeps other defaults", func(t *testing.T) {
		result := Load(writeConfig(t, "c.json", `{"categories": ["x"], "keybindings": {"next": ["KeyN"]}}`))
		if !reflect.DeepEqual(result.Config.Keybindings["next"], []string{"KeyN"}) {
			t.Errorf("Expected override, got %v", result.Config.Keybindings["next"])
		}
		if !reflect.DeepEqual(result.Config.Keybindings["undo"], GetDefaultKeybindings()["undo"]) {
			t.Errorf("Expected default undo binding, got %v", result.Config.Keybindings["undo"])
		}
	})

	t.Run("conflict falls back to defaults", func(t *testing.T) {
		result := Load(writeConfig(t, "c.json", `{"categories": ["x"], "keybindings": {"undo": ["KeyD"]}}`))
		if !reflect.DeepEqual(result.Config.Keybindings, GetDefaultKeybindings()) {
			t.Errorf("Expected default keybindings after a conflict")
		}
		if result.Status != "Warning" {
			t.Errorf("Expected Warning status, got %s", result.Status)
		}
	})

	t.Run("invalid mouse binding falls back to defaults", func(t *testing.T) {
		result := Load(writeConfig(t, "c.json", `{"categories": ["x"], "mousebindings": {"next": ["Hyper+LeftClick"]}}`))
		if !reflect.DeepEqual(result.Config.Mousebindings, GetDefaultMousebindings()) {
			t.Errorf("Expected default mouse bindings")
		}
	})
}

func TestValidateKeyString(t *testing.T) {
	validKeys := ValidKeyNames()
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"KeyA", false},
		{"Ctrl+KeyZ", false},
		{"Shift+Slash", false},
		{"shift+alt+Key1", false},
		{"", true},
		{"KeyAA", true},
		{"Super+KeyA", true},
		{"Ctrl+", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := validateKeyString(tt.key, validKeys)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateKeyString(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultBindingsAreValid(t *testing.T) {
	if err := validateKeybindings(GetDefaultKeybindings()); err != nil {
		t.Errorf("Default keybindings are invalid: %v", err)
	}
	if err := validateMousebindings(GetDefaultMousebindings()); err != nil {
		t.Errorf("Default mouse bindings are invalid: %v", err)
	}

	for n := 1; n <= MaxCategorySlots; n++ {
		if _, ok := GetDefaultKeybindings()[CategoryAction(n)]; !ok {
			t.Errorf("Missing default binding for %s", CategoryAction(n))
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.json", "out.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			c := Default()
			c.Categories = []string{"keep", "trash"}
			c.ZoomStep = 1.25
			if err := Save(c, path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			result := Load(path)
			if result.Err != nil {
				t.Fatalf("Load failed: %v", result.Err)
			}
			if !reflect.DeepEqual(result.Config, c) {
				t.Errorf("Expected %+v, got %+v", c, result.Config)
			}
		})
	}
}
