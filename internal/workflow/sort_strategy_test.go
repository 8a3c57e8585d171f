package workflow

import (
	"reflect"
	"testing"
)

// Test data for sorting strategies
func getTestPaths() []string {
	return []string{
		"test/01.png",
		"test/04.jpg",
		"test/08.png",
		"test/09.png",
		"test/2.png",
		"test/３.png",
	}
}

func getExpectedNaturalOrder() []string {
	return []string{
		"test/01.png",
		"test/2.png",
		"test/04.jpg",
		"test/08.png",
		"test/09.png",
		"test/３.png",
	}
}

func getExpectedSimpleOrder() []string {
	return []string{
		"test/01.png",
		"test/04.jpg",
		"test/08.png",
		"test/09.png",
		"test/2.png",
		"test/３.png",
	}
}

func TestSortStrategies(t *testing.T) {
	tests := []struct {
		strategy SortStrategy
		name     string
		id       int
		expected []string
	}{
		{&NaturalSortStrategy{}, "Natural", SortNatural, getExpectedNaturalOrder()},
		{&SimpleSortStrategy{}, "Simple", SortSimple, getExpectedSimpleOrder()},
		{&EntryOrderSortStrategy{}, "Entry Order", SortEntryOrder, getTestPaths()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.strategy.Name() != tt.name {
				t.Errorf("Expected '%s', got '%s'", tt.name, tt.strategy.Name())
			}
			if tt.strategy.ID() != tt.id {
				t.Errorf("Expected %d, got %d", tt.id, tt.strategy.ID())
			}

			input := getTestPaths()
			result := tt.strategy.Sort(input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Sort failed")
				t.Logf("Expected: %v", tt.expected)
				t.Logf("Got:      %v", result)
			}

			if !reflect.DeepEqual(input, getTestPaths()) {
				t.Error("Input slice was modified - should be immutable")
			}

			if empty := tt.strategy.Sort([]string{}); len(empty) != 0 {
				t.Errorf("Expected empty slice, got %v", empty)
			}
		})
	}
}

func TestSortByBaseName(t *testing.T) {
	// Directory components must not influence the order.
	input := []string{"z/b.png", "a/c.png", "m/a.png"}
	expected := []string{"m/a.png", "z/b.png", "a/c.png"}

	for _, strategy := range []SortStrategy{&NaturalSortStrategy{}, &SimpleSortStrategy{}} {
		result := strategy.Sort(input)
		if !reflect.DeepEqual(result, expected) {
			t.Errorf("Strategy %s: expected %v, got %v", strategy.Name(), expected, result)
		}
	}
}

func TestGetSortStrategy(t *testing.T) {
	tests := []struct {
		sortMethod   int
		expectedID   int
		expectedName string
	}{
		{SortNatural, SortNatural, "Natural"},
		{SortSimple, SortSimple, "Simple"},
		{SortEntryOrder, SortEntryOrder, "Entry Order"},
		{999, SortNatural, "Natural"}, // Default fallback
	}

	for _, tt := range tests {
		t.Run(tt.expectedName, func(t *testing.T) {
			strategy := GetSortStrategy(tt.sortMethod)

			if strategy.ID() != tt.expectedID {
				t.Errorf("Expected ID %d, got %d", tt.expectedID, strategy.ID())
			}

			if strategy.Name() != tt.expectedName {
				t.Errorf("Expected name '%s', got '%s'", tt.expectedName, strategy.Name())
			}
		})
	}

	if n := len(GetAllSortStrategies()); n != 3 {
		t.Errorf("Expected 3 strategies, got %d", n)
	}
}
