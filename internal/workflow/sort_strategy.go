package workflow

import (
	"path/filepath"
	"sort"

	"github.com/maruel/natural"
)

// Sort method constants
const (
	SortNatural    = 0 // Natural sort order (e.g., img1, img2, img10)
	SortSimple     = 1 // Simple string sort (lexicographical)
	SortEntryOrder = 2 // Directory listing order (no sort)
)

// SortStrategy orders the files of a queue by name.
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(paths []string) []string
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// NaturalSortStrategy implements natural sorting using maruel/natural
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(paths []string) []string {
	result := clonePaths(paths)
	sort.SliceStable(result, func(i, j int) bool {
		return natural.Less(filepath.Base(result[i]), filepath.Base(result[j]))
	})
	return result
}

func (s *NaturalSortStrategy) Name() string {
	return "Natural"
}

func (s *NaturalSortStrategy) ID() int {
	return SortNatural
}

// SimpleSortStrategy implements lexicographical sorting
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(paths []string) []string {
	result := clonePaths(paths)
	sort.SliceStable(result, func(i, j int) bool {
		return filepath.Base(result[i]) < filepath.Base(result[j])
	})
	return result
}

func (s *SimpleSortStrategy) Name() string {
	return "Simple"
}

func (s *SimpleSortStrategy) ID() int {
	return SortSimple
}

// EntryOrderSortStrategy preserves the directory listing order
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(paths []string) []string {
	return clonePaths(paths)
}

func (s *EntryOrderSortStrategy) Name() string {
	return "Entry Order"
}

func (s *EntryOrderSortStrategy) ID() int {
	return SortEntryOrder
}

// GetSortStrategy returns the appropriate strategy based on the sort method ID
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortNatural:
		return &NaturalSortStrategy{}
	case SortSimple:
		return &SimpleSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &NaturalSortStrategy{} // Default fallback
	}
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&NaturalSortStrategy{},
		&SimpleSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}

func clonePaths(paths []string) []string {
	result := make([]string, len(paths))
	copy(result, paths)
	return result
}
