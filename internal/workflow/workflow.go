// Package workflow keeps an ordered queue of image files and moves them into
// category subdirectories, with a single level of undo.
package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"picsort/internal/imageio"
)

var (
	ErrDirectoryInvalid  = errors.New("directory invalid")
	ErrNoSupportedImages = errors.New("no supported images")
	ErrMoveFailure       = errors.New("move failed")
	ErrUndoFailure       = errors.New("undo failed")
)

// State is the coarse state of the queue.
type State int

const (
	Empty State = iota
	Browsing
)

func (s State) String() string {
	if s == Browsing {
		return "Browsing"
	}
	return "Empty"
}

// Direction represents the direction of navigation
type Direction int

const (
	Next Direction = iota
	Prev
	First
	Last
)

// UndoRecord describes the last successful move.
type UndoRecord struct {
	Source      string
	Destination string
	Category    string
	Index       int // queue position the file occupied before the move
}

// Workflow is the classification state machine. It is not safe for
// concurrent use; the UI drives it from a single goroutine.
type Workflow struct {
	root   string
	files  []string
	index  int
	undo   *UndoRecord
	sorter SortStrategy
}

// New creates an empty workflow using the given sort method.
func New(sortMethod int) *Workflow {
	return &Workflow{
		index:  -1,
		sorter: GetSortStrategy(sortMethod),
	}
}

// SetSortMethod changes the ordering used by the next SelectDirectory.
func (w *Workflow) SetSortMethod(sortMethod int) {
	w.sorter = GetSortStrategy(sortMethod)
}

// SortStrategy returns the active ordering.
func (w *Workflow) SortStrategy() SortStrategy {
	return w.sorter
}

// SelectDirectory replaces the queue with the supported images in path.
// On ErrDirectoryInvalid the previous queue is kept. On ErrNoSupportedImages
// the workflow is Empty on the new root.
func (w *Workflow) SelectDirectory(path string) error {
	files, err := collectImages(path)
	if err != nil {
		return err
	}

	w.root = path
	w.files = w.sorter.Sort(files)
	w.undo = nil
	if len(w.files) == 0 {
		w.index = -1
		return fmt.Errorf("%w in %s (%s)", ErrNoSupportedImages, path, strings.Join(imageio.Extensions, ", "))
	}
	w.index = 0
	return nil
}

// collectImages lists the regular files directly inside dir that carry a
// supported extension, in directory listing order.
func collectImages(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryInvalid, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryInvalid, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read directory %s: %v", ErrDirectoryInvalid, dir, err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || !imageio.IsSupported(entry.Name()) {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if !entry.Type().IsRegular() {
			// symlinks count when they resolve to a regular file
			fi, err := os.Stat(fullPath)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		}
		images = append(images, fullPath)
	}
	return images, nil
}

// Root returns the selected directory.
func (w *Workflow) Root() string {
	return w.root
}

// State reports Empty or Browsing.
func (w *Workflow) State() State {
	if len(w.files) == 0 {
		return Empty
	}
	return Browsing
}

// Index returns the current index, or -1 when empty.
func (w *Workflow) Index() int {
	return w.index
}

// Len returns the number of pending files.
func (w *Workflow) Len() int {
	return len(w.files)
}

// Files returns a copy of the pending files in order.
func (w *Workflow) Files() []string {
	return clonePaths(w.files)
}

// Current returns the path at the current index.
func (w *Workflow) Current() (string, bool) {
	if w.index < 0 || w.index >= len(w.files) {
		return "", false
	}
	return w.files[w.index], true
}

// UndoRecord returns the pending undo, if any.
func (w *Workflow) UndoRecord() (UndoRecord, bool) {
	if w.undo == nil {
		return UndoRecord{}, false
	}
	return *w.undo, true
}

// CanUndo reports whether an undo record is held.
func (w *Workflow) CanUndo() bool {
	return w.undo != nil
}

// Navigate moves the current index. Moving past either end is a no-op.
func (w *Workflow) Navigate(dir Direction) int {
	if len(w.files) == 0 {
		return w.index
	}

	switch dir {
	case Next:
		if w.index < len(w.files)-1 {
			w.index++
		}
	case Prev:
		if w.index > 0 {
			w.index--
		}
	case First:
		w.index = 0
	case Last:
		w.index = len(w.files) - 1
	}
	return w.index
}

// MoveToCategory moves the current file into root/category, renaming it with
// a numeric suffix if the name is taken. On failure nothing changes.
func (w *Workflow) MoveToCategory(category string) (UndoRecord, error) {
	src, ok := w.Current()
	if !ok {
		return UndoRecord{}, fmt.Errorf("%w: no file selected", ErrMoveFailure)
	}
	if strings.TrimSpace(category) == "" {
		return UndoRecord{}, fmt.Errorf("%w: empty category", ErrMoveFailure)
	}

	destDir := filepath.Join(w.root, category)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return UndoRecord{}, fmt.Errorf("%w: %v", ErrMoveFailure, err)
	}

	dest, err := resolveDestination(destDir, filepath.Base(src))
	if err != nil {
		return UndoRecord{}, fmt.Errorf("%w: %v", ErrMoveFailure, err)
	}

	if err := os.Rename(src, dest); err != nil {
		return UndoRecord{}, fmt.Errorf("%w: %v", ErrMoveFailure, err)
	}

	record := UndoRecord{
		Source:      src,
		Destination: dest,
		Category:    category,
		Index:       w.index,
	}
	w.undo = &record

	w.files = append(w.files[:w.index], w.files[w.index+1:]...)
	if w.index >= len(w.files) {
		w.index = len(w.files) - 1 // -1 once the queue is empty
	}

	return record, nil
}

// resolveDestination returns dir/name, or dir/stem_N.ext for the first N
// that does not exist yet.
func resolveDestination(dir, name string) (string, error) {
	dest := filepath.Join(dir, name)
	exists, err := pathExists(dest)
	if err != nil || !exists {
		return dest, err
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		dest = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		exists, err := pathExists(dest)
		if err != nil || !exists {
			return dest, err
		}
	}
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Undo reverses the last move. Without a record it does nothing and returns
// false. The record is cleared only once the file is back in place.
func (w *Workflow) Undo() (bool, error) {
	if w.undo == nil {
		return false, nil
	}
	rec := *w.undo

	exists, err := pathExists(rec.Source)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUndoFailure, err)
	}
	if exists {
		return false, fmt.Errorf("%w: %s already exists", ErrUndoFailure, rec.Source)
	}

	if err := os.Rename(rec.Destination, rec.Source); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUndoFailure, err)
	}

	pos := min(max(rec.Index, 0), len(w.files))
	w.files = append(w.files, "")
	copy(w.files[pos+1:], w.files[pos:])
	w.files[pos] = rec.Source
	w.index = pos
	w.undo = nil

	return true, nil
}
