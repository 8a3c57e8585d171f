package workflow

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// makeDir creates a temp directory holding the named files, each containing
// its own name so moves can be verified by content.
func makeDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
	return dir
}

func joinAll(dir string, names ...string) []string {
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestSelectDirectory(t *testing.T) {
	dir := makeDir(t,
		"img10.jpg",
		"img2.png",
		"Img3.PNG",
		"photo.jpeg",
		"scan.tiff",
		"pic.webp",
		"old.bmp",
		"notes.txt",
		"backup.bak",
		"nested/inner.png",
	)
	// a directory with an image extension must be skipped
	if err := os.Mkdir(filepath.Join(dir, "folder.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	w := New(SortNatural)
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatalf("SelectDirectory failed: %v", err)
	}

	expected := joinAll(dir, "Img3.PNG", "img10.jpg", "img2.png", "old.bmp", "photo.jpeg", "pic.webp", "scan.tiff")
	// natural order compares case-sensitively: "I" sorts before "i"
	if got := w.Files(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected files %v, got %v", expected, got)
	}
	if w.State() != Browsing || w.Index() != 0 {
		t.Errorf("Expected Browsing(0), got %v(%d)", w.State(), w.Index())
	}
	if w.Root() != dir {
		t.Errorf("Expected root %s, got %s", dir, w.Root())
	}
}

func TestSelectDirectoryNaturalOrder(t *testing.T) {
	dir := makeDir(t, "img10.png", "img2.png", "img1.png")
	w := New(SortNatural)
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatalf("SelectDirectory failed: %v", err)
	}
	expected := joinAll(dir, "img1.png", "img2.png", "img10.png")
	if got := w.Files(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	w.SetSortMethod(SortSimple)
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatalf("SelectDirectory failed: %v", err)
	}
	expected = joinAll(dir, "img1.png", "img10.png", "img2.png")
	if got := w.Files(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSelectDirectoryErrors(t *testing.T) {
	good := makeDir(t, "a.png")
	w := New(SortNatural)
	if err := w.SelectDirectory(good); err != nil {
		t.Fatalf("SelectDirectory failed: %v", err)
	}

	t.Run("Missing directory keeps previous queue", func(t *testing.T) {
		err := w.SelectDirectory(filepath.Join(good, "does-not-exist"))
		if !errors.Is(err, ErrDirectoryInvalid) {
			t.Errorf("Expected ErrDirectoryInvalid, got %v", err)
		}
		if w.Len() != 1 || w.Root() != good {
			t.Errorf("Expected previous queue to survive, got %d files in %s", w.Len(), w.Root())
		}
	})

	t.Run("File instead of directory", func(t *testing.T) {
		err := w.SelectDirectory(filepath.Join(good, "a.png"))
		if !errors.Is(err, ErrDirectoryInvalid) {
			t.Errorf("Expected ErrDirectoryInvalid, got %v", err)
		}
	})

	t.Run("No supported images", func(t *testing.T) {
		empty := makeDir(t, "readme.txt")
		err := w.SelectDirectory(empty)
		if !errors.Is(err, ErrNoSupportedImages) {
			t.Errorf("Expected ErrNoSupportedImages, got %v", err)
		}
		if w.State() != Empty || w.Index() != -1 {
			t.Errorf("Expected Empty(-1), got %v(%d)", w.State(), w.Index())
		}
		if _, ok := w.Current(); ok {
			t.Errorf("Expected no current file")
		}
	})
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name        string
		initialIdx  int
		direction   Direction
		expectedIdx int
	}{
		{"Next", 0, Next, 1},
		{"Previous", 2, Prev, 1},
		{"Previous at first is a no-op", 0, Prev, 0},
		{"Next at last is a no-op", 4, Next, 4},
		{"First", 3, First, 0},
		{"Last", 1, Last, 4},
	}

	dir := makeDir(t, "1.png", "2.png", "3.png", "4.png", "5.png")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(SortNatural)
			if err := w.SelectDirectory(dir); err != nil {
				t.Fatalf("SelectDirectory failed: %v", err)
			}
			w.index = tt.initialIdx

			if got := w.Navigate(tt.direction); got != tt.expectedIdx {
				t.Errorf("Expected idx %d, got %d", tt.expectedIdx, got)
			}
			if w.Index() != tt.expectedIdx {
				t.Errorf("Expected stored idx %d, got %d", tt.expectedIdx, w.Index())
			}
		})
	}
}

func TestMoveAndUndoRoundTrip(t *testing.T) {
	for _, start := range []int{0, 1, 2} {
		dir := makeDir(t, "a.png", "b.png", "c.png")
		w := New(SortNatural)
		if err := w.SelectDirectory(dir); err != nil {
			t.Fatalf("SelectDirectory failed: %v", err)
		}
		w.index = start
		before := w.Files()
		moved, _ := w.Current()

		rec, err := w.MoveToCategory("cats")
		if err != nil {
			t.Fatalf("MoveToCategory failed: %v", err)
		}

		expectedDest := filepath.Join(dir, "cats", filepath.Base(moved))
		if rec.Source != moved || rec.Destination != expectedDest || rec.Category != "cats" || rec.Index != start {
			t.Errorf("Unexpected undo record %+v", rec)
		}
		if _, err := os.Stat(moved); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be gone, stat error %v", moved, err)
		}
		if readFile(t, expectedDest) != filepath.Base(moved) {
			t.Errorf("Destination has unexpected content")
		}
		if w.Len() != 2 {
			t.Errorf("Expected 2 pending files, got %d", w.Len())
		}
		if start == 2 && w.Index() != 1 {
			t.Errorf("Expected index to move to the new last entry, got %d", w.Index())
		}
		if !w.CanUndo() {
			t.Errorf("Expected undo to be available")
		}

		ok, err := w.Undo()
		if err != nil || !ok {
			t.Fatalf("Undo failed: ok=%v err=%v", ok, err)
		}
		if !reflect.DeepEqual(w.Files(), before) {
			t.Errorf("Expected queue %v after undo, got %v", before, w.Files())
		}
		if w.Index() != start {
			t.Errorf("Expected index %d after undo, got %d", start, w.Index())
		}
		if readFile(t, moved) != filepath.Base(moved) {
			t.Errorf("Restored file has unexpected content")
		}
		if w.CanUndo() {
			t.Errorf("Expected undo record to be cleared")
		}

		// a second undo is a no-op
		if ok, err := w.Undo(); ok || err != nil {
			t.Errorf("Expected repeated undo to be a no-op, got ok=%v err=%v", ok, err)
		}
	}
}

func TestUndoAfterNavigationRestoresOrder(t *testing.T) {
	dir := makeDir(t, "a.png", "b.png", "c.png", "d.png")
	w := New(SortNatural)
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatalf("SelectDirectory failed: %v", err)
	}
	before := w.Files()

	w.Navigate(Next)
	if _, err := w.MoveToCategory("dogs"); err != nil {
		t.Fatalf("MoveToCategory failed: %v", err)
	}
	w.Navigate(Last)

	if _, err := w.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !reflect.DeepEqual(w.Files(), before) {
		t.Errorf("Expected %v, got %v", before, w.Files())
	}
	if cur, _ := w.Current(); cur != filepath.Join(dir, "b.png") {
		t.Errorf("Expected restored file to be current, got %s", cur)
	}
}

func TestMoveCollisionSuffix(t *testing.T) {
	dir := makeDir(t, "a.png", "cats/a.png")
	other := makeDir(t, "a.png")

	w := New(SortNatural)
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatalf("SelectDirectory failed: %v", err)
	}
	rec, err := w.MoveToCategory("cats")
	if err != nil {
		t.Fatalf("MoveToCategory failed: %v", err)
	}
	if rec.Destination != filepath.Join(dir, "cats", "a_1.png") {
		t.Errorf("Expected a_1.png, got %s", rec.Destination)
	}
	if readFile(t, filepath.Join(dir, "cats", "a.png")) != "cats/a.png" {
		t.Errorf("Existing destination file was overwritten")
	}

	// a second file of the same name arrives from elsewhere
	if err := os.Rename(filepath.Join(other, "a.png"), filepath.Join(dir, "a.png")); err != nil {
		t.Fatal(err)
	}
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatalf("SelectDirectory failed: %v", err)
	}
	rec, err = w.MoveToCategory("cats")
	if err != nil {
		t.Fatalf("MoveToCategory failed: %v", err)
	}
	if rec.Destination != filepath.Join(dir, "cats", "a_2.png") {
		t.Errorf("Expected a_2.png, got %s", rec.Destination)
	}
}

func TestResolveDestination(t *testing.T) {
	dir := makeDir(t, "photo.v2.jpg", "photo.v2_1.jpg", "single.png")

	tests := []struct {
		name     string
		expected string
	}{
		{"free.png", "free.png"},
		{"single.png", "single_1.png"},
		{"photo.v2.jpg", "photo.v2_2.jpg"},
	}

	for _, tt := range tests {
		got, err := resolveDestination(dir, tt.name)
		if err != nil {
			t.Fatalf("resolveDestination(%s) failed: %v", tt.name, err)
		}
		if got != filepath.Join(dir, tt.expected) {
			t.Errorf("resolveDestination(%s) = %s, want %s", tt.name, filepath.Base(got), tt.expected)
		}
	}
}

func TestMoveLastFileEmptiesQueue(t *testing.T) {
	dir := makeDir(t, "only.png")
	w := New(SortNatural)
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatalf("SelectDirectory failed: %v", err)
	}

	if _, err := w.MoveToCategory("done"); err != nil {
		t.Fatalf("MoveToCategory failed: %v", err)
	}
	if w.State() != Empty || w.Index() != -1 {
		t.Errorf("Expected Empty(-1), got %v(%d)", w.State(), w.Index())
	}
	for _, d := range []Direction{Next, Prev, First, Last} {
		if got := w.Navigate(d); got != -1 {
			t.Errorf("Expected navigate to be a no-op on empty queue, got %d", got)
		}
	}
	if _, err := w.MoveToCategory("done"); !errors.Is(err, ErrMoveFailure) {
		t.Errorf("Expected ErrMoveFailure on empty queue, got %v", err)
	}

	// undo brings the workflow back to Browsing(0)
	if ok, err := w.Undo(); !ok || err != nil {
		t.Fatalf("Undo failed: ok=%v err=%v", ok, err)
	}
	if w.State() != Browsing || w.Index() != 0 {
		t.Errorf("Expected Browsing(0), got %v(%d)", w.State(), w.Index())
	}
}

func TestMoveFailureLeavesStateUnchanged(t *testing.T) {
	dir := makeDir(t, "a.png", "b.png", "blocked")
	w := New(SortNatural)
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatalf("SelectDirectory failed: %v", err)
	}

	first, err := w.MoveToCategory("ok")
	if err != nil {
		t.Fatalf("MoveToCategory failed: %v", err)
	}
	before := w.Files()

	// "blocked" is a regular file, so the category directory cannot be made
	if _, err := w.MoveToCategory("blocked"); !errors.Is(err, ErrMoveFailure) {
		t.Fatalf("Expected ErrMoveFailure, got %v", err)
	}
	if !reflect.DeepEqual(w.Files(), before) || w.Index() != 0 {
		t.Errorf("Expected queue to be unchanged, got %v at %d", w.Files(), w.Index())
	}
	rec, ok := w.UndoRecord()
	if !ok || rec != first {
		t.Errorf("Expected the previous undo record to be kept, got %+v", rec)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.png")); err != nil {
		t.Errorf("Expected b.png to stay in place: %v", err)
	}

	if _, err := w.MoveToCategory("   "); !errors.Is(err, ErrMoveFailure) {
		t.Errorf("Expected ErrMoveFailure for a blank category, got %v", err)
	}
}

func TestNewMoveReplacesUndoRecord(t *testing.T) {
	dir := makeDir(t, "a.png", "b.png")
	w := New(SortNatural)
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatalf("SelectDirectory failed: %v", err)
	}

	if _, err := w.MoveToCategory("x"); err != nil {
		t.Fatal(err)
	}
	second, err := w.MoveToCategory("y")
	if err != nil {
		t.Fatal(err)
	}

	rec, _ := w.UndoRecord()
	if rec != second {
		t.Errorf("Expected latest record %+v, got %+v", second, rec)
	}
	if _, err := w.Undo(); err != nil {
		t.Fatal(err)
	}
	if w.CanUndo() {
		t.Errorf("Expected only one level of undo")
	}
	if _, err := os.Stat(filepath.Join(dir, "x", "a.png")); err != nil {
		t.Errorf("Expected the first move to stay in place: %v", err)
	}
}

func TestUndoFailureKeepsRecord(t *testing.T) {
	t.Run("Destination vanished", func(t *testing.T) {
		dir := makeDir(t, "a.png", "b.png")
		w := New(SortNatural)
		if err := w.SelectDirectory(dir); err != nil {
			t.Fatal(err)
		}
		rec, err := w.MoveToCategory("cats")
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Remove(rec.Destination); err != nil {
			t.Fatal(err)
		}

		ok, err := w.Undo()
		if ok || !errors.Is(err, ErrUndoFailure) {
			t.Errorf("Expected ErrUndoFailure, got ok=%v err=%v", ok, err)
		}
		if !w.CanUndo() {
			t.Errorf("Expected record to be kept after a failed undo")
		}
		if w.Len() != 1 {
			t.Errorf("Expected queue to be unchanged, got %d files", w.Len())
		}
	})

	t.Run("Source occupied", func(t *testing.T) {
		dir := makeDir(t, "a.png")
		w := New(SortNatural)
		if err := w.SelectDirectory(dir); err != nil {
			t.Fatal(err)
		}
		rec, err := w.MoveToCategory("cats")
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(rec.Source, []byte("new"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := w.Undo(); !errors.Is(err, ErrUndoFailure) {
			t.Errorf("Expected ErrUndoFailure, got %v", err)
		}
		if readFile(t, rec.Source) != "new" {
			t.Errorf("Undo overwrote an existing file")
		}
		if !w.CanUndo() {
			t.Errorf("Expected record to be kept")
		}
	})
}

func TestSelectDirectoryClearsUndo(t *testing.T) {
	dir := makeDir(t, "a.png", "b.png")
	w := New(SortNatural)
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := w.MoveToCategory("cats"); err != nil {
		t.Fatal(err)
	}
	if err := w.SelectDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if w.CanUndo() {
		t.Errorf("Expected undo record to be cleared by a new selection")
	}
}
