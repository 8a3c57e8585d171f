// Package session ties the file queue, the viewport and the image decoder
// into the single value the UI drives.
package session

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"picsort/internal/imageio"
	"picsort/internal/viewport"
	"picsort/internal/workflow"
)

// Decoder loads an image file for preview.
type Decoder func(path string) (image.Image, imageio.Metadata, error)

// Options configures a Session.
type Options struct {
	Categories []string
	SortMethod int
	Viewport   viewport.Config
	Decode     Decoder          // defaults to imageio.Decode
	Now        func() time.Time // defaults to time.Now; used by the wheel debounce
}

// Status is what the UI shows about the session.
type Status struct {
	State     workflow.State
	File      string // base name of the current file
	Path      string
	Index     int // 0-based, -1 when empty
	Total     int // files found when the directory was selected
	Remaining int // files still in the queue
	Zoom      float64
	ImageW    int
	ImageH    int
	CanUndo   bool
	LoadErr   error
	Taken     time.Time
	Camera    string
}

// Session is the classification session. It is not safe for concurrent use.
type Session struct {
	wf         *workflow.Workflow
	vp         *viewport.Viewport
	decode     Decoder
	now        func() time.Time
	categories []string

	viewW, viewH int
	total        int
	loadedPath   string
	meta         imageio.Metadata
	loadErr      error
}

// New creates a session with no directory selected.
func New(opts Options) *Session {
	if opts.Decode == nil {
		opts.Decode = imageio.Decode
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	categories := make([]string, len(opts.Categories))
	copy(categories, opts.Categories)

	return &Session{
		wf:         workflow.New(opts.SortMethod),
		vp:         viewport.New(opts.Viewport),
		decode:     opts.Decode,
		now:        opts.Now,
		categories: categories,
	}
}

// Categories returns the configured category labels.
func (s *Session) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// Category returns the label for shortcut slot n (1-based).
func (s *Session) Category(n int) (string, bool) {
	if n < 1 || n > len(s.categories) || n > MaxSlots {
		return "", false
	}
	return s.categories[n-1], true
}

// Workflow exposes the underlying queue for read-only inspection.
func (s *Session) Workflow() *workflow.Workflow {
	return s.wf
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	st := Status{
		State:     s.wf.State(),
		Index:     s.wf.Index(),
		Total:     s.total,
		Remaining: s.wf.Len(),
		Zoom:      s.vp.Zoom(),
		CanUndo:   s.wf.CanUndo(),
		LoadErr:   s.loadErr,
	}
	if path, ok := s.wf.Current(); ok {
		st.Path = path
		st.File = filepath.Base(path)
	}
	if s.vp.Loaded() {
		vs := s.vp.State()
		st.ImageW, st.ImageH = vs.SourceW, vs.SourceH
		st.Taken = s.meta.Taken
		st.Camera = s.meta.Camera
	}
	return st
}

// LoadDirectory selects a new directory and shows its first image. On
// workflow.ErrDirectoryInvalid the previous session is untouched.
func (s *Session) LoadDirectory(path string) (Status, error) {
	if err := s.wf.SelectDirectory(path); err != nil {
		if errors.Is(err, workflow.ErrNoSupportedImages) {
			s.total = 0
			s.showCurrent()
		}
		return s.Status(), err
	}
	s.total = s.wf.Len()
	err := s.showCurrent()
	return s.Status(), err
}

// showCurrent decodes the current file and resets the transform to fit.
// A decode failure clears the viewport and is kept in the status.
func (s *Session) showCurrent() error {
	path, ok := s.wf.Current()
	if !ok {
		s.vp.Clear()
		s.loadedPath = ""
		s.meta = imageio.Metadata{}
		s.loadErr = nil
		return nil
	}

	s.loadedPath = path
	img, meta, err := s.decode(path)
	if err != nil {
		s.vp.Clear()
		s.meta = imageio.Metadata{}
		s.loadErr = err
		return err
	}

	s.meta = meta
	s.loadErr = nil
	s.vp.Load(img, s.viewW, s.viewH)
	return nil
}

// reloadIfChanged shows the current file when it differs from the one on screen.
func (s *Session) reloadIfChanged() error {
	path, _ := s.wf.Current()
	if path == s.loadedPath {
		return nil
	}
	return s.showCurrent()
}

// CurrentImage returns the decoded source of the current file.
func (s *Session) CurrentImage() (image.Image, bool) {
	if !s.vp.Loaded() {
		return nil, false
	}
	return s.vp.Source(), true
}

// Metadata returns the EXIF details of the current image.
func (s *Session) Metadata() imageio.Metadata {
	return s.meta
}

// Navigate moves within the queue. The returned error is a decode failure of
// the newly current file; navigation itself never fails.
func (s *Session) Navigate(dir workflow.Direction) (Status, error) {
	s.wf.Navigate(dir)
	err := s.reloadIfChanged()
	return s.Status(), err
}

// MoveToCategory moves the current file to the named category and shows the
// next one.
func (s *Session) MoveToCategory(category string) (Status, error) {
	if _, err := s.wf.MoveToCategory(category); err != nil {
		return s.Status(), err
	}
	err := s.showCurrent()
	return s.Status(), err
}

// MoveToSlot moves the current file to the category bound to slot n (1-based).
func (s *Session) MoveToSlot(n int) (Status, error) {
	category, ok := s.Category(n)
	if !ok {
		return s.Status(), fmt.Errorf("%w: no category in slot %d", workflow.ErrMoveFailure, n)
	}
	return s.MoveToCategory(category)
}

// Undo restores the last moved file and makes it current. Without a pending
// record it does nothing.
func (s *Session) Undo() (Status, error) {
	undone, err := s.wf.Undo()
	if err != nil || !undone {
		return s.Status(), err
	}
	err = s.showCurrent()
	return s.Status(), err
}

// ZoomAt applies a debounced wheel zoom around cursor. It reports whether
// the event was applied.
func (s *Session) ZoomAt(cursor viewport.Point, steps int) (Status, bool) {
	applied := s.vp.WheelZoom(s.now(), cursor, steps)
	return s.Status(), applied
}

// ZoomStep zooms around the viewport centre.
func (s *Session) ZoomStep(steps int) Status {
	s.vp.ZoomStep(steps)
	return s.Status()
}

// PanBy drags the image by a viewport delta.
func (s *Session) PanBy(dx, dy float64) Status {
	s.vp.PanBy(dx, dy)
	return s.Status()
}

// FitToViewport records the viewport size and refits the image.
func (s *Session) FitToViewport(viewW, viewH int) Status {
	s.vp.FitToViewport(viewW, viewH)
	s.viewW, s.viewH = s.vp.ViewSize()
	return s.Status()
}

// Resize records a new viewport size. The image is refitted only when the
// size actually changed.
func (s *Session) Resize(viewW, viewH int) Status {
	if viewW == s.viewW && viewH == s.viewH {
		return s.Status()
	}
	return s.FitToViewport(viewW, viewH)
}

// Render returns the bitmap for the current transform.
func (s *Session) Render() (viewport.Frame, error) {
	return s.vp.Render(s.viewW, s.viewH)
}

// ViewportState returns the current transform.
func (s *Session) ViewportState() viewport.State {
	return s.vp.State()
}

// CacheStats returns render cache statistics.
func (s *Session) CacheStats() viewport.CacheStats {
	return s.vp.CacheStats()
}

// Dispatch executes a classified input command.
func (s *Session) Dispatch(cmd Command) (Status, error) {
	switch cmd.Kind {
	case CmdNavigate:
		return s.Navigate(cmd.Direction)
	case CmdMoveSlot:
		return s.MoveToSlot(cmd.Slot)
	case CmdUndo:
		return s.Undo()
	case CmdZoomStep:
		return s.ZoomStep(cmd.Steps), nil
	case CmdZoomAt:
		st, _ := s.ZoomAt(cmd.Cursor, cmd.Steps)
		return st, nil
	case CmdZoomFit:
		return s.FitToViewport(s.viewW, s.viewH), nil
	case CmdPan:
		return s.PanBy(cmd.Delta.X, cmd.Delta.Y), nil
	}
	return s.Status(), nil
}
