package daub

import (
	"image"
	"image/color"

	"github.com/esimov/daub/utils"
)

// Session is the explicit application state driven by the host event loop:
// it owns the canvas, the action history, the per-kind brushes and the
// pointer state, and exposes the handlers the windowing collaborator calls.
// All mutation happens synchronously inside these handlers on a single
// thread, so no locking is involved.
type Session struct {
	canvas  *Canvas
	history *History

	brushes map[StrokeKind]Brush
	col     color.NRGBA

	cursor     Point
	lastCursor Point
	holding    bool
	activeKind StrokeKind

	// frame caches the last composited image between redraw ticks.
	frame *image.NRGBA
}

// NewSession initializes the application state over the given canvas with
// a default soft circle brush for each stroke kind and a white paint color.
func NewSession(canvas *Canvas) *Session {
	return &Session{
		canvas:  canvas,
		history: NewHistory(),
		brushes: map[StrokeKind]Brush{
			Paint:  NewSoftCircle(),
			Erase:  NewSoftCircle(),
			Smudge: NewSoftCircle().WithStrength(0.5),
		},
		col: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}

// Canvas returns the canvas owned by the session.
func (s *Session) Canvas() *Canvas { return s.canvas }

// History returns the action history owned by the session.
func (s *Session) History() *History { return s.history }

// Color returns the current paint color.
func (s *Session) Color() color.NRGBA { return s.col }

// SetColor replaces the current paint color.
func (s *Session) SetColor(col color.NRGBA) { s.col = col }

// Brush returns the brush assigned to the given stroke kind.
func (s *Session) Brush(kind StrokeKind) Brush { return s.brushes[kind] }

// SetBrush assigns a brush to the given stroke kind. Strokes already
// recorded keep their own brush snapshots and are not affected.
func (s *Session) SetBrush(kind StrokeKind, b Brush) { s.brushes[kind] = b }

// PointerMove updates the tracked pointer position,
// expressed in canvas coordinates.
func (s *Session) PointerMove(x, y float64) {
	s.cursor = Point{X: x, Y: y}
}

// PointerDown begins a new stroke of the given kind on the active layer.
func (s *Session) PointerDown(kind StrokeKind) {
	s.holding = true
	s.activeKind = kind
	s.history.StartStroke(kind, s.canvas.ActiveLayer())
}

// PointerUp ends the active stroke. The already recorded frames stay in
// the history; no explicit termination event is needed.
func (s *Session) PointerUp() {
	s.holding = false
}

// Tick advances the session by one redraw cycle: while a pointer button is
// held it records one frame covering the pointer motion since the previous
// tick and rasterizes it immediately, then rolls the segment start forward.
// A failed frame is dropped without corrupting any state.
func (s *Session) Tick() error {
	var err error
	if s.holding {
		brush := s.brushes[s.activeKind]

		// The brush strength scales the frame color alpha, so the recorded
		// frame stays self contained for replay. A translucent paint color
		// keeps its own alpha as the upper bound.
		col := s.col
		col.A = uint8(float64(col.A) * utils.Clamp(brush.Strength(), 0, 1))

		var (
			layer int
			kind  StrokeKind
			frame Frame
		)
		layer, kind, frame, err = s.history.ContinueStroke(s.cursor, s.lastCursor, brush, col)
		if err == nil {
			err = s.canvas.ProcessFrame(layer, kind, frame)
		}
	}
	s.lastCursor = s.cursor
	return err
}

// Undo rolls back the last applied action and reports whether
// the canvas changed.
func (s *Session) Undo() bool { return s.history.Undo(s.canvas) }

// Redo reapplies the next undone action and reports whether
// the canvas changed.
func (s *Session) Redo() bool { return s.history.Redo(s.canvas) }

// CurrentFrame returns the composited canvas ready for presentation.
// The layer stack is flattened only when some layer changed since the
// last call, otherwise the cached image is returned. The host should call
// MarkClean once the returned frame has been consumed.
func (s *Session) CurrentFrame() *image.NRGBA {
	if s.frame == nil || s.canvas.Dirty() {
		s.frame = s.canvas.Flatten()
	}
	return s.frame
}

// MarkClean resets the per-layer dirty flags after the presentable frame
// has been consumed by the host.
func (s *Session) MarkClean() {
	for _, layer := range s.canvas.Layers() {
		layer.MarkClean()
	}
}
