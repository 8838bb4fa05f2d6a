package daub

import (
	"image/color"
	"time"

	"github.com/pkg/errors"
)

// ErrNoActiveStroke is returned when ContinueStroke is called without a
// preceding StartStroke. The offending input frame is dropped and no state
// is corrupted; the caller may simply resume the stroke protocol.
var ErrNoActiveStroke = errors.New("no active stroke")

// Stroke is an ordered sequence of frames of one stroke kind. The kind is
// fixed at creation; frames are append-only while the stroke is active.
type Stroke struct {
	Kind   StrokeKind
	Frames []Frame
}

func (s *Stroke) addFrame(f Frame) {
	s.Frames = append(s.Frames, f)
}

// Action is the unit of undo and redo: one stroke together with a
// monotonically increasing id, the layer it was painted into and the
// moment it was started.
type Action struct {
	ID        int
	Timestamp time.Time
	Layer     int
	Stroke    *Stroke
}

// History is the linear, replayable log of recorded actions. The cursor
// designates the id of the most recently applied action, with zero meaning
// a blank canvas. Actions are stored in strictly increasing id order; ids
// greater than the cursor exist only between an undo and the next stroke,
// as pending redo targets.
//
// Undo and redo reconstruct the layer state by full deterministic replay
// of the log rather than by inverse operations, because the erase and
// smudge laws are not exactly invertible. The cost is proportional to the
// total number of frames recorded so far, which is an accepted tradeoff
// in favor of bit-for-bit reproducibility.
type History struct {
	actions []*Action
	cursor  int
}

// NewHistory initializes an empty action log.
func NewHistory() *History {
	return &History{}
}

// Cursor returns the id of the most recently applied action.
func (h *History) Cursor() int { return h.cursor }

// Len returns the number of recorded actions, pending redo targets included.
func (h *History) Len() int { return len(h.actions) }

// CanUndo reports whether there is an applied action left to roll back.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether an undone action is pending reapplication.
func (h *History) CanRedo() bool {
	return len(h.actions) > 0 && h.actions[len(h.actions)-1].ID > h.cursor
}

// StartStroke begins recording a new stroke on the given layer. Any action
// left beyond the cursor by a previous undo is discarded first: once a new
// stroke begins, the stale redo branch is permanently lost.
func (h *History) StartStroke(kind StrokeKind, layer int) {
	h.truncate()
	h.cursor++
	h.actions = append(h.actions, &Action{
		ID:        h.cursor,
		Timestamp: time.Now(),
		Layer:     layer,
		Stroke:    &Stroke{Kind: kind},
	})
}

// ContinueStroke appends one frame to the stroke the cursor points at and
// returns the layer index, the stroke kind and the recorded frame so the
// caller can rasterize it immediately. It fails with ErrNoActiveStroke
// when no action matches the cursor.
//
// A stroke implicitly ends when the caller stops invoking ContinueStroke;
// no explicit termination event is recorded.
func (h *History) ContinueStroke(cursor, lastCursor Point, brush Brush, col color.NRGBA) (int, StrokeKind, Frame, error) {
	action := h.currentAction()
	if action == nil {
		return 0, 0, Frame{}, errors.Wrap(ErrNoActiveStroke, "unable to continue the stroke")
	}

	frame := Frame{
		Brush:      brush,
		Color:      col,
		Cursor:     cursor,
		LastCursor: lastCursor,
		Timestamp:  time.Now(),
	}
	action.Stroke.addFrame(frame)

	return action.Layer, action.Stroke.Kind, frame, nil
}

// Undo rolls back the most recently applied action and reconstructs the
// canvas by replaying the remaining log. It reports whether the canvas
// state changed; undoing past the beginning of the log is a no-op.
func (h *History) Undo(c *Canvas) bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	h.replay(c)
	return true
}

// Redo reapplies the next undone action, if any, by moving the cursor
// forward and replaying the log.
func (h *History) Redo(c *Canvas) bool {
	next := 0
	for _, action := range h.actions {
		if action.ID > h.cursor {
			next = action.ID
			break
		}
	}
	if next == 0 {
		return false
	}
	h.cursor = next
	h.replay(c)
	return true
}

// replay clears every layer and re-rasterizes all actions up to the cursor
// in ascending id order, each frame in its original append order. The strict
// ordering guarantees a bit-for-bit identical reconstruction.
func (h *History) replay(c *Canvas) {
	c.Clear()
	for _, action := range h.actions {
		if action.ID > h.cursor {
			continue
		}
		for _, frame := range action.Stroke.Frames {
			// Layers are never removed, so the recorded index stays valid.
			c.ProcessFrame(action.Layer, action.Stroke.Kind, frame)
		}
	}
}

// currentAction returns the action the cursor points at, or nil when the
// cursor designates the blank canvas or an undone position.
func (h *History) currentAction() *Action {
	for i := len(h.actions) - 1; i >= 0; i-- {
		if h.actions[i].ID == h.cursor {
			return h.actions[i]
		}
	}
	return nil
}

// truncate drops every action beyond the cursor. It is invoked when a new
// stroke starts after an undo, making the discarded branch unreachable.
func (h *History) truncate() {
	for i, action := range h.actions {
		if action.ID > h.cursor {
			h.actions = h.actions[:i]
			return
		}
	}
}
