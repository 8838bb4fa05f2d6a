package daub

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_StrokeProtocol(t *testing.T) {
	assert := assert.New(t)

	s := NewSession(NewCanvas(16, 16, 1))
	s.SetBrush(Paint, NewSoftCircle().WithRadius(2).WithInnerRadius(2))

	s.PointerMove(8, 8)
	s.Tick()
	s.PointerDown(Paint)
	assert.NoError(s.Tick())
	s.PointerUp()

	assert.Equal(1, s.History().Cursor())
	assert.Equal(1, s.History().Len())
	assert.EqualValues(255, pixelAlpha(s.Canvas().Layers()[0], 8, 8))

	// Releasing the pointer simply stops recording; the partial stroke
	// stays in the history.
	assert.NoError(s.Tick())
	assert.Equal(1, s.History().Len())
}

func TestSession_TickRollsSegmentForward(t *testing.T) {
	assert := assert.New(t)

	s := NewSession(NewCanvas(32, 16, 1))
	s.SetBrush(Paint, NewSoftCircle().WithRadius(1).WithInnerRadius(1).WithSpacing(1))

	s.PointerMove(4, 8)
	s.Tick()
	s.PointerDown(Paint)
	assert.NoError(s.Tick())
	s.PointerMove(12, 8)
	assert.NoError(s.Tick())
	s.PointerUp()

	// The two ticks recorded a contiguous segment from 4 to 12.
	frames := s.History().currentAction().Stroke.Frames
	assert.Len(frames, 2)
	assert.Equal(Point{X: 4, Y: 8}, frames[1].LastCursor)
	assert.Equal(Point{X: 12, Y: 8}, frames[1].Cursor)
	for x := 4; x <= 12; x++ {
		assert.EqualValues(255, pixelAlpha(s.Canvas().Layers()[0], x, 8))
	}
}

func TestSession_BrushStrengthScalesOpacity(t *testing.T) {
	assert := assert.New(t)

	s := NewSession(NewCanvas(16, 16, 1))
	s.SetBrush(Paint, NewSoftCircle().WithRadius(2).WithInnerRadius(2).WithStrength(0.5))
	s.SetColor(color.NRGBA{R: 0xff, A: 0xff})

	s.PointerMove(8, 8)
	s.Tick()
	s.PointerDown(Paint)
	assert.NoError(s.Tick())
	s.PointerUp()

	// Half strength halves the recorded frame alpha. A stationary tick
	// covers both endpoints of its zero-length segment, so the canvas
	// pixel composes the half-strength color twice.
	frame := s.History().currentAction().Stroke.Frames[0]
	assert.EqualValues(127, frame.Color.A)
	alpha := pixelAlpha(s.Canvas().Layers()[0], 8, 8)
	assert.InDelta(191, int(alpha), 2)
}

func TestSession_TranslucentColorScalesOpacity(t *testing.T) {
	assert := assert.New(t)

	s := NewSession(NewCanvas(16, 16, 1))
	s.SetBrush(Paint, NewSoftCircle().WithRadius(2).WithInnerRadius(2))
	s.SetColor(color.NRGBA{R: 0xff, A: 0x80})

	s.PointerMove(8, 8)
	s.Tick()
	s.PointerDown(Paint)
	assert.NoError(s.Tick())
	s.PointerUp()

	// A translucent paint color carries its own alpha into the
	// recorded frame even at full brush strength.
	frame := s.History().currentAction().Stroke.Frames[0]
	assert.EqualValues(128, frame.Color.A)
	alpha := pixelAlpha(s.Canvas().Layers()[0], 8, 8)
	assert.InDelta(192, int(alpha), 2)
}

func TestSession_UndoRedo(t *testing.T) {
	assert := assert.New(t)

	s := NewSession(NewCanvas(16, 16, 1))
	blank := snapshot(s.Canvas())

	s.PointerMove(5, 5)
	s.PointerDown(Paint)
	assert.NoError(s.Tick())
	s.PointerMove(11, 11)
	assert.NoError(s.Tick())
	s.PointerUp()
	painted := snapshot(s.Canvas())

	assert.True(s.Undo())
	assert.Equal(blank, snapshot(s.Canvas()))
	assert.True(s.Redo())
	assert.Equal(painted, snapshot(s.Canvas()))
	assert.False(s.Redo())
}

func TestSession_CurrentFrameIsCached(t *testing.T) {
	assert := assert.New(t)

	s := NewSession(NewCanvas(16, 16, 2))

	first := s.CurrentFrame()
	s.MarkClean()
	assert.Same(first, s.CurrentFrame())

	s.PointerMove(8, 8)
	s.PointerDown(Paint)
	assert.NoError(s.Tick())
	s.PointerUp()

	second := s.CurrentFrame()
	assert.NotSame(first, second)
	s.MarkClean()
	assert.Same(second, s.CurrentFrame())
}

func TestSession_DroppedFrameKeepsStateIntact(t *testing.T) {
	assert := assert.New(t)

	s := NewSession(NewCanvas(16, 16, 1))
	blank := snapshot(s.Canvas())

	// Ticking while holding without a started stroke surfaces the
	// protocol error and drops the frame without touching any pixels.
	s.holding = true
	s.activeKind = Paint
	s.PointerMove(8, 8)
	assert.ErrorIs(s.Tick(), ErrNoActiveStroke)
	assert.Equal(blank, snapshot(s.Canvas()))
	assert.Equal(0, s.History().Cursor())
}
