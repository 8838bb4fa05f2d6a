package daub

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// newFrame builds a stroke frame covering the segment from last to cur.
func newFrame(brush Brush, col color.NRGBA, last, cur Point) Frame {
	return Frame{
		Brush:      brush,
		Color:      col,
		Cursor:     cur,
		LastCursor: last,
		Timestamp:  time.Now(),
	}
}

func pixelAlpha(l *Layer, x, y int) uint8 {
	return l.Img.Pix[l.Img.PixOffset(x, y)+3]
}

func TestRaster_SingleDabReachesFullOpacity(t *testing.T) {
	assert := assert.New(t)

	layer := NewLayer(16, 16, "test")
	brush := NewSoftCircle().WithRadius(3).WithInnerRadius(2)

	center := Point{X: 8, Y: 8}
	paintFrame(layer, newFrame(brush, white, center, center))

	assert.EqualValues(255, pixelAlpha(layer, 8, 8))
}

func TestRaster_PaintConcreteScenario(t *testing.T) {
	assert := assert.New(t)

	canvas := NewCanvas(4, 4, 1)
	brush := NewSoftCircle().WithRadius(1).WithInnerRadius(0).WithSpacing(1)

	click := Point{X: 2, Y: 2}
	err := canvas.ProcessFrame(0, Paint, newFrame(brush, white, click, click))
	assert.NoError(err)

	layer := canvas.Layers()[0]
	center := pixelAlpha(layer, 2, 2)
	assert.EqualValues(255, center)

	// The raised cosine reaches zero exactly at the outer radius, so the
	// four direct neighbors sit strictly below the center opacity.
	for _, px := range [][2]int{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		assert.Less(pixelAlpha(layer, px[0], px[1]), center)
	}
	for _, px := range [][2]int{{0, 0}, {3, 0}, {0, 3}, {3, 3}} {
		assert.EqualValues(0, pixelAlpha(layer, px[0], px[1]))
	}
}

func TestRaster_PaintCosineFalloff(t *testing.T) {
	assert := assert.New(t)

	layer := NewLayer(9, 9, "test")
	brush := NewSoftCircle().WithRadius(2).WithInnerRadius(0)

	center := Point{X: 4, Y: 4}
	paintFrame(layer, newFrame(brush, white, center, center))

	// Halfway into the falloff the coverage is positive but partial.
	assert.EqualValues(255, pixelAlpha(layer, 4, 4))
	assert.Greater(pixelAlpha(layer, 3, 4), uint8(0))
	assert.Less(pixelAlpha(layer, 3, 4), pixelAlpha(layer, 4, 4))
	assert.EqualValues(0, pixelAlpha(layer, 0, 0))
}

func TestRaster_SegmentLeavesNoGaps(t *testing.T) {
	assert := assert.New(t)

	layer := NewLayer(8, 8, "test")
	brush := NewSoftCircle().WithRadius(1).WithInnerRadius(1).WithSpacing(1)

	paintFrame(layer, newFrame(brush, white, Point{X: 1, Y: 2}, Point{X: 6, Y: 2}))

	for x := 1; x <= 6; x++ {
		assert.EqualValues(255, pixelAlpha(layer, x, 2), "gap at x=%d", x)
	}
}

func TestRaster_EraseIsMonotonic(t *testing.T) {
	assert := assert.New(t)

	layer := NewLayer(16, 16, "test")
	paintBrush := NewSoftCircle().WithRadius(5).WithInnerRadius(3)
	paintFrame(layer, newFrame(paintBrush, white, Point{X: 8, Y: 8}, Point{X: 8, Y: 8}))

	before := make([]uint8, len(layer.Img.Pix))
	copy(before, layer.Img.Pix)

	eraser := NewSoftCircle().WithRadius(4).WithInnerRadius(1).WithStrength(0.6)
	eraseFrame(layer, newFrame(eraser, white, Point{X: 6, Y: 8}, Point{X: 10, Y: 8}))
	eraseFrame(layer, newFrame(eraser, white, Point{X: 10, Y: 8}, Point{X: 6, Y: 8}))

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			idx := layer.Img.PixOffset(x, y)
			assert.LessOrEqual(layer.Img.Pix[idx+3], before[idx+3])
			// Color channels are never touched by the eraser.
			assert.Equal(before[idx:idx+3], layer.Img.Pix[idx:idx+3])
		}
	}
}

func TestRaster_EraseRoundsToNearest(t *testing.T) {
	assert := assert.New(t)

	layer := NewLayer(8, 8, "test")
	brush := NewSoftCircle().WithRadius(2).WithInnerRadius(2)
	paintFrame(layer, newFrame(brush, white, Point{X: 4, Y: 4}, Point{X: 4, Y: 4}))
	assert.EqualValues(255, pixelAlpha(layer, 4, 4))

	eraser := brush.WithStrength(0.5)
	eraseFrame(layer, newFrame(eraser, white, Point{X: 4, Y: 4}, Point{X: 4, Y: 4}))

	// The zero-length frame places the stamp at both segment endpoints,
	// halving the alpha twice: 255 -> 127.5 rounds to 128 -> 64. The write
	// convention matches the other stroke laws; truncation would end at 63.
	assert.EqualValues(64, pixelAlpha(layer, 4, 4))
}

func TestRaster_SmudgeZeroStrengthIsIdentity(t *testing.T) {
	assert := assert.New(t)

	layer := NewLayer(16, 16, "test")
	paintFrame(layer, newFrame(NewSoftCircle().WithRadius(4), white, Point{X: 8, Y: 8}, Point{X: 8, Y: 8}))

	before := make([]uint8, len(layer.Img.Pix))
	copy(before, layer.Img.Pix)

	smudger := NewSoftCircle().WithRadius(4).WithStrength(0)
	smudgeFrame(layer, newFrame(smudger, white, Point{X: 6, Y: 8}, Point{X: 10, Y: 8}))

	assert.Equal(before, layer.Img.Pix)
}

func TestRaster_SmudgeDragsPixels(t *testing.T) {
	assert := assert.New(t)

	layer := NewLayer(24, 24, "test")
	paintFrame(layer, newFrame(NewSoftCircle().WithRadius(3).WithInnerRadius(3), white, Point{X: 8, Y: 12}, Point{X: 8, Y: 12}))

	// Dragging rightwards across the blob pulls coverage past its right edge.
	rightEdge := pixelAlpha(layer, 13, 12)
	smudger := NewSoftCircle().WithRadius(3).WithInnerRadius(2).WithStrength(0.8)
	smudgeFrame(layer, newFrame(smudger, white, Point{X: 10, Y: 12}, Point{X: 14, Y: 12}))

	assert.Greater(pixelAlpha(layer, 13, 12), rightEdge)
}

func TestRaster_OutOfBoundsStampsAreClipped(t *testing.T) {
	assert := assert.New(t)

	layer := NewLayer(8, 8, "test")
	brush := NewSoftCircle().WithRadius(3).WithInnerRadius(3)

	// Entirely outside the canvas; nothing should be written.
	paintFrame(layer, newFrame(brush, white, Point{X: -10, Y: -10}, Point{X: -10, Y: -10}))
	for _, px := range layer.Img.Pix {
		assert.EqualValues(0, px)
	}

	// Straddling the corner is fine, the outside part is skipped silently.
	assert.NotPanics(func() {
		paintFrame(layer, newFrame(brush, white, Point{X: 0, Y: 0}, Point{X: 0, Y: 0}))
	})
	assert.EqualValues(255, pixelAlpha(layer, 0, 0))
}
