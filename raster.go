package daub

import (
	"image/color"
	"math"
	"time"

	"github.com/esimov/daub/utils"
)

// StrokeKind designates which blend law a stroke applies to the layer.
type StrokeKind int

const (
	// Paint deposits the stroke color using the saturation-biased over law.
	Paint StrokeKind = iota
	// Erase decays the alpha channel and leaves the color channels untouched.
	Erase
	// Smudge drags existing pixels along the stroke direction.
	Smudge
)

func (k StrokeKind) String() string {
	switch k {
	case Paint:
		return "paint"
	case Erase:
		return "erase"
	case Smudge:
		return "smudge"
	}
	return "unknown"
}

// paintBias pushes painted pixels toward full coverage. The effective blend
// weight is clamped to 1 so a biased source can never overshoot.
const paintBias = 1.3

// Point is a position expressed in canvas-space coordinates.
type Point struct {
	X, Y float64
}

// Frame records one incremental brush application: the brush snapshot, the
// stroke color and the pointer segment covered since the previous frame.
// A frame is append-only once recorded.
type Frame struct {
	Brush      Brush
	Color      color.NRGBA
	Cursor     Point
	LastCursor Point
	Timestamp  time.Time
}

// applyFrame rasterizes a single stroke frame into the layer,
// dispatching on the stroke kind.
func applyFrame(l *Layer, kind StrokeKind, f Frame) {
	switch kind {
	case Paint:
		paintFrame(l, f)
	case Erase:
		eraseFrame(l, f)
	case Smudge:
		smudgeFrame(l, f)
	}
}

// walkSegment interpolates the pointer segment of the frame and invokes fn
// at every stamp placement. The step count guarantees placements no sparser
// than radius*spacing, which prevents visible gaps on fast pointer motion,
// and a zero length segment (a click) still produces one placement.
func walkSegment(f Frame, fn func(cx, cy float64)) {
	x0, y0 := f.LastCursor.X, f.LastCursor.Y
	dx := f.Cursor.X - x0
	dy := f.Cursor.Y - y0
	dist := math.Hypot(dx, dy)

	steps := 1
	if minSpacing := f.Brush.Radius() * f.Brush.Spacing(); minSpacing > 0 {
		steps = int(math.Max(1, math.Round(dist/minSpacing)))
	}

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		fn(x0+dx*t, y0+dy*t)
	}
}

// paintFrame blends the stroke color into the layer. The per-pixel source
// alpha is the frame color alpha scaled by the stamp coverage; pixels the
// stamp does not cover are left unmodified, which also guarantees that a
// fully transparent result never overwrites existing color data.
func paintFrame(l *Layer, f Frame) {
	stamp := f.Brush.ComputeStamp()
	colAlpha := float64(f.Color.A) / 255
	src := [3]float64{
		float64(f.Color.R) / 255,
		float64(f.Color.G) / 255,
		float64(f.Color.B) / 255,
	}

	walkSegment(f, func(cx, cy float64) {
		for _, cell := range stamp.Cells {
			px := int(cx + float64(cell.Dx))
			py := int(cy + float64(cell.Dy))
			if !l.inBounds(px, py) {
				continue
			}
			srcAlpha := colAlpha * cell.Alpha
			if srcAlpha == 0 {
				continue
			}
			idx := l.Img.PixOffset(px, py)
			weight := utils.Min(srcAlpha*paintBias, 1.0)

			for c := 0; c < 3; c++ {
				dst := float64(l.Img.Pix[idx+c]) / 255
				res := src[c]*weight + dst*(1-weight)
				l.Img.Pix[idx+c] = uint8(res*255 + 0.5)
			}
			dstAlpha := float64(l.Img.Pix[idx+3]) / 255
			outAlpha := utils.Min(srcAlpha+dstAlpha*(1-srcAlpha), 1.0)
			l.Img.Pix[idx+3] = uint8(outAlpha*255 + 0.5)
		}
	})
}

// eraseFrame decays the alpha channel under the stamp. The decay is
// multiplicative, so the alpha is monotonically non-increasing and can
// never go negative. Color channels are not touched.
func eraseFrame(l *Layer, f Frame) {
	stamp := f.Brush.ComputeStamp()
	strength := f.Brush.Strength()

	walkSegment(f, func(cx, cy float64) {
		for _, cell := range stamp.Cells {
			px := int(cx + float64(cell.Dx))
			py := int(cy + float64(cell.Dy))
			if !l.inBounds(px, py) {
				continue
			}
			eraseStrength := cell.Alpha * strength
			if eraseStrength == 0 {
				continue
			}
			idx := l.Img.PixOffset(px, py)
			alpha := float64(l.Img.Pix[idx+3]) / 255
			l.Img.Pix[idx+3] = uint8(alpha*(1-eraseStrength)*255 + 0.5)
		}
	})
}

// smudgeFrame drags pixels along the stroke direction: for every covered
// pixel a source pixel is sampled from behind the stroke motion and the
// destination is interpolated toward it. A zero strength brush is a no-op
// by construction.
func smudgeFrame(l *Layer, f Frame) {
	strength := f.Brush.Strength()
	if strength == 0 {
		return
	}
	stamp := f.Brush.ComputeStamp()
	dx := f.Cursor.X - f.LastCursor.X
	dy := f.Cursor.Y - f.LastCursor.Y

	walkSegment(f, func(cx, cy float64) {
		for _, cell := range stamp.Cells {
			px := int(cx + float64(cell.Dx))
			py := int(cy + float64(cell.Dy))
			if !l.inBounds(px, py) {
				continue
			}
			weight := cell.Alpha * strength
			if weight == 0 {
				continue
			}
			sx := int(float64(px) - dx*strength)
			sy := int(float64(py) - dy*strength)
			if !l.inBounds(sx, sy) {
				continue
			}
			dstIdx := l.Img.PixOffset(px, py)
			srcIdx := l.Img.PixOffset(sx, sy)

			for c := 0; c < 4; c++ {
				dst := float64(l.Img.Pix[dstIdx+c]) / 255
				src := float64(l.Img.Pix[srcIdx+c]) / 255
				res := dst + (src-dst)*weight
				l.Img.Pix[dstIdx+c] = uint8(res*255 + 0.5)
			}
		}
	})
}
