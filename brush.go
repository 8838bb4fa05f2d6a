package daub

import (
	"math"

	"github.com/esimov/daub/utils"
)

// Brush describes the shape of a painting tool and produces the Stamp
// deposited at each placement along a stroke. Implementations are immutable
// values: the With* builders return a new brush and never mutate the
// receiver, so a brush snapshot referenced by a recorded stroke frame is
// never altered retroactively.
type Brush interface {
	// ComputeStamp returns the local alpha mask of a single brush placement.
	ComputeStamp() Stamp
	// Radius is the outer falloff boundary expressed in pixels.
	Radius() float64
	// InnerRadius is the full-opacity core radius expressed in pixels.
	InnerRadius() float64
	// Spacing is the fraction of the radius between two stamp placements.
	Spacing() float64
	// Strength is the opacity multiplier of the brush, in the [0, 1] range.
	Strength() float64

	WithRadius(radius float64) Brush
	WithInnerRadius(innerRadius float64) Brush
	WithSpacing(spacing float64) Brush
	WithStrength(strength float64) Brush
}

// StampCell is a single point of a stamp, expressed as an offset relative
// to the stamp center together with its alpha weight.
type StampCell struct {
	Dx, Dy int
	Alpha  float64
}

// Stamp is the precomputed local alpha mask of one brush placement.
// It carries only shape and coverage, not a baked-in color, so the same
// stamp serves the paint, erase and smudge operations alike.
type Stamp struct {
	Cells []StampCell
}

var _ Brush = SoftCircle{}

// SoftCircle is a circular brush with a fully opaque core and a raised
// cosine falloff between the inner and the outer radius.
type SoftCircle struct {
	radius      float64
	innerRadius float64
	spacing     float64
	strength    float64
}

// NewSoftCircle returns a soft circle brush initialized with the default settings.
func NewSoftCircle() SoftCircle {
	return SoftCircle{
		radius:      10.0,
		innerRadius: 1.0,
		spacing:     0.1,
		strength:    1.0,
	}
}

// ComputeStamp generates the alpha mask of the brush by scanning the square
// bounding box of the outer radius. Offsets falling outside the radius are
// omitted; inside the inner radius the coverage is full, in between it
// follows a raised cosine falloff.
func (b SoftCircle) ComputeStamp() Stamp {
	r := int(math.Ceil(b.radius))
	cells := make([]StampCell, 0, (2*r+1)*(2*r+1))

	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			dist := math.Hypot(float64(x), float64(y))
			if dist > b.radius {
				continue
			}
			cells = append(cells, StampCell{
				Dx:    x,
				Dy:    y,
				Alpha: b.alphaAt(dist),
			})
		}
	}
	return Stamp{Cells: cells}
}

// alphaAt computes the stamp coverage at the given distance from the center.
func (b SoftCircle) alphaAt(dist float64) float64 {
	if dist <= b.innerRadius {
		return 1.0
	}
	if b.radius == b.innerRadius {
		return 0.0
	}
	t := utils.Min((dist-b.innerRadius)/(b.radius-b.innerRadius), 1.0)
	return 0.5 * (1.0 + math.Cos(t*math.Pi))
}

func (b SoftCircle) Radius() float64      { return b.radius }
func (b SoftCircle) InnerRadius() float64 { return b.innerRadius }
func (b SoftCircle) Spacing() float64     { return b.spacing }
func (b SoftCircle) Strength() float64    { return b.strength }

// WithRadius returns a new brush with the outer radius replaced.
// The inner radius is capped so it never exceeds the outer one.
func (b SoftCircle) WithRadius(radius float64) Brush {
	b.radius = math.Max(radius, 0)
	b.innerRadius = utils.Min(b.innerRadius, b.radius)
	return b
}

// WithInnerRadius returns a new brush with the full-opacity core replaced,
// clamped into the [0, radius] interval.
func (b SoftCircle) WithInnerRadius(innerRadius float64) Brush {
	b.innerRadius = utils.Clamp(innerRadius, 0, b.radius)
	return b
}

// WithSpacing returns a new brush with the stamp spacing replaced.
func (b SoftCircle) WithSpacing(spacing float64) Brush {
	b.spacing = math.Max(spacing, 0.01)
	return b
}

// WithStrength returns a new brush with the opacity multiplier replaced.
func (b SoftCircle) WithStrength(strength float64) Brush {
	b.strength = utils.Clamp(strength, 0, 1)
	return b
}
