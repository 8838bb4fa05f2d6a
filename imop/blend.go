package imop

import (
	"github.com/esimov/daub/utils"
)

const (
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend.
func NewBlend() *Blend {
	return &Blend{}
}

// Set activates one of the supported blend modes.
func (o *Blend) Set(opType string) {
	bModes := []string{Darken, Lighten, Multiply, Screen, Overlay}

	if utils.Contains(bModes, opType) {
		o.OpType = opType
	}
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	if len(o.OpType) > 0 {
		return o.OpType
	}
	return ""
}

// apply mixes a backdrop and a source color channel with
// the active blend mode.
func (o *Blend) apply(b, s float64) float64 {
	switch o.OpType {
	case Darken:
		return utils.Min(b, s)
	case Lighten:
		return utils.Max(b, s)
	case Multiply:
		return b * s
	case Screen:
		return 1 - (1-b)*(1-s)
	case Overlay:
		if b <= 0.5 {
			return 2 * b * s
		}
		return 1 - 2*(1-b)*(1-s)
	}
	return s
}
