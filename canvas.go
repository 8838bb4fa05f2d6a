package daub

import (
	"fmt"
	"image"

	"github.com/esimov/daub/imop"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrLayerOutOfRange is returned when a layer index does not
// designate an existing canvas layer.
var ErrLayerOutOfRange = errors.New("layer index out of range")

// Layer is a single named pixel buffer of the canvas. The pixel data is
// stored as non-premultiplied RGBA bytes, tightly packed row by row, which
// keeps the width*height*4 buffer invariant for the lifetime of the layer.
type Layer struct {
	// ID identifies the layer independently of its stacking position.
	ID string
	// Name is the user facing layer name.
	Name string
	// Visible excludes the layer from compositing when unset.
	Visible bool
	// BlendMode optionally selects one of the imop separable blend modes
	// applied when the layer is composited. Empty means plain source-over.
	BlendMode string
	// Img holds the layer pixels.
	Img *image.NRGBA

	dirty bool
}

// NewLayer creates a fully transparent layer of the given size.
func NewLayer(width, height int, name string) *Layer {
	return &Layer{
		ID:      uuid.NewString(),
		Name:    name,
		Visible: true,
		Img:     image.NewNRGBA(image.Rect(0, 0, width, height)),
		dirty:   true,
	}
}

// MarkDirty flags the layer as changed since the last compositing pass.
func (l *Layer) MarkDirty() { l.dirty = true }

// MarkClean resets the dirty flag after the layer has been composited.
func (l *Layer) MarkClean() { l.dirty = false }

// IsDirty reports whether the layer changed since the last compositing pass.
func (l *Layer) IsDirty() bool { return l.dirty }

// Clear resets every pixel of the layer to fully transparent.
func (l *Layer) Clear() {
	for i := range l.Img.Pix {
		l.Img.Pix[i] = 0
	}
	l.MarkDirty()
}

func (l *Layer) inBounds(x, y int) bool {
	return x >= 0 && x < l.Img.Rect.Dx() && y >= 0 && y < l.Img.Rect.Dy()
}

// Canvas is an ordered stack of equally sized layers together with the
// index of the layer strokes are currently painted into. The canvas
// dimensions are fixed at creation time; layers are never resized.
type Canvas struct {
	Width  int
	Height int

	layers []*Layer
	active int
}

// NewCanvas creates a canvas of the given size holding numLayers
// transparent layers. At least one layer is always created; the bottom
// one is named "Background".
func NewCanvas(width, height, numLayers int) *Canvas {
	if numLayers < 1 {
		numLayers = 1
	}
	c := &Canvas{
		Width:  width,
		Height: height,
	}
	c.layers = append(c.layers, NewLayer(width, height, "Background"))
	for i := 1; i < numLayers; i++ {
		c.AddLayer()
	}
	return c
}

// Layers returns the layer stack in bottom to top storage order.
func (c *Canvas) Layers() []*Layer { return c.layers }

// Layer returns the layer at the given stack position.
func (c *Canvas) Layer(idx int) (*Layer, error) {
	if idx < 0 || idx >= len(c.layers) {
		return nil, errors.Wrapf(ErrLayerOutOfRange, "layer %d of %d", idx, len(c.layers))
	}
	return c.layers[idx], nil
}

// ActiveLayer returns the index of the layer strokes are painted into.
func (c *Canvas) ActiveLayer() int { return c.active }

// SetActiveLayer selects the layer strokes are painted into.
func (c *Canvas) SetActiveLayer(idx int) error {
	if idx < 0 || idx >= len(c.layers) {
		return errors.Wrapf(ErrLayerOutOfRange, "layer %d of %d", idx, len(c.layers))
	}
	c.active = idx
	return nil
}

// AddLayer appends a new transparent layer on top of the stack.
func (c *Canvas) AddLayer() *Layer {
	layer := NewLayer(c.Width, c.Height, fmt.Sprintf("Layer %d", len(c.layers)))
	c.layers = append(c.layers, layer)
	return layer
}

// Clear resets every layer of the canvas to fully transparent.
func (c *Canvas) Clear() {
	for _, layer := range c.layers {
		layer.Clear()
	}
}

// ClearLayer resets a single layer to fully transparent.
func (c *Canvas) ClearLayer(idx int) error {
	layer, err := c.Layer(idx)
	if err != nil {
		return err
	}
	layer.Clear()
	return nil
}

// Dirty reports whether any layer changed since the last compositing pass.
func (c *Canvas) Dirty() bool {
	for _, layer := range c.layers {
		if layer.dirty {
			return true
		}
	}
	return false
}

// ProcessFrame rasterizes one stroke frame into the designated layer.
// Stamp cells landing outside the canvas bounds are silently clipped.
func (c *Canvas) ProcessFrame(idx int, kind StrokeKind, frame Frame) error {
	layer, err := c.Layer(idx)
	if err != nil {
		return err
	}
	layer.MarkDirty()
	applyFrame(layer, kind, frame)
	return nil
}

// Flatten composites the visible layers bottom to top into a single image
// using the source-over operator, starting from a fully transparent
// backdrop. The result is always recomputed from scratch, independent of
// the per-layer dirty flags, so it is safe to use for file export.
func (c *Canvas) Flatten() *image.NRGBA {
	rect := image.Rect(0, 0, c.Width, c.Height)
	op := imop.InitOp()
	op.Set(imop.SrcOver)

	acc := image.NewNRGBA(rect)
	for _, layer := range c.layers {
		if !layer.Visible {
			continue
		}
		var blend *imop.Blend
		if layer.BlendMode != "" {
			blend = imop.NewBlend()
			blend.Set(layer.BlendMode)
		}
		bmp := imop.NewBitmap(rect)
		op.Draw(bmp, layer.Img, acc, blend)
		acc = bmp.Img
	}
	return acc
}
