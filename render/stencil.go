package render

import (
	"image"

	"github.com/lixenwraith/maskcmd/mask"
)

// StencilBuffer holds per-cell layer bits, row-major: bits[y*width+x]
type StencilBuffer struct {
	bits   []mask.Layer
	width  int
	height int
}

// NewStencilBuffer creates a cleared buffer with the specified dimensions
func NewStencilBuffer(width, height int) *StencilBuffer {
	return &StencilBuffer{
		bits:   make([]mask.Layer, width*height),
		width:  width,
		height: height,
	}
}

// Resize adjusts dimensions and clears, reallocating only if capacity is insufficient
func (b *StencilBuffer) Resize(width, height int) {
	size := width * height
	if cap(b.bits) < size {
		b.bits = make([]mask.Layer, size)
	} else {
		b.bits = b.bits[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Size returns the buffer dimensions
func (b *StencilBuffer) Size() (width, height int) {
	return b.width, b.height
}

// Bounds returns the addressable cell rectangle
func (b *StencilBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Clear zeroes every cell
func (b *StencilBuffer) Clear() {
	clear(b.bits)
}

// At returns the layer bits at x, y; out of bounds reads LayerNone
func (b *StencilBuffer) At(x, y int) mask.Layer {
	if !b.inBounds(x, y) {
		return mask.LayerNone
	}
	return b.bits[y*b.width+x]
}

func (b *StencilBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// ClearLayer removes layer bits from every cell
func (b *StencilBuffer) ClearLayer(layer mask.Layer) {
	for i := range b.bits {
		b.bits[i] &^= layer
	}
}

// Fill sets layer bits inside r, clipped to bounds
func (b *StencilBuffer) Fill(r image.Rectangle, layer mask.Layer) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.bits[y*b.width : (y+1)*b.width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] |= layer
		}
	}
}

// Cut clears layer bits inside r, clipped to bounds
func (b *StencilBuffer) Cut(r image.Rectangle, layer mask.Layer) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.bits[y*b.width : (y+1)*b.width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] &^= layer
		}
	}
}

// Outline sets layer bits on the border cells of r that fall inside bounds
func (b *StencilBuffer) Outline(r image.Rectangle, layer mask.Layer) {
	if r.Empty() {
		return
	}
	top, bottom := r.Min.Y, r.Max.Y-1
	left, right := r.Min.X, r.Max.X-1

	for x := left; x <= right; x++ {
		b.set(x, top, layer)
		b.set(x, bottom, layer)
	}
	for y := top + 1; y < bottom; y++ {
		b.set(left, y, layer)
		b.set(right, y, layer)
	}
}

func (b *StencilBuffer) set(x, y int, layer mask.Layer) {
	if b.inBounds(x, y) {
		b.bits[y*b.width+x] |= layer
	}
}

// Apply executes a single recorded command
func (b *StencilBuffer) Apply(cmd mask.Command) {
	switch cmd.Op {
	case mask.OpClear:
		b.ClearLayer(cmd.Layer)
	case mask.OpFill:
		b.Fill(cmd.Rect, cmd.Layer)
	case mask.OpCut:
		b.Cut(cmd.Rect, cmd.Layer)
	case mask.OpOutline:
		b.Outline(cmd.Rect, cmd.Layer)
	}
}
