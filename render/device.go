package render

import (
	"errors"
	"image"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/maskcmd/mask"
)

// ErrScreenNotReady is returned when the screen is missing or has no area
var ErrScreenNotReady = errors.New("render: screen not ready")

// TerminalDevice executes mask command buffers on a tcell screen
// Each execution replays the buffer into a cleared stencil and presents the
// viewport with a single Show
type TerminalDevice struct {
	screen   tcell.Screen
	stencil  *StencilBuffer
	palette  Palette
	viewport image.Rectangle // empty means full screen

	executions int64
	log        *zap.Logger
}

// NewTerminalDevice creates a device presenting on screen
func NewTerminalDevice(screen tcell.Screen, log *zap.Logger) *TerminalDevice {
	if log == nil {
		log = zap.NewNop()
	}
	return &TerminalDevice{
		screen:  screen,
		stencil: NewStencilBuffer(0, 0),
		palette: DefaultPalette(),
		log:     log.Named("device"),
	}
}

// SetPalette replaces the presentation palette
func (d *TerminalDevice) SetPalette(p Palette) {
	d.palette = p
}

// SetViewport limits presentation to r; an empty rect restores the full screen
func (d *TerminalDevice) SetViewport(r image.Rectangle) {
	d.viewport = r.Canon()
}

// Viewport returns the presented cell rectangle, clipped to the screen
func (d *TerminalDevice) Viewport() image.Rectangle {
	if d.screen == nil {
		return image.Rectangle{}
	}
	w, h := d.screen.Size()
	full := image.Rect(0, 0, w, h)
	if d.viewport.Empty() {
		return full
	}
	return d.viewport.Intersect(full)
}

// Stencil exposes the stencil of the last execution
func (d *TerminalDevice) Stencil() *StencilBuffer {
	return d.stencil
}

// Executions returns the number of successful executions
func (d *TerminalDevice) Executions() int64 {
	return d.executions
}

// ExecuteCommandBuffer replays buf and presents the result
func (d *TerminalDevice) ExecuteCommandBuffer(buf *mask.CommandBuffer) error {
	if d.screen == nil {
		return ErrScreenNotReady
	}
	w, h := d.screen.Size()
	if w <= 0 || h <= 0 {
		return ErrScreenNotReady
	}

	if sw, sh := d.stencil.Size(); sw != w || sh != h {
		d.log.Debug("stencil resized", zap.Int("width", w), zap.Int("height", h))
	}
	d.stencil.Resize(w, h)
	buf.Each(func(_ int, cmd mask.Command) {
		d.stencil.Apply(cmd)
	})

	vp := d.Viewport()
	for y := vp.Min.Y; y < vp.Max.Y; y++ {
		for x := vp.Min.X; x < vp.Max.X; x++ {
			g := d.palette.Cell(d.stencil.At(x, y))
			d.screen.SetContent(x, y, g.Rune, nil, g.Style)
		}
	}
	d.screen.Show()

	d.executions++
	return nil
}
