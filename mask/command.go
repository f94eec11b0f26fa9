package mask

import (
	"fmt"
	"image"
)

// Op identifies a stencil operation recorded into a CommandBuffer
type Op uint8

const (
	OpNone Op = iota
	OpClear
	OpFill
	OpCut
	OpOutline
	opCount
)

var opNames = [opCount]string{
	OpNone:    "none",
	OpClear:   "clear",
	OpFill:    "fill",
	OpCut:     "cut",
	OpOutline: "outline",
}

func (o Op) String() string {
	if o < opCount {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Layer is a stencil bitfield. Layers combine via OR and are excluded via XOR
type Layer uint8

const (
	LayerNone    Layer = 0
	LayerClip    Layer = 1 << 0 // Regular clipping masks
	LayerInvert  Layer = 1 << 1 // Inverted masks, drawn where the clip layer is absent
	LayerOverlay Layer = 1 << 2 // Overlay masks composited after clipping
	LayerDebug   Layer = 1 << 3 // Mask bounds visualization
	LayerAll     Layer = 0xFF
)

// layerNames maps config and log names to layers
var layerNames = map[string]Layer{
	"clip":    LayerClip,
	"invert":  LayerInvert,
	"overlay": LayerOverlay,
	"debug":   LayerDebug,
	"all":     LayerAll,
}

// ParseLayer resolves a layer name as used in configuration
func ParseLayer(name string) (Layer, error) {
	if l, ok := layerNames[name]; ok {
		return l, nil
	}
	return LayerNone, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
}

// Command is a single recorded stencil operation
// Rect is in device cells; ignored by OpClear
type Command struct {
	Op    Op
	Rect  image.Rectangle
	Layer Layer
}

// commandSize is the encoded size of one command: op, layer, four int32 coordinates
const commandSize = 2 + 4*4

func (c Command) validate() error {
	if c.Op == OpNone || c.Op >= opCount {
		return fmt.Errorf("%w: %v", ErrUnknownOp, c.Op)
	}
	if c.Layer == LayerNone {
		return fmt.Errorf("%w: %v", ErrNoLayer, c.Op)
	}
	return nil
}

func (c Command) String() string {
	if c.Op == OpClear {
		return fmt.Sprintf("%v layer=0x%02x", c.Op, uint8(c.Layer))
	}
	return fmt.Sprintf("%v %v layer=0x%02x", c.Op, c.Rect, uint8(c.Layer))
}
