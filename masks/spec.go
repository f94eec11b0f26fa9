package masks

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/maskcmd/config"
	"github.com/lixenwraith/maskcmd/mask"
)

// ErrUnknownKind is returned when no factory is registered for a source kind
var ErrUnknownKind = errors.New("masks: unknown source kind")

// Spec is the input handed to registered source factories
type Spec struct {
	Config   config.SourceConfig
	Viewport ViewportFunc
}

func (s Spec) area() Area {
	c := s.Config
	return Area{X: c.X, Y: c.Y, W: c.W, H: c.H}
}

func (s Spec) layer() (mask.Layer, error) {
	l, err := mask.ParseLayer(s.Config.Layer)
	if err != nil {
		return mask.LayerNone, fmt.Errorf("source %q: %w", s.Config.Name, err)
	}
	return l, nil
}

// NewRectFromSpec builds a RectSource from configuration
func NewRectFromSpec(s Spec) (*RectSource, error) {
	l, err := s.layer()
	if err != nil {
		return nil, err
	}
	return NewRect(s.Config.Name, s.area(), l, s.Viewport), nil
}

// NewOutlineFromSpec builds an OutlineSource from configuration
func NewOutlineFromSpec(s Spec) (*OutlineSource, error) {
	l, err := s.layer()
	if err != nil {
		return nil, err
	}
	return NewOutline(s.Config.Name, s.area(), l, s.Config.Thickness, s.Viewport), nil
}

// NewCutoutFromSpec builds a CutoutSource from configuration
func NewCutoutFromSpec(s Spec) (*CutoutSource, error) {
	l, err := s.layer()
	if err != nil {
		return nil, err
	}
	return NewCutout(s.Config.Name, s.area(), l, s.Viewport), nil
}
