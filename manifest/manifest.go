package manifest

import (
	"github.com/lixenwraith/maskcmd/masks"
	"github.com/lixenwraith/maskcmd/registry"
)

// Source kinds as named in configuration
const (
	KindRect    = "rect"
	KindOutline = "outline"
	KindCutout  = "cutout"
)

// RegisterSources binds every built-in source kind to its factory
// Called once at startup before any layout is applied
func RegisterSources() {
	registry.RegisterSource(KindRect, func(s any) (any, error) {
		return masks.NewRectFromSpec(s.(masks.Spec))
	})
	registry.RegisterSource(KindOutline, func(s any) (any, error) {
		return masks.NewOutlineFromSpec(s.(masks.Spec))
	})
	registry.RegisterSource(KindCutout, func(s any) (any, error) {
		return masks.NewCutoutFromSpec(s.(masks.Spec))
	})
}
