package masks

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lixenwraith/maskcmd/mask"
)

func nameOrNew(name string) string {
	if name == "" {
		return uuid.NewString()
	}
	return name
}

// RectSource fills its area on the given layers
type RectSource struct {
	name     string
	area     Area
	layer    mask.Layer
	viewport ViewportFunc
}

// NewRect creates a filled mask; an empty name gets a random one
func NewRect(name string, area Area, layer mask.Layer, vp ViewportFunc) *RectSource {
	return &RectSource{name: nameOrNew(name), area: area, layer: layer, viewport: vp}
}

func (s *RectSource) Name() string { return s.name }
func (s *RectSource) Area() Area   { return s.area }

// SetArea moves the mask; the owner must refresh the aggregator afterwards
func (s *RectSource) SetArea(a Area) { s.area = a }

func (s *RectSource) AddToCommandBuffer(buf *mask.CommandBuffer) error {
	r := s.area.Cells(s.viewport.resolve())
	if r.Empty() {
		return nil
	}
	return buf.Fill(r, s.layer)
}

func (s *RectSource) String() string { return "rect:" + s.name }

// OutlineSource draws a border of Thickness cells inside its area
type OutlineSource struct {
	name      string
	area      Area
	layer     mask.Layer
	thickness int
	viewport  ViewportFunc
}

// NewOutline creates a border mask; thickness below 1 is treated as 1
func NewOutline(name string, area Area, layer mask.Layer, thickness int, vp ViewportFunc) *OutlineSource {
	return &OutlineSource{
		name:      nameOrNew(name),
		area:      area,
		layer:     layer,
		thickness: max(thickness, 1),
		viewport:  vp,
	}
}

func (s *OutlineSource) Name() string { return s.name }

func (s *OutlineSource) AddToCommandBuffer(buf *mask.CommandBuffer) error {
	r := s.area.Cells(s.viewport.resolve())
	for i := 0; i < s.thickness && !r.Empty(); i++ {
		if err := buf.Outline(r, s.layer); err != nil {
			return err
		}
		r = r.Inset(1)
	}
	return nil
}

func (s *OutlineSource) String() string { return "outline:" + s.name }

// CutoutSource clears its area from layers set by earlier sources
type CutoutSource struct {
	name     string
	area     Area
	layer    mask.Layer
	viewport ViewportFunc
}

// NewCutout creates a hole mask
func NewCutout(name string, area Area, layer mask.Layer, vp ViewportFunc) *CutoutSource {
	return &CutoutSource{name: nameOrNew(name), area: area, layer: layer, viewport: vp}
}

func (s *CutoutSource) Name() string { return s.name }

func (s *CutoutSource) AddToCommandBuffer(buf *mask.CommandBuffer) error {
	r := s.area.Cells(s.viewport.resolve())
	if r.Empty() {
		return nil
	}
	return buf.Cut(r, s.layer)
}

func (s *CutoutSource) String() string { return "cutout:" + s.name }

// Group records its children in order as a single source
type Group struct {
	name     string
	children []mask.CommandSource
}

// NewGroup creates a composite source
func NewGroup(name string, children ...mask.CommandSource) *Group {
	return &Group{name: nameOrNew(name), children: children}
}

func (g *Group) Name() string { return g.name }

// Add appends a child; the owner must refresh the aggregator afterwards
func (g *Group) Add(child mask.CommandSource) {
	g.children = append(g.children, child)
}

func (g *Group) Len() int { return len(g.children) }

func (g *Group) AddToCommandBuffer(buf *mask.CommandBuffer) error {
	for i, child := range g.children {
		if err := child.AddToCommandBuffer(buf); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	return nil
}

func (g *Group) String() string { return "group:" + g.name }
