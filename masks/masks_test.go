package masks_test

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/maskcmd/config"
	"github.com/lixenwraith/maskcmd/engine"
	"github.com/lixenwraith/maskcmd/manifest"
	"github.com/lixenwraith/maskcmd/mask"
	"github.com/lixenwraith/maskcmd/masks"
)

var screen = image.Rect(0, 0, 80, 24)

func record(t *testing.T, src mask.CommandSource) []mask.Command {
	t.Helper()
	buf := mask.NewCommandBuffer("test")
	require.NoError(t, src.AddToCommandBuffer(buf))
	return buf.Commands()
}

func TestArea_Cells(t *testing.T) {
	tests := []struct {
		name string
		area masks.Area
		vp   image.Rectangle
		want image.Rectangle
	}{
		{"centered", masks.Area{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}, screen, image.Rect(20, 6, 60, 18)},
		{"full", masks.Area{W: 1, H: 1}, screen, screen},
		{"offset viewport", masks.Area{W: 0.5, H: 0.5}, image.Rect(10, 2, 30, 10), image.Rect(10, 2, 20, 6)},
		{"rounds outward", masks.Area{X: 0.25, W: 0.25, H: 1}, image.Rect(0, 0, 6, 1), image.Rect(1, 0, 3, 1)},
		{"degenerate", masks.Area{W: 0, H: 1}, screen, image.Rectangle{}},
		{"empty viewport", masks.Area{W: 1, H: 1}, image.Rectangle{}, image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.area.Cells(tt.vp))
		})
	}
}

func TestRectSource(t *testing.T) {
	src := masks.NewRect("panel", masks.Area{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}, mask.LayerClip, masks.FixedViewport(screen))

	cmds := record(t, src)
	require.Len(t, cmds, 1)
	assert.Equal(t, mask.Command{Op: mask.OpFill, Rect: image.Rect(20, 6, 60, 18), Layer: mask.LayerClip}, cmds[0])
	assert.Equal(t, "rect:panel", src.String())

	src.SetArea(masks.Area{W: 0.5, H: 0.5})
	cmds = record(t, src)
	assert.Equal(t, image.Rect(0, 0, 40, 12), cmds[0].Rect)
}

func TestRectSource_NoViewportRecordsNothing(t *testing.T) {
	src := masks.NewRect("", masks.Area{W: 1, H: 1}, mask.LayerClip, nil)
	assert.Empty(t, record(t, src))
	assert.NotEmpty(t, src.Name(), "unnamed sources get a random name")
	assert.NotEqual(t, src.Name(), masks.NewRect("", masks.Area{}, mask.LayerClip, nil).Name())
}

func TestOutlineSource_Thickness(t *testing.T) {
	vp := masks.FixedViewport(image.Rect(0, 0, 10, 10))

	cmds := record(t, masks.NewOutline("o", masks.Area{W: 1, H: 1}, mask.LayerDebug, 2, vp))
	require.Len(t, cmds, 2)
	assert.Equal(t, mask.OpOutline, cmds[0].Op)
	assert.Equal(t, image.Rect(0, 0, 10, 10), cmds[0].Rect)
	assert.Equal(t, image.Rect(1, 1, 9, 9), cmds[1].Rect)

	// Thickness is clamped to at least one
	cmds = record(t, masks.NewOutline("o", masks.Area{W: 1, H: 1}, mask.LayerDebug, 0, vp))
	assert.Len(t, cmds, 1)

	// Insets stop once the rect collapses
	cmds = record(t, masks.NewOutline("o", masks.Area{W: 0.2, H: 0.2}, mask.LayerDebug, 5, vp))
	assert.Len(t, cmds, 1)
}

func TestCutoutSource(t *testing.T) {
	cmds := record(t, masks.NewCutout("hole", masks.Area{W: 0.5, H: 0.5}, mask.LayerClip, masks.FixedViewport(screen)))
	require.Len(t, cmds, 1)
	assert.Equal(t, mask.OpCut, cmds[0].Op)
}

type failingSource struct{ err error }

func (f *failingSource) AddToCommandBuffer(*mask.CommandBuffer) error { return f.err }

func TestGroup(t *testing.T) {
	vp := masks.FixedViewport(screen)
	g := masks.NewGroup("g",
		masks.NewRect("a", masks.Area{W: 1, H: 1}, mask.LayerClip, vp),
		masks.NewCutout("b", masks.Area{W: 0.5, H: 0.5}, mask.LayerClip, vp),
	)
	cmds := record(t, g)
	require.Len(t, cmds, 2)
	assert.Equal(t, mask.OpFill, cmds[0].Op)
	assert.Equal(t, mask.OpCut, cmds[1].Op)

	boom := errors.New("boom")
	g.Add(&failingSource{err: boom})
	assert.Equal(t, 3, g.Len())

	err := g.AddToCommandBuffer(mask.NewCommandBuffer("test"))
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "child 2")
}

// recordingRegistrar logs membership calls
type recordingRegistrar struct {
	calls   []string
	sources []mask.CommandSource
}

func (r *recordingRegistrar) AddSource(src mask.CommandSource) error {
	r.calls = append(r.calls, "add "+src.(interface{ Name() string }).Name())
	r.sources = append(r.sources, src)
	return nil
}

func (r *recordingRegistrar) RemoveSource(src mask.CommandSource) error {
	r.calls = append(r.calls, "remove "+src.(interface{ Name() string }).Name())
	for i, s := range r.sources {
		if s == src {
			r.sources = append(r.sources[:i], r.sources[i+1:]...)
			break
		}
	}
	return nil
}

func sourceConfigs() []config.SourceConfig {
	return []config.SourceConfig{
		{Name: "base", Kind: manifest.KindRect, W: 1, H: 1, Layer: "clip"},
		{Name: "hole", Kind: manifest.KindCutout, X: 0.25, Y: 0.25, W: 0.5, H: 0.5, Layer: "clip"},
		{Name: "frame", Kind: manifest.KindOutline, W: 1, H: 1, Layer: "debug", Thickness: 1},
	}
}

func TestLayout_Apply(t *testing.T) {
	manifest.RegisterSources()
	reg := &recordingRegistrar{}
	l := masks.NewLayout(reg, masks.FixedViewport(screen), nil)

	cfgs := sourceConfigs()
	require.NoError(t, l.Apply(cfgs))
	assert.Equal(t, []string{"add base", "add hole", "add frame"}, reg.calls)
	assert.Equal(t, 3, l.Len())

	// Unchanged config is a no-op
	reg.calls = nil
	require.NoError(t, l.Apply(sourceConfigs()))
	assert.Empty(t, reg.calls)

	// Changing the middle entry re-registers it and everything after it
	cfgs = sourceConfigs()
	cfgs[1].W = 0.25
	require.NoError(t, l.Apply(cfgs))
	assert.Equal(t, []string{"remove frame", "remove hole", "add hole", "add frame"}, reg.calls)
	assert.Equal(t, l.Sources(), reg.sources)

	reg.calls = nil
	require.NoError(t, l.Clear())
	assert.Equal(t, []string{"remove frame", "remove hole", "remove base"}, reg.calls)
	assert.Zero(t, l.Len())
}

func TestLayout_UnknownKindIsSkipped(t *testing.T) {
	manifest.RegisterSources()
	reg := &recordingRegistrar{}
	l := masks.NewLayout(reg, masks.FixedViewport(screen), nil)

	cfgs := sourceConfigs()
	cfgs[1].Kind = "ellipse"

	err := l.Apply(cfgs)
	assert.ErrorIs(t, err, masks.ErrUnknownKind)
	assert.ErrorContains(t, err, `"hole"`)
	assert.Equal(t, []string{"add base", "add frame"}, reg.calls)
	assert.Equal(t, 2, l.Len())
}

type nopDevice struct{}

func (nopDevice) ExecuteCommandBuffer(*mask.CommandBuffer) error { return nil }

func TestLayout_DrivesAggregator(t *testing.T) {
	manifest.RegisterSources()
	loop := engine.NewFrameLoop(time.Millisecond, nil, nil, nil)
	agg := mask.New(loop, nopDevice{})
	l := masks.NewLayout(agg, masks.FixedViewport(screen), nil)

	require.NoError(t, l.Apply(sourceConfigs()))
	assert.Equal(t, 3, agg.Len())

	snap := agg.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, mask.OpFill, snap[0].Op)
	assert.Equal(t, mask.OpCut, snap[1].Op)
	assert.Equal(t, mask.OpOutline, snap[2].Op)

	require.NoError(t, l.Clear())
	assert.Zero(t, agg.Len())
	assert.Empty(t, agg.Snapshot())
}
