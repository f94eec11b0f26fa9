package mask

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDriver captures the subscribed handler so tests can tick it directly
type stubDriver struct {
	handler   TickHandler
	scope     Scope
	cancelled int
}

func (d *stubDriver) Subscribe(h TickHandler, scope Scope) func() {
	d.handler, d.scope = h, scope
	return func() { d.cancelled++ }
}

type countingDevice struct{ calls int }

func (d *countingDevice) ExecuteCommandBuffer(*CommandBuffer) error {
	d.calls++
	return nil
}

type fillSource struct{}

func (*fillSource) AddToCommandBuffer(buf *CommandBuffer) error {
	return buf.Fill(image.Rect(0, 0, 1, 1), LayerClip)
}

func TestFrameProxy_SameFrameSubmitsOnce(t *testing.T) {
	drv, dev := &stubDriver{}, &countingDevice{}
	a := New(drv, dev)
	require.NoError(t, a.AddSource(&fillSource{}))

	p, ok := drv.handler.(*FrameProxy)
	require.True(t, ok)
	assert.True(t, p.Designated())
	assert.True(t, p.IsHidden())
	assert.Equal(t, DefaultName, p.Name())
	assert.Equal(t, ScopeSession, drv.scope)

	p.OnTick(7)
	p.OnTick(7)
	assert.Equal(t, 1, dev.calls)

	p.OnTick(8)
	assert.Equal(t, 2, dev.calls)
}

func TestFrameProxy_DesignTimeScope(t *testing.T) {
	drv := &stubDriver{}
	a := New(drv, &countingDevice{}, WithHostMode(HostDesignTime))
	require.NoError(t, a.ForceRefresh())
	assert.Equal(t, ScopeScene, drv.scope)
}

func TestFrameProxy_DetachReplacesProxy(t *testing.T) {
	drv, dev := &stubDriver{}, &countingDevice{}
	a := New(drv, dev)
	require.NoError(t, a.AddSource(&fillSource{}))
	first := drv.handler.(*FrameProxy)

	first.OnDetach()
	assert.False(t, a.Initialized())
	assert.False(t, first.Designated())
	assert.Zero(t, drv.cancelled, "detach does not cancel, the driver already dropped the proxy")

	require.NoError(t, a.AddSource(&fillSource{}))
	second := drv.handler.(*FrameProxy)
	assert.NotSame(t, first, second)

	first.OnTick(1)
	assert.Zero(t, dev.calls, "old proxy is inert")
	second.OnTick(1)
	assert.Equal(t, 1, dev.calls)
}

func TestAggregator_CloseCancelsSubscription(t *testing.T) {
	drv := &stubDriver{}
	a := New(drv, &countingDevice{})
	require.NoError(t, a.ForceRefresh())

	a.Close()
	a.Close()
	assert.Equal(t, 1, drv.cancelled)
}
