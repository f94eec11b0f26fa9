package mask

// FrameProxy is the host-managed object that carries the aggregator's frame tick
// Only the proxy created during initialization submits; any other proxy is inert
type FrameProxy struct {
	agg *Aggregator
}

// NewFrameProxy creates a proxy bound to a
// Proxies created outside initialization never become the designated one
func NewFrameProxy(a *Aggregator) *FrameProxy {
	return &FrameProxy{agg: a}
}

// Name returns the host object name of the proxy
func (p *FrameProxy) Name() string {
	return p.agg.name
}

// OnTick submits the aggregated buffer once per frame
func (p *FrameProxy) OnTick(frame uint64) {
	p.agg.flush(p, frame)
}

// OnDetach resets the aggregator when the host drops this proxy
func (p *FrameProxy) OnDetach() {
	p.agg.detach(p)
}

// IsHidden keeps the proxy out of scene listings and saves
func (p *FrameProxy) IsHidden() bool {
	return true
}

// Designated reports whether this proxy is the one allowed to submit
func (p *FrameProxy) Designated() bool {
	return p.agg.initialized && p.agg.proxy == p
}
