package mask

// CommandSource is implemented by objects that own masks
// AddToCommandBuffer appends the source's current commands; it may be called
// repeatedly and must not retain buf
type CommandSource interface {
	AddToCommandBuffer(buf *CommandBuffer) error
}

// Device executes a command buffer on the graphics backend
type Device interface {
	ExecuteCommandBuffer(buf *CommandBuffer) error
}

// TickHandler receives one call per rendered frame
type TickHandler interface {
	OnTick(frame uint64)
}

// Hidden is optionally implemented by tick handlers that must be excluded from
// scene listings and scene saves
type Hidden interface {
	IsHidden() bool
}

// Scope controls how long a tick subscription survives
type Scope uint8

const (
	// ScopeSession survives scene transitions until host teardown
	ScopeSession Scope = iota
	// ScopeScene is dropped at the next scene transition
	ScopeScene
)

func (s Scope) String() string {
	if s == ScopeScene {
		return "scene"
	}
	return "session"
}

// FrameDriver is the host per-frame notification
// Subscribe returns a cancel func that removes the handler
type FrameDriver interface {
	Subscribe(h TickHandler, scope Scope) (cancel func())
}

// HostMode describes the host runtime context the aggregator lives in
type HostMode uint8

const (
	// HostRuntime is an interactive session; the frame proxy is session scoped
	HostRuntime HostMode = iota
	// HostDesignTime is a non-interactive editing context; the frame proxy is scene scoped
	HostDesignTime
)

// proxyScope resolves the subscription scope for the frame proxy
func (m HostMode) proxyScope() Scope {
	if m == HostDesignTime {
		return ScopeScene
	}
	return ScopeSession
}

// Detachable is optionally implemented by tick handlers that need to know when
// the driver drops them, e.g. a scene scoped handler at scene transition
type Detachable interface {
	OnDetach()
}
