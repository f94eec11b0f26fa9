package mask

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/lixenwraith/maskcmd/status"
)

// Option configures an Aggregator at construction
type Option func(*Aggregator)

// WithLogger sets the logger, defaults to a no-op logger
func WithLogger(log *zap.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}

// WithStatus publishes aggregator metrics into reg
func WithStatus(reg *status.Registry) Option {
	return func(a *Aggregator) {
		if reg != nil {
			a.statusReg = reg
		}
	}
}

// WithTracer sets the tracer used for rebuild and submit spans
func WithTracer(t trace.Tracer) Option {
	return func(a *Aggregator) {
		if t != nil {
			a.tracer = t
		}
	}
}

// WithHostMode selects the frame proxy lifetime
func WithHostMode(m HostMode) Option {
	return func(a *Aggregator) {
		a.mode = m
	}
}

// WithName overrides the command buffer name
func WithName(name string) Option {
	return func(a *Aggregator) {
		if name != "" {
			a.name = name
		}
	}
}
