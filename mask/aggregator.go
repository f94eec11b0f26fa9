package mask

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/lixenwraith/maskcmd/status"
)

// DefaultName is the name given to the aggregated command buffer
const DefaultName = "maskcmd_MaskCommandBuffer"

const tracerName = "github.com/lixenwraith/maskcmd/mask"

// Aggregator collects the commands of all registered sources into one buffer
// and submits it once per frame through its designated FrameProxy
//
// All methods must be called from the frame driver goroutine; there is no locking.
// The aggregator initializes itself on first use: construction only stores dependencies
type Aggregator struct {
	name   string
	driver FrameDriver
	device Device
	mode   HostMode

	log       *zap.Logger
	tracer    trace.Tracer
	statusReg *status.Registry

	// Lazily initialized state, reset on detach or Close
	initialized bool
	sources     []CommandSource
	buffer      *CommandBuffer
	scratch     *CommandBuffer // rebuild target, swapped in on success
	recorded    []CommandSource // sources whose commands are in buffer
	proxy       *FrameProxy
	cancel      func()
	stale       bool

	// Submission guard: at most one submission per frame number
	submitted       bool
	lastSubmitFrame uint64

	// Cached metric pointers
	statSources         *atomic.Int64
	statRebuilds        *atomic.Int64
	statRebuildFailures *atomic.Int64
	statSubmits         *atomic.Int64
	statSubmitErrors    *atomic.Int64
	statCommands        *atomic.Int64
	statRebuildMs       *status.AtomicFloat
	statLastError       *status.AtomicString
}

// New creates an aggregator bound to a frame driver and a device
// Panics if driver or device is nil
func New(driver FrameDriver, device Device, opts ...Option) *Aggregator {
	if driver == nil {
		panic("mask: nil frame driver")
	}
	if device == nil {
		panic("mask: nil device")
	}

	a := &Aggregator{
		name:   DefaultName,
		driver: driver,
		device: device,
		mode:   HostRuntime,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.tracer == nil {
		a.tracer = otel.Tracer(tracerName)
	}
	if a.statusReg == nil {
		a.statusReg = status.NewRegistry()
	}
	a.log = a.log.Named("mask")

	a.statSources = a.statusReg.Ints.Get("mask.sources")
	a.statRebuilds = a.statusReg.Ints.Get("mask.rebuilds")
	a.statRebuildFailures = a.statusReg.Ints.Get("mask.rebuild_failures")
	a.statSubmits = a.statusReg.Ints.Get("mask.submits")
	a.statSubmitErrors = a.statusReg.Ints.Get("mask.submit_errors")
	a.statCommands = a.statusReg.Ints.Get("mask.commands")
	a.statRebuildMs = a.statusReg.Floats.Get("mask.rebuild_ms")
	a.statLastError = a.statusReg.Strings.Get("mask.last_error")

	return a
}

// ensureInitialized creates the source list, the buffers and the frame proxy on first use
func (a *Aggregator) ensureInitialized() {
	if a.initialized {
		return
	}

	a.sources = make([]CommandSource, 0, 8)
	a.buffer = NewCommandBuffer(a.name)
	a.scratch = NewCommandBuffer(a.name)
	a.stale = false
	a.submitted = false

	a.proxy = NewFrameProxy(a)
	scope := a.mode.proxyScope()
	a.cancel = a.driver.Subscribe(a.proxy, scope)
	a.initialized = true

	a.statSources.Store(0)
	a.statCommands.Store(0)

	a.log.Debug("initialized",
		zap.String("buffer", a.name),
		zap.Stringer("scope", scope),
	)
}

// AddSource registers src and rebuilds the buffer
// Registering an already present source is a no-op
func (a *Aggregator) AddSource(src CommandSource) error {
	a.ensureInitialized()

	if src == nil {
		return ErrNilSource
	}
	if !isComparable(src) {
		return fmt.Errorf("%w: %T", ErrNotComparable, src)
	}
	if a.indexOf(src) >= 0 {
		return nil
	}

	a.sources = append(a.sources, src)
	a.statSources.Store(int64(len(a.sources)))
	a.log.Debug("source added", zap.String("source", describe(src)), zap.Int("count", len(a.sources)))

	return a.ForceRefresh()
}

// RemoveSource deregisters every entry identical to src and rebuilds the buffer
// Removing an unknown source leaves membership and buffer content unchanged
func (a *Aggregator) RemoveSource(src CommandSource) error {
	a.ensureInitialized()

	if src != nil && isComparable(src) {
		kept := a.sources[:0]
		for _, s := range a.sources {
			if s != src {
				kept = append(kept, s)
			}
		}
		// Drop references held by the tail
		clear(a.sources[len(kept):])
		if removed := len(a.sources) - len(kept); removed > 0 {
			a.log.Debug("source removed", zap.String("source", describe(src)), zap.Int("count", len(kept)))
		}
		a.sources = kept
		a.statSources.Store(int64(len(a.sources)))
	}

	return a.ForceRefresh()
}

// ForceRefresh rebuilds the buffer from every registered source in order
// The rebuild is recorded off to the side. If a source fails the aggregator is
// marked stale and the error is returned; the buffer keeps its last good contents
// unless one of the sources they came from has been removed, in which case the
// partial rebuild replaces it
func (a *Aggregator) ForceRefresh() error {
	a.ensureInitialized()

	start := time.Now()
	_, span := a.tracer.Start(context.Background(), "mask.rebuild",
		trace.WithAttributes(attribute.Int("mask.sources", len(a.sources))),
	)
	defer span.End()

	a.scratch.Clear()

	for i, src := range a.sources {
		if err := src.AddToCommandBuffer(a.scratch); err != nil {
			a.stale = true
			kept := a.recordedRegistered()
			if !kept {
				a.swap(a.sources[:i+1])
			}
			a.scratch.Clear()

			failure := fmt.Errorf("%w: index %d (%s): %w", ErrSourceFailed, i, describe(src), err)
			a.statRebuildFailures.Add(1)
			a.statLastError.Store(err.Error())
			span.RecordError(failure)
			span.SetStatus(codes.Error, "source failed")
			a.log.Warn("rebuild failed",
				zap.Int("index", i),
				zap.Bool("kept_last_good", kept),
				zap.String("source", describe(src)),
				zap.Error(err),
			)
			return failure
		}
	}

	a.swap(a.sources)
	a.scratch.Clear()
	a.stale = false

	a.statRebuilds.Add(1)
	a.statRebuildMs.Set(float64(time.Since(start).Microseconds()) / 1000)
	span.SetAttributes(attribute.Int("mask.commands", a.buffer.Len()))

	return nil
}

// swap makes the scratch recording live; from lists the sources it was recorded from
func (a *Aggregator) swap(from []CommandSource) {
	a.buffer.swap(a.scratch)
	a.recorded = append(a.recorded[:0], from...)
	a.statCommands.Store(int64(a.buffer.Len()))
}

// recordedRegistered reports whether every source behind the live buffer is still registered
func (a *Aggregator) recordedRegistered() bool {
	for _, src := range a.recorded {
		if a.indexOf(src) < 0 {
			return false
		}
	}
	return true
}

// flush submits the buffer if it is non-empty and p is the designated proxy
func (a *Aggregator) flush(p *FrameProxy, frame uint64) {
	if a.buffer.IsEmpty() {
		return
	}
	if p != a.proxy {
		return
	}
	if a.submitted && a.lastSubmitFrame == frame {
		return
	}
	a.submitted = true
	a.lastSubmitFrame = frame

	_, span := a.tracer.Start(context.Background(), "mask.submit",
		trace.WithAttributes(
			attribute.Int64("mask.frame", int64(frame)),
			attribute.Int("mask.bytes", a.buffer.SizeInBytes()),
		),
	)
	defer span.End()

	if err := a.device.ExecuteCommandBuffer(a.buffer); err != nil {
		a.statSubmitErrors.Add(1)
		a.statLastError.Store(err.Error())
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit failed")
		a.log.Error("submit failed", zap.Uint64("frame", frame), zap.Error(err))
		return
	}
	a.statSubmits.Add(1)
}

// detach resets the aggregator when the driver drops its designated proxy
// The next operation re-initializes with an empty source list and a new proxy
func (a *Aggregator) detach(p *FrameProxy) {
	if !a.initialized || p != a.proxy {
		return
	}
	a.log.Debug("frame proxy detached, resetting", zap.Int("sources", len(a.sources)))
	a.reset()
}

// Close cancels the frame subscription and drops all state
// Intended for host teardown only; a later call re-initializes
func (a *Aggregator) Close() {
	if !a.initialized {
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.reset()
}

func (a *Aggregator) reset() {
	clear(a.sources)
	a.sources = nil
	a.buffer = nil
	a.scratch = nil
	clear(a.recorded)
	a.recorded = nil
	a.proxy = nil
	a.cancel = nil
	a.stale = false
	a.submitted = false
	a.initialized = false
	a.statSources.Store(0)
	a.statCommands.Store(0)
}

// ===== INSPECTION =====

// Initialized reports whether the aggregator has bootstrapped
func (a *Aggregator) Initialized() bool {
	return a.initialized
}

// Contains reports whether src is registered
func (a *Aggregator) Contains(src CommandSource) bool {
	return a.indexOf(src) >= 0
}

// Len returns the number of registered sources
func (a *Aggregator) Len() int {
	return len(a.sources)
}

// Sources returns the registered sources in draw order
func (a *Aggregator) Sources() []CommandSource {
	out := make([]CommandSource, len(a.sources))
	copy(out, a.sources)
	return out
}

// Snapshot returns a copy of the current buffer contents
func (a *Aggregator) Snapshot() []Command {
	if a.buffer == nil {
		return nil
	}
	return a.buffer.Commands()
}

// Stale reports whether the last rebuild failed
func (a *Aggregator) Stale() bool {
	return a.stale
}

// Name returns the command buffer name
func (a *Aggregator) Name() string {
	return a.name
}

func (a *Aggregator) indexOf(src CommandSource) int {
	if src == nil || !isComparable(src) {
		return -1
	}
	for i, s := range a.sources {
		if s == src {
			return i
		}
	}
	return -1
}

// isComparable guards interface equality against runtime panics on
// uncomparable dynamic types (funcs, slices, maps)
func isComparable(src CommandSource) bool {
	return reflect.TypeOf(src).Comparable()
}

func describe(src CommandSource) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
