package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/maskcmd/core"
	"github.com/lixenwraith/maskcmd/mask"
	"github.com/lixenwraith/maskcmd/status"
)

// LoopServiceName is the hub name of the frame loop
const LoopServiceName = "frame-loop"

type subscription struct {
	id      uint64
	handler mask.TickHandler
	scope   mask.Scope
}

// FrameLoop is the host frame driver
// Each tick drains posted jobs, then calls every subscribed handler once, in
// subscription order, on the loop goroutine. Step drives a tick manually
type FrameLoop struct {
	interval time.Duration
	clock    TimeProvider
	log      *zap.Logger

	mu       sync.Mutex
	handlers []subscription
	nextID   uint64
	jobs     []func()
	active   bool // loop goroutine accepts jobs, guarded by mu

	frame    atomic.Uint64
	lastTick time.Time

	stopChan chan struct{} // replaced on every Start
	wg       sync.WaitGroup
	running  atomic.Bool

	// Cached metric pointers
	statFrames     *atomic.Int64
	statJobs       *atomic.Int64
	statHandlers   *atomic.Int64
	statFrameMs    *status.AtomicFloat
	statFrameMsMax *status.AtomicFloat
}

// NewFrameLoop creates a loop ticking every interval
// A nil clock uses the monotonic clock; reg may be nil
func NewFrameLoop(interval time.Duration, clock TimeProvider, reg *status.Registry, log *zap.Logger) *FrameLoop {
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FrameLoop{
		interval:       interval,
		clock:          clock,
		log:            log.Named("loop"),
		handlers:       make([]subscription, 0, 4),
		statFrames:     reg.Ints.Get("engine.frames"),
		statJobs:       reg.Ints.Get("engine.jobs"),
		statHandlers:   reg.Ints.Get("engine.handlers"),
		statFrameMs:    reg.Floats.Get("engine.frame_ms"),
		statFrameMsMax: reg.Floats.Get("engine.frame_ms_max"),
	}
}

// Subscribe adds h to the tick list; the returned func removes it
func (l *FrameLoop) Subscribe(h mask.TickHandler, scope mask.Scope) (cancel func()) {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.handlers = append(l.handlers, subscription{id: id, handler: h, scope: scope})
	l.statHandlers.Store(int64(len(l.handlers)))
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.unsubscribe(id) })
	}
}

func (l *FrameLoop) unsubscribe(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.handlers {
		if s.id == id {
			l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
			break
		}
	}
	l.statHandlers.Store(int64(len(l.handlers)))
}

// TransitionScene drops scene scoped handlers, session handlers survive
// Dropped handlers implementing mask.Detachable are notified
// Must run on the loop goroutine, post it when the loop is running
func (l *FrameLoop) TransitionScene() int {
	l.mu.Lock()
	var dropped []subscription
	kept := l.handlers[:0]
	for _, s := range l.handlers {
		if s.scope == mask.ScopeScene {
			dropped = append(dropped, s)
			continue
		}
		kept = append(kept, s)
	}
	clear(l.handlers[len(kept):])
	l.handlers = kept
	l.statHandlers.Store(int64(len(l.handlers)))
	l.mu.Unlock()

	// Notify outside the lock, handlers may resubscribe
	for _, s := range dropped {
		if d, ok := s.handler.(mask.Detachable); ok {
			d.OnDetach()
		}
	}
	l.log.Debug("scene transition", zap.Int("dropped", len(dropped)), zap.Int("kept", len(kept)))
	return len(dropped)
}

// Post queues fn to run on the loop goroutine at the start of the next tick
func (l *FrameLoop) Post(fn func()) {
	l.mu.Lock()
	l.jobs = append(l.jobs, fn)
	l.mu.Unlock()
}

// Do runs fn on the loop goroutine and waits for it to finish
// When the loop is not running fn runs inline on the caller
// Must not be called from the loop goroutine
func (l *FrameLoop) Do(fn func()) {
	l.mu.Lock()
	if !l.active {
		l.mu.Unlock()
		fn()
		return
	}
	done := make(chan struct{})
	l.jobs = append(l.jobs, func() {
		defer close(done)
		fn()
	})
	l.mu.Unlock()
	<-done
}

// Step runs a single tick and returns its frame number
func (l *FrameLoop) Step() uint64 {
	l.runJobs()

	frame := l.frame.Add(1)
	now := l.clock.Now()
	if !l.lastTick.IsZero() {
		ms := float64(now.Sub(l.lastTick).Microseconds()) / 1000
		l.statFrameMs.Set(ms)
		l.statFrameMsMax.Max(ms)
	}
	l.lastTick = now

	l.mu.Lock()
	handlers := make([]mask.TickHandler, len(l.handlers))
	for i, s := range l.handlers {
		handlers[i] = s.handler
	}
	l.mu.Unlock()

	for _, h := range handlers {
		h.OnTick(frame)
	}

	l.statFrames.Add(1)
	return frame
}

func (l *FrameLoop) runJobs() {
	l.mu.Lock()
	jobs := l.jobs
	l.jobs = nil
	l.mu.Unlock()

	for _, job := range jobs {
		job()
	}
	l.statJobs.Add(int64(len(jobs)))
}

// Frame returns the number of the last completed tick
func (l *FrameLoop) Frame() uint64 {
	return l.frame.Load()
}

// Len returns the number of subscribed handlers
func (l *FrameLoop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handlers)
}

// Describe lists visible handlers for scene listings, hidden handlers are omitted
func (l *FrameLoop) Describe() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, len(l.handlers))
	for _, s := range l.handlers {
		if h, ok := s.handler.(mask.Hidden); ok && h.IsHidden() {
			continue
		}
		name := fmt.Sprintf("%T", s.handler)
		if n, ok := s.handler.(interface{ Name() string }); ok {
			name = n.Name()
		}
		out = append(out, name+"@"+s.scope.String())
	}
	return out
}

// ===== SERVICE =====

func (l *FrameLoop) Name() string {
	return LoopServiceName
}

func (l *FrameLoop) Dependencies() []string {
	return nil
}

func (l *FrameLoop) Init(args ...any) error {
	if l.interval <= 0 {
		return fmt.Errorf("frame interval must be positive, got %v", l.interval)
	}
	return nil
}

// Start launches the ticker goroutine
func (l *FrameLoop) Start() error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	stop := make(chan struct{})
	l.mu.Lock()
	l.active = true
	l.stopChan = stop
	l.mu.Unlock()

	l.wg.Add(1)
	core.Go(func() { l.loop(stop) })
	l.log.Debug("started", zap.Duration("interval", l.interval))
	return nil
}

// Stop halts the ticker goroutine, pending jobs run before it exits
// Stopping a loop that is not running is a no-op; a stopped loop can be started again
func (l *FrameLoop) Stop() error {
	if !l.running.CompareAndSwap(true, false) {
		return nil
	}
	l.mu.Lock()
	stop := l.stopChan
	l.mu.Unlock()

	close(stop)
	l.wg.Wait()
	l.log.Debug("stopped", zap.Uint64("frames", l.frame.Load()))
	return nil
}

func (l *FrameLoop) loop(stop <-chan struct{}) {
	defer l.wg.Done()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			l.drain()
			return
		case <-ticker.C:
			l.Step()
		}
	}
}

// drain closes the job queue and runs what is left
func (l *FrameLoop) drain() {
	l.mu.Lock()
	l.active = false
	jobs := l.jobs
	l.jobs = nil
	l.mu.Unlock()

	for _, job := range jobs {
		job()
	}
	l.statJobs.Add(int64(len(jobs)))
}
