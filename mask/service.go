package mask

// Executor runs fn on the frame driver goroutine and waits for it
type Executor interface {
	Do(fn func())
}

// ServiceName is the hub name of the aggregator service
const ServiceName = "mask"

// Service exposes the aggregator lifecycle to a service hub
// Init bootstraps the aggregator eagerly; Stop tears it down on the driver goroutine
type Service struct {
	agg  *Aggregator
	exec Executor
	deps []string
}

// NewService wraps agg; exec marshals teardown onto the frame goroutine
// deps names the services that must initialize first, typically the frame driver
func NewService(agg *Aggregator, exec Executor, deps ...string) *Service {
	return &Service{agg: agg, exec: exec, deps: deps}
}

// Aggregator returns the wrapped aggregator
func (s *Service) Aggregator() *Aggregator {
	return s.agg
}

func (s *Service) Name() string {
	return ServiceName
}

func (s *Service) Dependencies() []string {
	return s.deps
}

// Init performs the lazy bootstrap ahead of first use
func (s *Service) Init(args ...any) error {
	s.run(s.agg.ensureInitialized)
	return nil
}

func (s *Service) Start() error {
	return nil
}

// Stop cancels the frame subscription and drops registered sources
func (s *Service) Stop() error {
	s.run(s.agg.Close)
	return nil
}

func (s *Service) run(fn func()) {
	if s.exec == nil {
		fn()
		return
	}
	s.exec.Do(fn)
}
