package service

// Service defines the lifecycle of host-level subsystems: the frame loop, the
// mask aggregator, the config watcher
//
// Lifecycle:
//  1. Construction
//  2. Init(args...) - bootstrap state that other services may depend on
//  3. Start() - launch goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	// Init configures the service, args are passed through from Hub.InitAll
	Init(args ...any) error

	// Start begins service operation, called after all services have initialized
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent
	Stop() error
}
