package registry

import (
	"slices"
	"sync"
)

// Forward declarations to avoid import cycles
// Actual types resolved at registration time via any

// SourceFactory creates a mask command source from a source spec
// Returns mask.CommandSource
type SourceFactory func(spec any) (any, error)

var (
	sourcesMu sync.RWMutex
	sources   = make(map[string]SourceFactory)
)

// RegisterSource adds a source factory by kind, replacing any previous one
func RegisterSource(kind string, factory SourceFactory) {
	sourcesMu.Lock()
	defer sourcesMu.Unlock()
	sources[kind] = factory
}

// GetSource retrieves a source factory by kind
func GetSource(kind string) (SourceFactory, bool) {
	sourcesMu.RLock()
	defer sourcesMu.RUnlock()
	f, ok := sources[kind]
	return f, ok
}

// SourceKinds returns all registered kinds, sorted
func SourceKinds() []string {
	sourcesMu.RLock()
	defer sourcesMu.RUnlock()
	kinds := make([]string, 0, len(sources))
	for kind := range sources {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}
