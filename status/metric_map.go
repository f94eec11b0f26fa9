package status

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// MetricMap maps metric names to values of type T
// Components resolve a pointer once and update it without touching the map again
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{
		items: make(map[string]*T),
	}
}

// Get returns the value registered under key, allocating a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	ptr, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[key] = ptr
	return ptr
}

// Keys returns registered names starting with any of prefixes, sorted
// No prefixes selects every name
func (m *MetricMap[T]) Keys(prefixes ...string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(m.items))
	if len(prefixes) == 0 {
		return keys
	}
	return slices.DeleteFunc(keys, func(k string) bool {
		return !slices.ContainsFunc(prefixes, func(p string) bool {
			return strings.HasPrefix(k, p)
		})
	})
}

// Range visits the values whose names match prefixes, in key order
func (m *MetricMap[T]) Range(fn func(key string, ptr *T), prefixes ...string) {
	for _, k := range m.Keys(prefixes...) {
		fn(k, m.Get(k))
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
