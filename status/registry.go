package status

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// Registry is the central metrics facade
// Components cache pointers at construction; hot paths write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Lines renders metrics as key=value, grouped by type and sorted by key
// Prefixes restrict the output to matching names; empty strings are omitted
func (r *Registry) Lines(prefixes ...string) []string {
	lines := make([]string, 0, r.TotalCount())
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		lines = append(lines, key+"="+strconv.FormatInt(ptr.Load(), 10))
	}, prefixes...)
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		lines = append(lines, fmt.Sprintf("%s=%.2f", key, ptr.Get()))
	}, prefixes...)
	r.Bools.Range(func(key string, ptr *atomic.Bool) {
		lines = append(lines, key+"="+strconv.FormatBool(ptr.Load()))
	}, prefixes...)
	r.Strings.Range(func(key string, ptr *AtomicString) {
		if v := ptr.Load(); v != "" {
			lines = append(lines, key+"="+v)
		}
	}, prefixes...)
	return lines
}
