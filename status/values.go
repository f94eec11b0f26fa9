package status

import (
	"math"
	"sync/atomic"
)

// MaxStringLen caps AtomicString contents at what fits a status line entry
const MaxStringLen = 64

// AtomicFloat is a float64 gauge held as raw bits; the zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Max keeps the larger of the stored value and val, returning what is stored
func (f *AtomicFloat) Max(val float64) float64 {
	for {
		old := f.bits.Load()
		if cur := math.Float64frombits(old); val <= cur {
			return cur
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(val)) {
			return val
		}
	}
}

// AtomicString holds the latest text value, e.g. the last error message
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store replaces the value; text past MaxStringLen bytes is cut at a rune boundary
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		cut := MaxStringLen
		for cut > 0 && val[cut]&0xC0 == 0x80 {
			cut--
		}
		val = val[:cut]
	}
	s.ptr.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
