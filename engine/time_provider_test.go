package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonicTimeProvider(t *testing.T) {
	provider := NewMonotonicTimeProvider()

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := provider.Now()

	assert.True(t, t2.After(t1))
	assert.GreaterOrEqual(t, t2.Sub(t1), 10*time.Millisecond)
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)

	assert.True(t, mock.Now().Equal(start))
	assert.True(t, mock.Now().Equal(start), "no drift without auto-advance")

	next := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	mock.SetTime(next)
	assert.True(t, mock.Now().Equal(next))

	mock.Advance(time.Hour)
	assert.True(t, mock.Now().Equal(next.Add(time.Hour)))
}

func TestMockTimeProvider_AutoAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	mock.AutoAdvance(16 * time.Millisecond)

	assert.True(t, mock.Now().Equal(start))
	assert.True(t, mock.Now().Equal(start.Add(16*time.Millisecond)))

	mock.AutoAdvance(0)
	a, b := mock.Now(), mock.Now()
	assert.True(t, a.Equal(b))
}
