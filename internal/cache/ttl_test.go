package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 12, 7, 0, 0, 0, time.UTC)}
}

func TestTTL_ExpiresAfterDuration(t *testing.T) {
	clock := newClock()
	c := NewTTL[string, string](5*time.Minute, clock.Now)

	c.Set("team-1", "SEK")
	v, ok := c.Get("team-1")
	require.True(t, ok)
	assert.Equal(t, "SEK", v)

	clock.Advance(5*time.Minute - time.Second)
	_, ok = c.Get("team-1")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("team-1")
	assert.False(t, ok, "entry expires exactly at the TTL")
	assert.Zero(t, c.Len(), "expired entry is dropped on access")
}

func TestTTL_SetRefreshesExpiry(t *testing.T) {
	clock := newClock()
	c := NewTTL[string, int](time.Minute, clock.Now)

	c.Set("k", 1)
	clock.Advance(50 * time.Second)
	c.Set("k", 2)
	clock.Advance(50 * time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTL_InstancesAreIsolated(t *testing.T) {
	a := NewTTL[string, string](time.Minute, nil)
	b := NewTTL[string, string](time.Minute, nil)

	a.Set("team-1", "SEK")
	_, ok := b.Get("team-1")
	assert.False(t, ok)
}

func TestTTL_GetOrLoad(t *testing.T) {
	clock := newClock()
	c := NewTTL[string, string](time.Minute, clock.Now)

	loads := 0
	load := func() (string, error) {
		loads++
		return "USD", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("team-2", load)
		require.NoError(t, err)
		assert.Equal(t, "USD", v)
	}
	assert.Equal(t, 1, loads)

	clock.Advance(time.Minute)
	_, err := c.GetOrLoad("team-2", load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)

	boom := errors.New("db down")
	_, err = c.GetOrLoad("team-3", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get("team-3")
	assert.False(t, ok, "failed loads are not cached")
}

func TestTTL_PruneAndDelete(t *testing.T) {
	clock := newClock()
	c := NewTTL[int, string](time.Minute, clock.Now)

	c.Set(1, "a")
	clock.Advance(30 * time.Second)
	c.Set(2, "b")
	c.Set(3, "c")
	c.Delete(3)
	clock.Advance(40 * time.Second)

	assert.Equal(t, 1, c.Prune())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(2)
	assert.True(t, ok)
}

func TestTTL_ConcurrentAccess(t *testing.T) {
	c := NewTTL[int, int](time.Minute, nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(j%10, i)
				c.Get(j % 10)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 10, c.Len())
}
