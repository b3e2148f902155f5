package profiler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestProfilerSampleWaitsForInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithUpdateInterval(2*time.Second))

	p.frameCount = 10
	clock.advance(time.Second)
	_, ok := p.sample()
	assert.False(t, ok)
	assert.Equal(t, 10, p.frameCount)
}

func TestProfilerSampleRates(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now))

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				p.AddGenerations(2)
			}
		}()
	}
	wg.Wait()

	p.frameCount = 120
	clock.advance(2 * time.Second)
	stats, ok := p.sample()
	require.True(t, ok)
	assert.InDelta(t, 60.0, stats.FPS, 1e-9)
	assert.InDelta(t, 20.0, stats.GenerationsPS, 1e-9)
	assert.Greater(t, stats.SysMB, 0.0)

	// counters reset for the next window
	assert.Equal(t, 0, p.frameCount)
	assert.Zero(t, p.Generations())
	assert.Equal(t, clock.t, p.lastTime)
}

func TestProfilerTick(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now))

	assert.False(t, p.Tick())
	clock.advance(time.Second)
	assert.True(t, p.Tick())
	assert.False(t, p.Tick())
}

func TestWithUpdateIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(0), WithUpdateInterval(-time.Second))
	assert.Equal(t, time.Second, p.updateInterval)
}
