package profiler

import (
	"log"
	"runtime"
	"sync/atomic"
	"time"
)

// Profiler tracks frame rate, generation rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
//
// Tick is called from the render loop. AddGenerations may be called from any goroutine, so the
// generation counter is the only field shared between goroutines.
type Profiler struct {
	frameCount     int
	generations    atomic.Uint64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now func() time.Time
}

// Stats is one reporting window of the profiler.
type Stats struct {
	FPS            float64
	GenerationsPS  float64
	HeapMB         float64
	AllocRateMB    float64
	GCCount        uint32
	LastPauseMicro uint64
	MaxPauseMicro  uint64
	SysMB          float64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// AddGenerations records n completed generations. Safe to call from any goroutine.
func (p *Profiler) AddGenerations(n uint64) {
	p.generations.Add(n)
}

// Generations returns the generations recorded since the last report.
func (p *Profiler) Generations() uint64 {
	return p.generations.Load()
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	stats, ok := p.sample()
	if !ok {
		return false
	}

	log.Printf("[Profiler] FPS: %.2f | Gen/s: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		stats.FPS, stats.GenerationsPS, stats.HeapMB, stats.AllocRateMB, stats.GCCount, stats.LastPauseMicro, stats.MaxPauseMicro, stats.SysMB)
	return true
}

// sample closes the current reporting window if the update interval has elapsed.
func (p *Profiler) sample() (Stats, bool) {
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return Stats{}, false
	}
	seconds := elapsed.Seconds()

	stats := Stats{
		FPS:           float64(p.frameCount) / seconds,
		GenerationsPS: float64(p.generations.Swap(0)) / seconds,
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc only grows and tracks churn, Sys is the process footprint.
	stats.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	stats.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	stats.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds

	gcCount := p.memStats.NumGC
	stats.GCCount = gcCount
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		stats.LastPauseMicro = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			stats.MaxPauseMicro = max(stats.MaxPauseMicro, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return stats, true
}
