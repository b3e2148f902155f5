package profiler

import "time"

// ProfilerBuilderOption is a functional option applied to a Profiler during NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often statistics are logged.
//
// Parameters:
//   - interval: the reporting interval, ignored when not positive
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithUpdateInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock replaces the time source.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}
