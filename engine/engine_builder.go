package engine

import (
	"time"

	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/profiler"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/simulation"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler, e.g. to change its reporting interval.
//
// Parameters:
//   - p: the profiler to report through
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		if p != nil {
			e.profiler = p
		}
	}
}

// WithUpdateInterval sets the time between generations.
// Values <= 0 will be treated as the default (50ms).
//
// Parameters:
//   - d: the update interval (default 50ms)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithUpdateInterval(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if d <= 0 {
			d = 50 * time.Millisecond
		}
		e.updateInterval = d
	}
}

// WithWindow sets the window the engine draws into and reads input from.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets a pre-configured renderer rather than letting the engine create a default one.
//
// Parameters:
//   - r: a Renderer created for the engine's window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithSimulation sets the simulation the engine runs. It is initialized by Run.
//
// Parameters:
//   - s: the Simulation to run
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSimulation(s simulation.Simulation) EngineBuilderOption {
	return func(e *engine) {
		e.simulation = s
	}
}

// WithSeedSource sets the function that supplies a seed each time the board is reseeded.
//
// Parameters:
//   - next: returns a fresh seed on every call
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSeedSource(next func() uint64) EngineBuilderOption {
	return func(e *engine) {
		if next != nil {
			e.nextSeed = next
		}
	}
}

// WithPaused starts the engine with the update loop paused.
//
// Parameters:
//   - paused: if true, no generations run until resumed
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPaused(paused bool) EngineBuilderOption {
	return func(e *engine) {
		e.paused.Store(paused)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
