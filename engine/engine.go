package engine

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Shotz5/Game-Of-Life-WebGPU/common"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/profiler"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/simulation"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/window"
)

const (
	// titleInterval is how often the window title is refreshed with the generation counter.
	titleInterval = 250 * time.Millisecond
	// populationInterval is how often the live population is logged while profiling.
	populationInterval = 5 * time.Second
)

// engine implements the Engine interface.
// Coordinates the update, render, and window threads.
type engine struct {
	updateIntervalChannel chan time.Duration // Channel for dynamic update interval changes

	running atomic.Bool
	paused  atomic.Bool
	wg      sync.WaitGroup

	quitChannel  chan struct{}
	quitOnce     sync.Once // Ensures quitChannel is only closed once
	shutdownOnce sync.Once

	window     window.Window
	renderer   renderer.Renderer
	simulation simulation.Simulation

	profiler         *profiler.Profiler
	profilingEnabled bool
	// lastGeneration is the simulation generation last reported to the profiler. Render goroutine only.
	lastGeneration uint64

	updateInterval time.Duration
	lastTitle      time.Time
	nextSeed       func() uint64

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine runs a Simulation: generations advance on a fixed-rate update loop while a separate
// render loop draws as fast as the surface allows.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer frames are drawn with.
	Renderer() renderer.Renderer

	// Simulation returns the simulation being run.
	Simulation() simulation.Simulation

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetUpdateInterval sets the time between generations.
	// If the engine is running, the change takes effect on the next tick.
	//
	// Parameters:
	//   - d: the interval, values <= 0 are ignored
	SetUpdateInterval(d time.Duration)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Paused reports whether the update loop is currently skipping generations.
	Paused() bool

	// SetPaused pauses or resumes the update loop.
	SetPaused(paused bool)

	// Step schedules a single generation. Intended for stepping while paused.
	Step()

	// Run initializes the simulation and blocks in the window message loop until the window
	// closes or Quit is called, then releases the simulation and renderer.
	//
	// Returns:
	//   - error: an error if the simulation could not be initialized
	Run() error

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Window and Simulation are required; when no renderer is given one is created for the window.
//
// Parameters:
//   - options: functional options for engine configuration (window, simulation, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if a required component is missing
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		updateIntervalChannel: make(chan time.Duration, 1),
		quitChannel:           make(chan struct{}),
		profiler:              profiler.NewProfiler(),
		updateInterval:        50 * time.Millisecond,
		nextSeed:              func() uint64 { return uint64(time.Now().UnixNano()) },
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		return nil, fmt.Errorf("%w: engine needs a window", life.ErrInvalidArgument)
	}
	if e.simulation == nil {
		return nil, fmt.Errorf("%w: engine needs a simulation", life.ErrInvalidArgument)
	}
	if e.renderer == nil {
		e.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window)
	}

	e.window.SetResizeCallback(func(width, height int) {
		e.renderer.Resize(width, height)
	})
	e.window.SetKeyDownCallback(e.handleKey)
	e.window.SetMouseDownCallback(e.handleMouseDown)
	e.window.SetUpdateCallback(e.handleWindowUpdate)

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Simulation() simulation.Simulation {
	return e.simulation
}

func (e *engine) Run() error {
	if err := e.simulation.Init(e.renderer); err != nil {
		return fmt.Errorf("failed to init simulation: %w", err)
	}
	log.Printf("[Engine] %s simulation %dx%d, one generation every %s",
		e.simulation.Backend(), e.simulation.Width(), e.simulation.Height(), e.updateInterval)

	e.handle()
	e.window.ProcessMessages()
	e.shutdown()
	return nil
}

// shutdown stops the goroutines, releases GPU resources and closes the window.
// Must run on the window thread.
func (e *engine) shutdown() {
	e.shutdownOnce.Do(func() {
		e.signalQuit()
		e.wg.Wait()

		e.simulation.Release()
		e.renderer.Release()
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] failed to close window: %v", err)
		}
	})
}

// Quit signals all engine goroutines to stop. The window closes on its next message loop iteration.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handle launches the update, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.running.Store(true)
	e.wg.Add(3)
	go e.handleUpdate()
	go e.handleRender()
	go e.handleQuit()
}

// handleUpdate runs the fixed-rate update loop in its own goroutine.
// Requests one generation per tick unless paused and listens for interval changes
// via updateIntervalChannel. Exits when the quit channel is closed.
func (e *engine) handleUpdate() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			if e.paused.Load() {
				continue
			}
			e.simulation.RequestStep()
		case d := <-e.updateIntervalChannel:
			ticker.Reset(d)
			e.updateInterval = d
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Each frame applies pending edits, encodes the scheduled generations in one compute
// submission and draws the current generation in one render pass.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastPopulation := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			frameStart := time.Now()

			if err := e.frame(); err != nil {
				log.Printf("[Engine] frame failed: %v", err)
			}
			e.countGenerations()

			if e.profilingEnabled {
				e.profiler.Tick()
				if time.Since(lastPopulation) >= populationInterval {
					lastPopulation = time.Now()
					e.logPopulation()
				}
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// countGenerations reports the generations completed since the last call to the profiler.
// Scheduled generations the simulation dropped never reach its counter, and a reset
// rewinds it without counting.
func (e *engine) countGenerations() {
	gen := e.simulation.Generation()
	if gen > e.lastGeneration {
		e.profiler.AddGenerations(gen - e.lastGeneration)
	}
	e.lastGeneration = gen
}

// frame runs one compute and render cycle.
func (e *engine) frame() error {
	if err := e.simulation.Sync(); err != nil {
		return err
	}

	// Phase 1: Compute, all scheduled generations go into a single GPU submission
	if err := e.renderer.BeginComputeFrame(); err != nil {
		return err
	}
	computeErr := e.simulation.PrepareCompute()
	if err := e.renderer.EndComputeFrame(); err != nil {
		return err
	}
	if computeErr != nil {
		return computeErr
	}

	// Phase 2: Render
	if err := e.renderer.BeginFrame(); err != nil {
		// surface lost or outdated, it is reconfigured on the next resize
		return nil
	}
	drawErr := e.simulation.DrawCalls()
	e.renderer.EndFrame()
	e.renderer.Present()
	return drawErr
}

func (e *engine) logPopulation() {
	cells, err := e.simulation.Snapshot()
	if err != nil {
		log.Printf("[Engine] population unavailable: %v", err)
		return
	}
	log.Printf("[Engine] generation %d | population %d", e.simulation.Generation(), life.Population(cells))
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// handleKey maps key presses to simulation controls. Called on the window thread.
func (e *engine) handleKey(keyCode uint32) {
	switch keyCode {
	case common.KeySpace:
		e.SetPaused(!e.Paused())
	case common.KeyN:
		if e.Paused() {
			e.Step()
		}
	case common.KeyR:
		e.simulation.Reseed(e.nextSeed())
	case common.KeyC:
		e.simulation.Clear()
	}
}

// handleMouseDown toggles the cell under the cursor on a left click.
func (e *engine) handleMouseDown(button int, x, y float32) {
	if button != common.MouseButtonLeft {
		return
	}
	cx, cy, ok := life.PickCell(x, y, float32(e.window.Width()), float32(e.window.Height()),
		e.simulation.Width(), e.simulation.Height())
	if ok {
		e.simulation.Toggle(cx, cy)
	}
}

// handleWindowUpdate runs once per message loop iteration on the window thread. It closes the
// window after Quit and keeps the generation counter in the title bar, since GLFW only allows
// both from that thread.
func (e *engine) handleWindowUpdate() {
	select {
	case <-e.quitChannel:
		e.shutdown()
		return
	default:
	}
	if time.Since(e.lastTitle) < titleInterval {
		return
	}
	e.lastTitle = time.Now()
	e.window.SetTitle(e.title())
}

func (e *engine) title() string {
	t := fmt.Sprintf("%s | generation %d", e.window.Title(), e.simulation.Generation())
	if e.Paused() {
		t += " | paused"
	}
	return t
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetUpdateInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	if !e.running.Load() {
		e.updateInterval = d
		return
	}
	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.updateIntervalChannel <- d:
	default:
		select {
		case <-e.updateIntervalChannel:
		default:
		}
		e.updateIntervalChannel <- d
	}
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Paused() bool {
	return e.paused.Load()
}

func (e *engine) SetPaused(paused bool) {
	if e.paused.Swap(paused) != paused {
		log.Printf("[Engine] paused: %t", paused)
	}
}

func (e *engine) Step() {
	e.simulation.RequestStep()
}
