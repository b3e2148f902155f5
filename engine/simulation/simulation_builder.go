package simulation

import (
	"fmt"
	"runtime"

	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
)

// MaxWorkgroupSize bounds the compute workgroup edge so size*size stays within the
// 256 invocations every WebGPU adapter supports.
const MaxWorkgroupSize = 16

// simulationConfig collects construction options before the backend is chosen.
type simulationConfig struct {
	workgroupSize uint32
	workers       int
	maxCatchUp    int
}

func defaultSimulationConfig() simulationConfig {
	return simulationConfig{
		workgroupSize: 8,
		workers:       max(runtime.NumCPU()-1, 1),
		maxCatchUp:    4,
	}
}

func (c simulationConfig) validate() error {
	if c.workgroupSize < 1 || c.workgroupSize > MaxWorkgroupSize {
		return fmt.Errorf("%w: workgroup size %d outside [1, %d]", life.ErrInvalidArgument, c.workgroupSize, MaxWorkgroupSize)
	}
	return nil
}

// SimulationBuilderOption is a functional option applied by NewSimulation.
type SimulationBuilderOption func(*simulationConfig)

// WithWorkgroupSize sets the edge length of the square compute workgroup. Only used by BackendGPU.
//
// Parameters:
//   - size: the workgroup edge, 1 to MaxWorkgroupSize (default 8)
//
// Returns:
//   - SimulationBuilderOption: option function to apply
func WithWorkgroupSize(size uint32) SimulationBuilderOption {
	return func(c *simulationConfig) {
		c.workgroupSize = size
	}
}

// WithWorkers sets the number of row bands the CPU stepper splits a generation into. Only used by BackendCPU.
//
// Parameters:
//   - n: the worker count, values below 1 mean 1
//
// Returns:
//   - SimulationBuilderOption: option function to apply
func WithWorkers(n int) SimulationBuilderOption {
	return func(c *simulationConfig) {
		c.workers = max(n, 1)
	}
}

// WithMaxCatchUp caps how many scheduled generations a single frame computes when the render loop
// falls behind the update loop. Generations beyond the cap are dropped.
//
// Parameters:
//   - n: the per-frame cap, values below 1 mean 1 (default 4)
//
// Returns:
//   - SimulationBuilderOption: option function to apply
func WithMaxCatchUp(n int) SimulationBuilderOption {
	return func(c *simulationConfig) {
		c.maxCatchUp = max(n, 1)
	}
}
