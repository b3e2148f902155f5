// Command life runs Conway's Game of Life on the GPU, in the terminal or as a benchmark.
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/Shotz5/Game-Of-Life-WebGPU/config"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
	"github.com/spf13/cobra"
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "life",
		Short:        "Conway's Game of Life on WebGPU",
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.String("config", "", "TOML config file; flags override its values")
	f.Int("width", 0, "grid width in cells")
	f.Int("height", 0, "grid height in cells")
	f.Duration("interval", 0, "time between generations")
	f.Float32("density", 0, "probability a random cell starts alive")
	f.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	f.String("pattern", "", fmt.Sprintf("seed pattern instead of random cells (%v)", life.PatternNames()))
	f.Int("workers", 0, "CPU stepper worker bands")

	root.AddCommand(newRunCommand(), newHeadlessCommand(), newBenchCommand())
	return root
}

// resolveConfig loads the --config file, if any, on top of the defaults and applies every
// flag the user set.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	flags := cmd.Flags()

	if path, _ := flags.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}

	var err error
	set := func(name string, apply func()) {
		if err == nil && flags.Changed(name) {
			apply()
		}
	}
	set("width", func() { cfg.Width, err = flags.GetInt("width") })
	set("height", func() { cfg.Height, err = flags.GetInt("height") })
	set("interval", func() {
		var d time.Duration
		d, err = flags.GetDuration("interval")
		cfg.UpdateInterval = config.Duration(d)
	})
	set("density", func() { cfg.Density, err = flags.GetFloat32("density") })
	set("seed", func() { cfg.Seed, err = flags.GetUint64("seed") })
	set("pattern", func() { cfg.Pattern, err = flags.GetString("pattern") })
	set("workers", func() { cfg.Workers, err = flags.GetInt("workers") })
	set("backend", func() { cfg.Backend, err = flags.GetString("backend") })
	set("workgroup-size", func() { cfg.WorkgroupSize, err = flags.GetInt("workgroup-size") })
	set("msaa", func() { cfg.MSAA, err = flags.GetInt("msaa") })
	set("vsync", func() { cfg.VSync, err = flags.GetBool("vsync") })
	set("profiling", func() { cfg.Profiling, err = flags.GetBool("profiling") })
	if err != nil {
		return config.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newGrid builds the initial generation described by cfg.
func newGrid(cfg config.Config) (life.Grid, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	opts := []life.GridBuilderOption{life.WithSeed(seed), life.WithDensity(cfg.Density)}
	if cfg.Pattern != "" {
		p, err := life.LookupPattern(cfg.Pattern)
		if err != nil {
			return nil, err
		}
		opts = append(opts, life.WithPattern(p))
	}

	g, err := life.NewGrid(cfg.Width, cfg.Height, opts...)
	if err != nil {
		return nil, err
	}
	log.Printf("[Life] %dx%d grid, seed %d, population %d", g.Width(), g.Height(), seed, g.Population())
	return g, nil
}
