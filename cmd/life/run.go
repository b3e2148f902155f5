package main

import (
	"github.com/Shotz5/Game-Of-Life-WebGPU/common"
	"github.com/Shotz5/Game-Of-Life-WebGPU/config"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/simulation"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/window"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and run the simulation",
		Long: `Open a window and run the simulation.

Controls: Space pauses, N steps while paused, R reseeds, C clears,
left click toggles a cell and Escape quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	f := cmd.Flags()
	f.String("backend", config.BackendGPU, "where generations are computed: gpu or cpu")
	f.Int("workgroup-size", 8, "compute workgroup edge length")
	f.Int("msaa", 1, "MSAA sample count: 1, 4, 8 or 16")
	f.Bool("vsync", true, "wait for vertical blank when presenting")
	f.Bool("profiling", false, "log frame rate, generation rate and memory")
	return cmd
}

func run(cfg config.Config) error {
	g, err := newGrid(cfg)
	if err != nil {
		return err
	}
	sim, err := simulation.NewSimulation(simulation.Backend(cfg.Backend), g,
		simulation.WithWorkgroupSize(uint32(cfg.WorkgroupSize)),
		simulation.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return err
	}

	msaa, err := renderer.ParseMSAASampleCount(cfg.MSAA)
	if err != nil {
		return err
	}
	presentMode := renderer.PresentModeUncapped
	if cfg.VSync {
		presentMode = renderer.PresentModeVSync
	}

	w := window.NewWindow(
		window.WithTitle(common.Coalesce(cfg.Title, "Game of Life")),
		window.WithSize(cfg.WindowWidth, cfg.WindowHeight),
		window.WithSizeLimits(cfg.MinWindowWidth, cfg.MinWindowHeight, cfg.MaxWindowWidth, cfg.MaxWindowHeight),
	)
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, w,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
	)

	eng, err := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithRenderer(r),
		engine.WithSimulation(sim),
		engine.WithUpdateInterval(cfg.Interval()),
		engine.WithProfiling(cfg.Profiling),
	)
	if err != nil {
		return err
	}
	return eng.Run()
}
