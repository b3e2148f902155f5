package main

import (
	"fmt"
	"io"
	"time"

	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
	"github.com/spf13/cobra"
)

func newBenchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Step generations on the CPU as fast as possible and report the rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			generations, _ := cmd.Flags().GetInt("generations")
			if generations <= 0 {
				return fmt.Errorf("%w: generations must be positive, got %d", life.ErrInvalidArgument, generations)
			}

			g, err := newGrid(cfg)
			if err != nil {
				return err
			}
			stepper, err := life.NewStepper(g.Width(), g.Height(), life.WithWorkers(cfg.Workers))
			if err != nil {
				return err
			}
			defer stepper.Close()

			bench(cmd.OutOrStdout(), g, stepper, generations, cfg.Workers)
			return nil
		},
	}
	cmd.Flags().Int("generations", 1000, "number of generations to step")
	return cmd
}

func bench(w io.Writer, g life.Grid, s life.Stepper, generations, workers int) {
	start := time.Now()
	for range generations {
		g.Advance(s)
	}
	elapsed := time.Since(start)

	cells := float64(g.Size()) * float64(generations)
	fmt.Fprintf(w, "grid %dx%d, %d workers\n", g.Width(), g.Height(), workers)
	fmt.Fprintf(w, "%d generations in %s (%.1f gen/s, %.1f Mcells/s)\n",
		generations, elapsed.Round(time.Microsecond),
		float64(generations)/elapsed.Seconds(), cells/elapsed.Seconds()/1e6)
	fmt.Fprintf(w, "final population %d\n", g.Population())
}
