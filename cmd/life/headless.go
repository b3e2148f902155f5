package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/terminal"
	"github.com/spf13/cobra"
)

func newHeadlessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Step on the CPU and draw each generation in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			generations, _ := cmd.Flags().GetInt("generations")
			fast, _ := cmd.Flags().GetBool("fast")
			interval := cfg.Interval()
			if fast {
				interval = 0
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			term := terminal.NewTerminal(cmd.OutOrStdout())
			defer term.Close()
			return headless(ctx, g, stepper, term, generations, interval)
		},
	}
	cmd.Flags().Int("generations", 200, "number of generations to run, 0 runs until interrupted")
	cmd.Flags().Bool("fast", false, "do not wait the update interval between generations")
	return cmd
}

// headless draws the current generation, then steps and redraws until generations have run or
// ctx is cancelled.
func headless(ctx context.Context, g life.Grid, s life.Stepper, term terminal.Terminal, generations int, interval time.Duration) error {
	if err := term.Draw(g.Current(), g.Width(), g.Height(), g.Generation()); err != nil {
		return err
	}

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for i := 0; generations == 0 || i < generations; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		g.Advance(s)
		if err := term.Draw(g.Current(), g.Width(), g.Height(), g.Generation()); err != nil {
			return err
		}
	}
	return nil
}
