package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Shotz5/Game-Of-Life-WebGPU/config"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/terminal"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "bench", "--width", "16", "--height", "16", "--pattern", "glider", "--generations", "64", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "grid 16x16, 2 workers")
	assert.Contains(t, out, "64 generations in")
	assert.Contains(t, out, "final population 5")
}

func TestBenchRejectsZeroGenerations(t *testing.T) {
	_, err := execute(t, "bench", "--generations", "0", "--width", "8", "--height", "8")
	assert.ErrorIs(t, err, life.ErrInvalidArgument)
}

func TestConfigFileAndFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "life.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = 12\nheight = 9\npattern = \"block\"\nworkers = 1\n"), 0o644))

	out, err := execute(t, "bench", "--config", path, "--height", "10", "--generations", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "grid 12x10, 1 workers")
	assert.Contains(t, out, "final population 4")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	_, err := execute(t, "bench", "--density", "2")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, "bench", "--pattern", "spaceship", "--width", "8", "--height", "8")
	assert.ErrorIs(t, err, life.ErrInvalidArgument)
}

func TestHeadless(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height, cfg.Pattern = 5, 5, "blinker"
	g, err := newGrid(cfg)
	require.NoError(t, err)
	s, err := life.NewStepper(5, 5)
	require.NoError(t, err)
	defer s.Close()

	var out bytes.Buffer
	term := terminal.NewTerminal(&out, terminal.WithProfile(termenv.Ascii), terminal.WithGlyphs("#", "."))
	require.NoError(t, headless(context.Background(), g, s, term, 2, 0))

	assert.Equal(t, uint64(2), g.Generation())
	assert.Contains(t, out.String(), ".###.\n")
	assert.Contains(t, out.String(), "..#..\n")
	assert.Contains(t, out.String(), "generation 2 | population 3")
}

func TestHeadlessStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height, cfg.Pattern = 8, 8, "glider"
	g, err := newGrid(cfg)
	require.NoError(t, err)
	s, err := life.NewStepper(8, 8)
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	term := terminal.NewTerminal(&bytes.Buffer{}, terminal.WithProfile(termenv.Ascii))
	require.NoError(t, headless(ctx, g, s, term, 0, time.Hour))
	assert.Zero(t, g.Generation())
}
