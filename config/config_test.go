package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1080, cfg.Width)
	assert.Equal(t, 50*time.Millisecond, cfg.Interval())
	assert.Equal(t, 8, cfg.WorkgroupSize)
	assert.InDelta(t, 0.4, cfg.Density, 1e-6)
	assert.Equal(t, BackendGPU, cfg.Backend)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	src := `
width = 64
height = 32
update_interval = "1s"
backend = "cpu"
pattern = "glider"
seed = 42
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
	assert.Equal(t, time.Second, cfg.Interval())
	assert.Equal(t, BackendCPU, cfg.Backend)
	assert.Equal(t, "glider", cfg.Pattern)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 8, cfg.WorkgroupSize, "unset keys keep their defaults")
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown key", src: `grid_size = 10`},
		{name: "zero width", src: `width = 0`},
		{name: "negative interval", src: `update_interval = "-5ms"`},
		{name: "workgroup too large", src: `workgroup_size = 32`},
		{name: "density", src: `density = 1.5`},
		{name: "backend", src: `backend = "tpu"`},
		{name: "msaa", src: `msaa = 2`},
		{name: "zero minimum window", src: `min_window_width = 0`},
		{name: "maximum below minimum", src: "min_window_height = 800\nmax_window_height = 600"},
		{name: "window above maximum", src: "window_width = 2000\nmax_window_width = 1920"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestDecodeWindowLimits(t *testing.T) {
	src := `
window_width = 800
window_height = 600
min_window_width = 320
min_window_height = 240
max_window_width = 1920
max_window_height = 1080
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, [4]int{320, 240, 1920, 1080},
		[4]int{cfg.MinWindowWidth, cfg.MinWindowHeight, cfg.MaxWindowWidth, cfg.MaxWindowHeight})
}

func TestDecodeRejectsBadDuration(t *testing.T) {
	_, err := Decode(strings.NewReader(`update_interval = "soon"`))
	assert.Error(t, err)
}

func TestValidateCollectsEveryFailure(t *testing.T) {
	cfg := Default()
	cfg.Width = -1
	cfg.Workers = 0
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "grid must be positive")
	assert.Contains(t, err.Error(), "workers must be at least 1")
}

func TestLoadAndEncode(t *testing.T) {
	cfg := Default()
	cfg.Width = 200
	cfg.UpdateInterval = Duration(125 * time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "125ms")

	path := filepath.Join(t.TempDir(), "life.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
