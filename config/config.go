// Package config holds the tunables of a Game of Life run and loads them from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Simulation backends.
const (
	BackendGPU = "gpu"
	BackendCPU = "cpu"
)

// Duration is a time.Duration that reads and writes as a Go duration string ("50ms").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	*d = Duration(v)
	return nil
}

// Config describes one run: the grid, the simulation and the window it is shown in.
type Config struct {
	// Width and Height are the grid dimensions in cells.
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// UpdateInterval is the time between generations.
	UpdateInterval Duration `toml:"update_interval"`
	// WorkgroupSize is the edge length of the square compute workgroup.
	WorkgroupSize int `toml:"workgroup_size"`
	// Density is the probability that a randomly seeded cell starts alive.
	Density float32 `toml:"density"`
	// Seed seeds the random initial state. Zero picks a time based seed.
	Seed uint64 `toml:"seed"`
	// Workers bounds the number of row bands the CPU stepper splits a generation into.
	Workers int `toml:"workers"`
	// Backend selects who computes generations: "gpu" or "cpu".
	Backend string `toml:"backend"`
	// Pattern names a built-in seed pattern used instead of random cells.
	Pattern string `toml:"pattern"`

	Title        string `toml:"title"`
	WindowWidth  int    `toml:"window_width"`
	WindowHeight int    `toml:"window_height"`

	// The window can be resized between the minimum and maximum sizes, in pixels.
	MinWindowWidth  int  `toml:"min_window_width"`
	MinWindowHeight int  `toml:"min_window_height"`
	MaxWindowWidth  int  `toml:"max_window_width"`
	MaxWindowHeight int  `toml:"max_window_height"`
	VSync           bool `toml:"vsync"`
	// MSAA is the sample count: 1, 4, 8 or 16.
	MSAA      int  `toml:"msaa"`
	Profiling bool `toml:"profiling"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Width:           1080,
		Height:          1080,
		UpdateInterval:  Duration(50 * time.Millisecond),
		WorkgroupSize:   8,
		Density:         0.4,
		Workers:         max(runtime.NumCPU()-1, 1),
		Backend:         BackendGPU,
		Title:           "Game of Life",
		WindowWidth:     1080,
		WindowHeight:    1080,
		MinWindowWidth:  256,
		MinWindowHeight: 256,
		MaxWindowWidth:  4096,
		MaxWindowHeight: 4096,
		VSync:           true,
		MSAA:            1,
	}
}

// Load reads a TOML file on top of Default and validates the result.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the loaded configuration
//   - error: an error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("[Config] loaded %s", path)
	return cfg, nil
}

// Decode reads TOML from r on top of Default. Unknown keys are rejected.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the decoded configuration
//   - error: an error if decoding or validation fails
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every field is in range.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.UpdateInterval <= 0 {
		errs = append(errs, fmt.Errorf("update_interval must be positive, got %s", time.Duration(c.UpdateInterval)))
	}
	// 16x16 is the 256 invocation limit of a default WebGPU device.
	if c.WorkgroupSize < 1 || c.WorkgroupSize > 16 {
		errs = append(errs, fmt.Errorf("workgroup_size must be in [1, 16], got %d", c.WorkgroupSize))
	}
	if c.Density < 0 || c.Density > 1 {
		errs = append(errs, fmt.Errorf("density must be in [0, 1], got %g", c.Density))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Backend != BackendGPU && c.Backend != BackendCPU {
		errs = append(errs, fmt.Errorf("backend must be %q or %q, got %q", BackendGPU, BackendCPU, c.Backend))
	}
	switch c.MSAA {
	case 1, 4, 8, 16:
	default:
		errs = append(errs, fmt.Errorf("msaa must be 1, 4, 8 or 16, got %d", c.MSAA))
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		errs = append(errs, fmt.Errorf("window must be positive, got %dx%d", c.WindowWidth, c.WindowHeight))
	}
	if c.MinWindowWidth <= 0 || c.MinWindowHeight <= 0 {
		errs = append(errs, fmt.Errorf("minimum window size must be positive, got %dx%d", c.MinWindowWidth, c.MinWindowHeight))
	}
	if c.MaxWindowWidth < c.MinWindowWidth || c.MaxWindowHeight < c.MinWindowHeight {
		errs = append(errs, fmt.Errorf("maximum window size %dx%d is below the minimum %dx%d",
			c.MaxWindowWidth, c.MaxWindowHeight, c.MinWindowWidth, c.MinWindowHeight))
	}
	if c.WindowWidth < c.MinWindowWidth || c.WindowWidth > c.MaxWindowWidth ||
		c.WindowHeight < c.MinWindowHeight || c.WindowHeight > c.MaxWindowHeight {
		errs = append(errs, fmt.Errorf("window %dx%d is outside %dx%d..%dx%d", c.WindowWidth, c.WindowHeight,
			c.MinWindowWidth, c.MinWindowHeight, c.MaxWindowWidth, c.MaxWindowHeight))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Interval returns UpdateInterval as a time.Duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.UpdateInterval)
}
