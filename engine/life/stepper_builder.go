package life

// StepperBuilderOption is a functional option used to configure a Stepper during construction.
type StepperBuilderOption func(*stepper)

// WithWorkers sets how many row bands a generation is split into. Values below 1 are
// treated as 1, which steps every generation on the calling goroutine.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - StepperBuilderOption: a function that applies the worker count to a stepper
func WithWorkers(n int) StepperBuilderOption {
	return func(s *stepper) {
		s.workers = max(n, 1)
	}
}

// WithMinBandRows sets the smallest number of rows a single worker is given.
// Small grids are stepped inline rather than paying the pool's scheduling cost. Defaults to 16.
//
// Parameters:
//   - rows: the minimum rows per band
//
// Returns:
//   - StepperBuilderOption: a function that applies the band size to a stepper
func WithMinBandRows(rows int) StepperBuilderOption {
	return func(s *stepper) {
		s.minBandRows = max(rows, 1)
	}
}
