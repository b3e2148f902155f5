package life

import "errors"

var (
	// ErrInvalidArgument is wrapped by every contract violation raised by the Stepper,
	// such as buffers whose length does not match the grid shape or buffers that alias.
	ErrInvalidArgument = errors.New("life: invalid argument")

	// ErrInvalidDimensions is returned when a grid or stepper is created with a non-positive width or height.
	ErrInvalidDimensions = errors.New("life: invalid grid dimensions")
)
