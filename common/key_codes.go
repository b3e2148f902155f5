package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyC     = 67 // C key (ASCII)
	KeyN     = 78 // N key (ASCII)
	KeyR     = 82 // R key (ASCII)
	KeySpace = 32 // Spacebar (ASCII)
)

// Mouse buttons, matching glfw.MouseButton values.
const (
	MouseButtonLeft  = 0
	MouseButtonRight = 1
)
