package shader

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithConstant supplies the value emitted for a //@life:const annotation of the same name.
//
// Parameters:
//   - name: the WGSL constant name, e.g. "WORKGROUP_SIZE"
//   - value: the u32 value
//
// Returns:
//   - ShaderBuilderOption: a function that registers the constant
func WithConstant(name string, value uint32) ShaderBuilderOption {
	return func(s *shader) {
		s.constants[name] = value
	}
}
