package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBuffer sets a buffer the provider owns for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.SetBuffer(binding, buf)
	}
}

// WithSharedBuffer binds a buffer owned by another provider. InitBindGroup will not create a
// buffer for the binding and Release will not free it.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to share
//
// Returns:
//   - BindGroupProviderOption: a function that shares the buffer at the specified binding
func WithSharedBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.ShareBuffer(binding, buf)
	}
}
