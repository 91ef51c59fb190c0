package gfx

import "context"

// Window is the host window a surface is bound to.
type Window interface {
	// InnerSize returns the current drawable size in physical pixels.
	InnerSize() Size
}

// Platform creates GPU instances.
type Platform interface {
	CreateInstance(desc InstanceDescriptor) (Instance, error)
}

// Instance is the entry point to a GPU API.
type Instance interface {
	// CreateSurface binds a presentable surface to w. The window must outlive the surface.
	CreateSurface(w Window) (Surface, error)
	// RequestAdapter blocks until an adapter is found or ctx is done.
	// It returns ErrNoAdapter when no adapter matches opts.
	RequestAdapter(ctx context.Context, opts AdapterOptions) (Adapter, error)
}

type Adapter interface {
	Info() AdapterInfo
	// RequestDevice blocks until the device is created or ctx is done.
	RequestDevice(ctx context.Context, desc DeviceDescriptor) (Device, Queue, error)
}

// Surface is the presentable target bound to a window.
type Surface interface {
	Capabilities(a Adapter) Capabilities
	Configure(d Device, config SurfaceConfig) error
	// CurrentTexture acquires the next presentable texture. The texture is nil
	// unless the status is AcquireSuccess.
	CurrentTexture() (SurfaceTexture, AcquireStatus)
}

// SurfaceTexture is a texture acquired from a Surface.
type SurfaceTexture interface {
	// CreateView creates a full default view over the texture.
	CreateView() TextureView
	// Present hands the texture back to the surface. It must not be used afterwards.
	Present()
}

type TextureView interface{}

type Device interface {
	CreateCommandEncoder(label string) CommandEncoder
}

type Queue interface {
	// Submit enqueues command buffers without waiting for them to complete.
	Submit(buffers ...CommandBuffer)
}

type CommandEncoder interface {
	BeginRenderPass(desc RenderPassDescriptor) RenderPassEncoder
	Finish() CommandBuffer
}

type RenderPassEncoder interface {
	End()
}

type CommandBuffer interface{}

// LoadOp is what a render pass does with an attachment's existing contents.
type LoadOp string

const (
	LoadOpClear LoadOp = "clear"
	LoadOpLoad  LoadOp = "load"
)

// StoreOp is what a render pass does with an attachment's contents when it ends.
type StoreOp string

const (
	StoreOpStore   StoreOp = "store"
	StoreOpDiscard StoreOp = "discard"
)

type RenderPassColorAttachment struct {
	View          TextureView
	ResolveTarget TextureView
	ClearValue    Color
	LoadOp        LoadOp
	StoreOp       StoreOp
}

// DepthStencilAttachment is declared only so a pass can state it has none.
type DepthStencilAttachment struct {
	View TextureView
}

type RenderPassDescriptor struct {
	Label                  string
	ColorAttachments       []RenderPassColorAttachment
	DepthStencilAttachment *DepthStencilAttachment
}
