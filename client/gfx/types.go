package gfx

import (
	"fmt"
	"strings"
)

// Size is a drawable size in physical pixels.
type Size struct {
	Width, Height uint32
}

// Empty reports whether either dimension is zero.
func (s Size) Empty() bool { return s.Width == 0 || s.Height == 0 }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// TextureFormat is a WebGPU texture format name, e.g. "bgra8unorm-srgb".
type TextureFormat string

const (
	TextureFormatBGRA8Unorm     TextureFormat = "bgra8unorm"
	TextureFormatBGRA8UnormSRGB TextureFormat = "bgra8unorm-srgb"
	TextureFormatRGBA8Unorm     TextureFormat = "rgba8unorm"
	TextureFormatRGBA8UnormSRGB TextureFormat = "rgba8unorm-srgb"
	TextureFormatRGBA16Float    TextureFormat = "rgba16float"
)

// IsSRGB reports whether the format applies the sRGB transfer function on write.
func (f TextureFormat) IsSRGB() bool { return strings.HasSuffix(string(f), "-srgb") }

// PresentMode governs when a presented frame becomes visible.
type PresentMode string

const (
	PresentModeFifo        PresentMode = "fifo"
	PresentModeFifoRelaxed PresentMode = "fifo-relaxed"
	PresentModeImmediate   PresentMode = "immediate"
	PresentModeMailbox     PresentMode = "mailbox"
)

// AlphaMode governs how the compositor treats the alpha channel of presented frames.
type AlphaMode string

const (
	AlphaModeOpaque        AlphaMode = "opaque"
	AlphaModePremultiplied AlphaMode = "premultiplied"
)

// TextureUsage is a bitmask of the ways a texture may be used.
type TextureUsage uint32

const (
	TextureUsageCopySrc          TextureUsage = 0x01
	TextureUsageCopyDst          TextureUsage = 0x02
	TextureUsageTextureBinding   TextureUsage = 0x04
	TextureUsageStorageBinding   TextureUsage = 0x08
	TextureUsageRenderAttachment TextureUsage = 0x10
)

// Color is a linear RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ClearColor is the colour every frame is cleared to.
var ClearColor = Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// SurfaceConfig is the swapchain configuration applied to a Surface.
type SurfaceConfig struct {
	Usage       TextureUsage
	Format      TextureFormat
	Width       uint32
	Height      uint32
	PresentMode PresentMode
	AlphaMode   AlphaMode
	ViewFormats []TextureFormat
}

// Size returns the configured size.
func (c SurfaceConfig) Size() Size { return Size{Width: c.Width, Height: c.Height} }

// Capabilities is what a surface reports it supports when paired with an adapter.
// Each list is in the order the driver reports it.
type Capabilities struct {
	Formats      []TextureFormat
	PresentModes []PresentMode
	AlphaModes   []AlphaMode
}

// Backends is a bitmask of GPU API backends an instance may use.
type Backends uint32

const (
	BackendVulkan Backends = 1 << iota
	BackendMetal
	BackendDX12
	BackendGL
	BackendBrowserWebGPU

	BackendsAll = BackendVulkan | BackendMetal | BackendDX12 | BackendGL | BackendBrowserWebGPU
)

// InstanceDescriptor describes the instance to create.
type InstanceDescriptor struct {
	Backends Backends
}

// PowerPreference is a hint for adapter selection.
type PowerPreference string

const (
	// PowerPreferenceDefault lets the implementation pick.
	PowerPreferenceDefault         PowerPreference = ""
	PowerPreferenceLowPower        PowerPreference = "low-power"
	PowerPreferenceHighPerformance PowerPreference = "high-performance"
)

// AdapterOptions controls adapter selection.
type AdapterOptions struct {
	PowerPreference      PowerPreference
	CompatibleSurface    Surface
	ForceFallbackAdapter bool
}

// AdapterInfo describes the adapter that was picked.
type AdapterInfo struct {
	Vendor       string
	Architecture string
	Device       string
	Description  string
}

// Feature names an optional device feature.
type Feature string

// DeviceDescriptor describes the device to request.
type DeviceDescriptor struct {
	Label            string
	RequiredFeatures []Feature
	RequiredLimits   Limits
}
