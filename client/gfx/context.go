// Package gfx owns the GPU connection for a single window and drives frames into it.
//
// A GraphicsContext negotiates instance, adapter, device and surface
// configuration once. A FrameDriver clears and presents one frame per call and
// classifies acquisition failures. A Loop applies the host event contract on top.
package gfx

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// GraphicsContext holds the surface, device and queue for one window.
// It is not safe for concurrent use; all calls must come from the thread
// that drives the host event loop.
type GraphicsContext struct {
	log logrus.FieldLogger

	surface Surface
	adapter Adapter
	device  Device
	queue   Queue

	info       AdapterInfo
	config     SurfaceConfig
	size       Size
	configured bool
}

// New negotiates a GraphicsContext for window. It blocks until the adapter and
// device requests complete. Any failure is returned as an *InitError and no
// context is returned.
//
// If the window currently has a zero-sized drawable the surface is left
// unconfigured until the first Reconfigure with a non-zero size.
func New(ctx context.Context, platform Platform, window Window, opts ...Option) (*GraphicsContext, error) {
	o := applyOptions("graphics-context", opts)
	size := window.InnerSize()

	instance, err := platform.CreateInstance(InstanceDescriptor{Backends: BackendsAll})
	if err != nil {
		return nil, initError("instance", err)
	}

	surface, err := instance.CreateSurface(window)
	if err != nil {
		return nil, initError("surface", err)
	}

	adapter, err := instance.RequestAdapter(ctx, AdapterOptions{
		PowerPreference:      PowerPreferenceDefault,
		CompatibleSurface:    surface,
		ForceFallbackAdapter: false,
	})
	if err != nil {
		return nil, initError("adapter", err)
	}
	info := adapter.Info()
	o.log.WithFields(logrus.Fields{
		"vendor":       info.Vendor,
		"architecture": info.Architecture,
		"description":  info.Description,
	}).Info("Selected GPU adapter")

	device, queue, err := adapter.RequestDevice(ctx, DeviceDescriptor{
		RequiredFeatures: nil,
		RequiredLimits:   DownlevelWebGL2Limits(),
	})
	if err != nil {
		return nil, initError("device", err)
	}

	config, err := selectConfig(surface.Capabilities(adapter), size)
	if err != nil {
		return nil, initError("capabilities", err)
	}

	gc := &GraphicsContext{
		log:     o.log,
		surface: surface,
		adapter: adapter,
		device:  device,
		queue:   queue,
		info:    info,
		config:  config,
		size:    size,
	}
	if size.Empty() {
		gc.log.WithField("size", size).Warn("Window has no drawable area, deferring surface configuration")
		return gc, nil
	}
	if err := gc.configure(); err != nil {
		return nil, initError("configure", err)
	}
	return gc, nil
}

// selectConfig picks the swapchain configuration from what the surface reports.
// The choice depends only on the order of the reported lists.
func selectConfig(caps Capabilities, size Size) (SurfaceConfig, error) {
	if len(caps.Formats) == 0 || len(caps.PresentModes) == 0 || len(caps.AlphaModes) == 0 {
		return SurfaceConfig{}, fmt.Errorf("%w: %+v", ErrNoCapabilities, caps)
	}
	return SurfaceConfig{
		Usage:       TextureUsageRenderAttachment,
		Format:      SelectFormat(caps.Formats),
		Width:       size.Width,
		Height:      size.Height,
		PresentMode: caps.PresentModes[0],
		AlphaMode:   caps.AlphaModes[0],
	}, nil
}

// SelectFormat returns the first sRGB format in formats, or formats[0] if there is none.
// formats must not be empty.
func SelectFormat(formats []TextureFormat) TextureFormat {
	for _, f := range formats {
		if f.IsSRGB() {
			return f
		}
	}
	return formats[0]
}

func (gc *GraphicsContext) configure() error {
	if err := gc.surface.Configure(gc.device, gc.config); err != nil {
		return err
	}
	gc.configured = true
	gc.log.WithFields(logrus.Fields{
		"width":        gc.config.Width,
		"height":       gc.config.Height,
		"format":       gc.config.Format,
		"present_mode": gc.config.PresentMode,
		"alpha_mode":   gc.config.AlphaMode,
	}).Debug("Configured surface")
	return nil
}

// Reconfigure applies a new surface size, keeping the device, format, present
// mode and alpha mode. A size with a zero dimension (e.g. a minimized window)
// is ignored and the previous configuration stays in effect.
func (gc *GraphicsContext) Reconfigure(width, height uint32) error {
	size := Size{Width: width, Height: height}
	if size.Empty() {
		return nil
	}
	gc.size = size
	gc.config.Width = width
	gc.config.Height = height
	if err := gc.configure(); err != nil {
		gc.configured = false
		return fmt.Errorf("configuring surface at %v: %w", size, err)
	}
	return nil
}

// Config returns the current surface configuration.
func (gc *GraphicsContext) Config() SurfaceConfig { return gc.config }

// Size returns the last known drawable size.
func (gc *GraphicsContext) Size() Size { return gc.size }

// Configured reports whether the surface currently holds a valid configuration.
func (gc *GraphicsContext) Configured() bool { return gc.configured }

func (gc *GraphicsContext) AdapterInfo() AdapterInfo { return gc.info }
func (gc *GraphicsContext) Surface() Surface         { return gc.surface }
func (gc *GraphicsContext) Device() Device           { return gc.device }
func (gc *GraphicsContext) Queue() Queue             { return gc.queue }
