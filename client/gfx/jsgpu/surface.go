//go:build js && wasm

package jsgpu

import (
	"fmt"

	"github.com/hack-pad/safejs"
	"github.com/hulkholden/canvasclear/client/browser"
	"github.com/hulkholden/canvasclear/client/gfx"
	"github.com/mokiat/wasmgpu"
	"github.com/sirupsen/logrus"
)

// Surface wraps a canvas' GPUCanvasContext.
type Surface struct {
	log        logrus.FieldLogger
	gpu        safejs.Value
	canvas     *browser.Canvas
	value      safejs.Value
	context    wasmgpu.GPUCanvasContext
	device     *Device
	acquired   *SurfaceTexture
	configured bool
}

func newSurface(log logrus.FieldLogger, gpu safejs.Value, canvas *browser.Canvas, value safejs.Value) *Surface {
	return &Surface{
		log:     log,
		gpu:     gpu,
		canvas:  canvas,
		value:   value,
		context: wasmgpu.NewCanvasContext(safejs.Unsafe(value)),
	}
}

func (s *Surface) Capabilities(a gfx.Adapter) gfx.Capabilities {
	var preferred gfx.TextureFormat
	if v, err := s.gpu.Call("getPreferredCanvasFormat"); err == nil {
		if name, err := v.String(); err == nil {
			preferred = gfx.TextureFormat(name)
		}
	}
	return canvasCapabilities(preferred)
}

func (s *Surface) Configure(d gfx.Device, config gfx.SurfaceConfig) error {
	device, ok := d.(*Device)
	if !ok {
		return fmt.Errorf("jsgpu: unsupported device type %T", d)
	}
	if config.PresentMode != gfx.PresentModeFifo {
		return fmt.Errorf("jsgpu: present mode %q is not supported", config.PresentMode)
	}
	viewFormats := make([]any, len(config.ViewFormats))
	for i, f := range config.ViewFormats {
		viewFormats[i] = string(f)
	}
	s.canvas.SetBackingSize(config.Width, config.Height)
	_, err := s.value.Call("configure", map[string]any{
		"device":      safejs.Unsafe(device.value),
		"format":      string(config.Format),
		"usage":       float64(config.Usage),
		"alphaMode":   string(config.AlphaMode),
		"viewFormats": viewFormats,
	})
	if err != nil {
		s.configured = false
		return fmt.Errorf("configure: %w", err)
	}
	s.device = device
	s.configured = true
	return nil
}

func (s *Surface) CurrentTexture() (gfx.SurfaceTexture, gfx.AcquireStatus) {
	if !s.configured {
		return nil, gfx.AcquireOutdated
	}
	if s.device.lost {
		return nil, gfx.AcquireDeviceLost
	}
	if s.acquired != nil && !s.acquired.presented {
		// The browser hands out one texture per task; a second acquisition
		// before presenting means the previous frame was abandoned.
		s.log.Warn("Previous surface texture was never presented")
	}
	t, err := s.acquire()
	if err != nil {
		s.log.WithError(err).Warn("getCurrentTexture failed")
		return nil, gfx.AcquireLost
	}
	s.acquired = t
	return t, gfx.AcquireSuccess
}

func (s *Surface) acquire() (*SurfaceTexture, error) {
	t := &SurfaceTexture{}
	err := browser.Catch(func() {
		texture := s.context.GetCurrentTexture()
		t.createView = func() *TextureView {
			view := texture.CreateView()
			return &TextureView{bind: func(a *wasmgpu.GPURenderPassColorAttachment) {
				a.View = view
			}}
		}
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SurfaceTexture is the canvas' current texture.
type SurfaceTexture struct {
	createView func() *TextureView
	presented  bool
}

func (t *SurfaceTexture) CreateView() gfx.TextureView {
	if t.presented {
		panic("jsgpu: CreateView on a presented texture")
	}
	return t.createView()
}

// Present marks the texture as consumed. The browser composites the canvas
// once control returns to the event loop; there is no explicit present call.
func (t *SurfaceTexture) Present() {
	t.presented = true
}

// TextureView is a view usable as a render pass attachment.
type TextureView struct {
	bind func(a *wasmgpu.GPURenderPassColorAttachment)
}
