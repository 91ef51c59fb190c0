package gfx

import (
	"context"
	"errors"
)

// The fakes below record every call so tests can assert on the exact
// sequence of GPU operations.

type fakeWindow struct {
	Size Size
}

func (w *fakeWindow) InnerSize() Size { return w.Size }

type fakePlatform struct {
	Err       error
	Instance  *fakeInstance
	Requested []InstanceDescriptor
}

func (p *fakePlatform) CreateInstance(desc InstanceDescriptor) (Instance, error) {
	p.Requested = append(p.Requested, desc)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Instance, nil
}

type fakeInstance struct {
	SurfaceErr error
	AdapterErr error
	Surface    *fakeSurface
	Adapter    *fakeAdapter

	SurfaceWindows []Window
	AdapterOpts    []AdapterOptions
}

func (i *fakeInstance) CreateSurface(w Window) (Surface, error) {
	i.SurfaceWindows = append(i.SurfaceWindows, w)
	if i.SurfaceErr != nil {
		return nil, i.SurfaceErr
	}
	return i.Surface, nil
}

func (i *fakeInstance) RequestAdapter(ctx context.Context, opts AdapterOptions) (Adapter, error) {
	i.AdapterOpts = append(i.AdapterOpts, opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i.AdapterErr != nil {
		return nil, i.AdapterErr
	}
	return i.Adapter, nil
}

type fakeAdapter struct {
	AdapterInfo AdapterInfo
	DeviceErr   error
	Device      *fakeDevice
	Queue       *fakeQueue

	DeviceDescs []DeviceDescriptor
}

func (a *fakeAdapter) Info() AdapterInfo { return a.AdapterInfo }

func (a *fakeAdapter) RequestDevice(ctx context.Context, desc DeviceDescriptor) (Device, Queue, error) {
	a.DeviceDescs = append(a.DeviceDescs, desc)
	if a.DeviceErr != nil {
		return nil, nil, a.DeviceErr
	}
	return a.Device, a.Queue, nil
}

type fakeSurface struct {
	Caps         Capabilities
	ConfigureErr error
	// Acquire is the status the next CurrentTexture call reports.
	Acquire AcquireStatus

	CapsAdapters []Adapter
	Configs      []SurfaceConfig
	Textures     []*fakeTexture
}

func (s *fakeSurface) Capabilities(a Adapter) Capabilities {
	s.CapsAdapters = append(s.CapsAdapters, a)
	return s.Caps
}

func (s *fakeSurface) Configure(d Device, config SurfaceConfig) error {
	if s.ConfigureErr != nil {
		return s.ConfigureErr
	}
	s.Configs = append(s.Configs, config)
	return nil
}

// Current returns the configuration in effect, if any.
func (s *fakeSurface) Current() (SurfaceConfig, bool) {
	if len(s.Configs) == 0 {
		return SurfaceConfig{}, false
	}
	return s.Configs[len(s.Configs)-1], true
}

func (s *fakeSurface) CurrentTexture() (SurfaceTexture, AcquireStatus) {
	if s.Acquire != AcquireSuccess {
		return nil, s.Acquire
	}
	t := &fakeTexture{ID: len(s.Textures)}
	s.Textures = append(s.Textures, t)
	return t, AcquireSuccess
}

// Presented returns the number of textures presented so far.
func (s *fakeSurface) Presented() int {
	n := 0
	for _, t := range s.Textures {
		if t.Presented {
			n++
		}
	}
	return n
}

type fakeTexture struct {
	ID        int
	Views     []*fakeView
	Presented bool
}

func (t *fakeTexture) CreateView() TextureView {
	if t.Presented {
		panic("CreateView on a presented texture")
	}
	v := &fakeView{TextureID: t.ID}
	t.Views = append(t.Views, v)
	return v
}

func (t *fakeTexture) Present() {
	if t.Presented {
		panic("texture presented twice")
	}
	t.Presented = true
}

type fakeView struct {
	TextureID int
}

type fakeDevice struct {
	Encoders []*fakeEncoder
}

func (d *fakeDevice) CreateCommandEncoder(label string) CommandEncoder {
	e := &fakeEncoder{Label: label}
	d.Encoders = append(d.Encoders, e)
	return e
}

type fakeEncoder struct {
	Label    string
	Passes   []*fakePass
	Finished bool
}

func (e *fakeEncoder) BeginRenderPass(desc RenderPassDescriptor) RenderPassEncoder {
	if e.Finished {
		panic("BeginRenderPass on a finished encoder")
	}
	p := &fakePass{Desc: desc}
	e.Passes = append(e.Passes, p)
	return p
}

func (e *fakeEncoder) Finish() CommandBuffer {
	for _, p := range e.Passes {
		if !p.Ended {
			panic("Finish with an open render pass")
		}
	}
	e.Finished = true
	return &fakeCommandBuffer{Encoder: e}
}

type fakePass struct {
	Desc  RenderPassDescriptor
	Ended bool
}

func (p *fakePass) End() { p.Ended = true }

type fakeCommandBuffer struct {
	Encoder *fakeEncoder
}

type fakeQueue struct {
	Submits [][]CommandBuffer
}

func (q *fakeQueue) Submit(buffers ...CommandBuffer) {
	q.Submits = append(q.Submits, buffers)
}

// fakeBackend bundles a fully wired set of fakes.
type fakeBackend struct {
	Window   *fakeWindow
	Platform *fakePlatform
	Instance *fakeInstance
	Adapter  *fakeAdapter
	Surface  *fakeSurface
	Device   *fakeDevice
	Queue    *fakeQueue
}

var defaultCaps = Capabilities{
	Formats:      []TextureFormat{TextureFormatBGRA8Unorm, TextureFormatBGRA8UnormSRGB, TextureFormatRGBA8UnormSRGB},
	PresentModes: []PresentMode{PresentModeFifo, PresentModeMailbox},
	AlphaModes:   []AlphaMode{AlphaModeOpaque, AlphaModePremultiplied},
}

func newFakeBackend(size Size) *fakeBackend {
	b := &fakeBackend{
		Window:  &fakeWindow{Size: size},
		Surface: &fakeSurface{Caps: defaultCaps},
		Device:  &fakeDevice{},
		Queue:   &fakeQueue{},
	}
	b.Adapter = &fakeAdapter{
		AdapterInfo: AdapterInfo{Vendor: "fake", Architecture: "test"},
		Device:      b.Device,
		Queue:       b.Queue,
	}
	b.Instance = &fakeInstance{Surface: b.Surface, Adapter: b.Adapter}
	b.Platform = &fakePlatform{Instance: b.Instance}
	return b
}

func (b *fakeBackend) newContext() (*GraphicsContext, error) {
	return New(context.Background(), b.Platform, b.Window, WithLogger(discardLogger()))
}

var errFake = errors.New("fake failure")
