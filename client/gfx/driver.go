package gfx

import "github.com/sirupsen/logrus"

const (
	renderEncoderLabel = "Render Encoder"
	renderPassLabel    = "Render Pass"
)

// Event is an input event delivered by the host.
type Event interface{}

// FrameDriver clears and presents frames through a GraphicsContext.
// It keeps no state between frames.
type FrameDriver struct {
	log logrus.FieldLogger
	gc  *GraphicsContext
}

func NewFrameDriver(gc *GraphicsContext, opts ...Option) *FrameDriver {
	o := applyOptions("frame-driver", opts)
	return &FrameDriver{log: o.log, gc: gc}
}

// Context returns the GraphicsContext frames are rendered through.
func (fd *FrameDriver) Context() *GraphicsContext { return fd.gc }

// Resize reconfigures the surface for size. Failures are logged; the next
// Render reports them as a lost surface.
func (fd *FrameDriver) Resize(size Size) {
	if err := fd.gc.Reconfigure(size.Width, size.Height); err != nil {
		fd.log.WithError(err).Error("Resize failed")
	}
}

// Input reports whether the event was consumed. Nothing is consumed yet, so
// callers always continue their own event handling.
func (fd *FrameDriver) Input(event Event) bool {
	return false
}

// Update advances time-dependent state between frames. There is none yet.
func (fd *FrameDriver) Update() {}

// Render clears the next surface texture to ClearColor and presents it.
// Failures are *FrameError values; see Classify for the mapping.
func (fd *FrameDriver) Render() error {
	gc := fd.gc
	if !gc.Configured() {
		// Nothing to acquire from. With a usable size the caller should
		// reconfigure, otherwise wait for the host to report one.
		if gc.Size().Empty() {
			return &FrameError{Kind: FrameTransient, Status: AcquireOutdated}
		}
		return &FrameError{Kind: FrameLost, Status: AcquireLost}
	}

	output, status := gc.Surface().CurrentTexture()
	if err := Classify(status); err != nil {
		return err
	}
	view := output.CreateView()

	encoder := gc.Device().CreateCommandEncoder(renderEncoderLabel)
	{
		pass := encoder.BeginRenderPass(RenderPassDescriptor{
			Label: renderPassLabel,
			ColorAttachments: []RenderPassColorAttachment{
				{
					View:          view,
					ResolveTarget: nil,
					ClearValue:    ClearColor,
					LoadOp:        LoadOpClear,
					StoreOp:       StoreOpStore,
				},
			},
			DepthStencilAttachment: nil,
		})
		pass.End()
	}

	gc.Queue().Submit(encoder.Finish())
	output.Present()
	return nil
}
