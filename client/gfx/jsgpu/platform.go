//go:build js && wasm

// Package jsgpu implements the gfx backend interfaces on top of the browser's WebGPU API.
package jsgpu

import (
	"context"
	"errors"
	"fmt"

	"github.com/hack-pad/safejs"
	"github.com/hulkholden/canvasclear/client/browser"
	"github.com/hulkholden/canvasclear/client/gfx"
	"github.com/sirupsen/logrus"
)

// ErrUnsupported is returned when the browser does not expose WebGPU.
var ErrUnsupported = errors.New("WebGPU is not supported by this browser")

// Window binds a canvas to the gfx.Window interface.
type Window struct {
	Canvas *browser.Canvas
}

func NewWindow(c *browser.Canvas) *Window { return &Window{Canvas: c} }

func (w *Window) InnerSize() gfx.Size {
	width, height := w.Canvas.InnerSize()
	return gfx.Size{Width: width, Height: height}
}

type Platform struct {
	log logrus.FieldLogger
}

func NewPlatform(log logrus.FieldLogger) *Platform {
	return &Platform{log: log.WithField("component", "jsgpu")}
}

func (p *Platform) CreateInstance(desc gfx.InstanceDescriptor) (gfx.Instance, error) {
	if desc.Backends&gfx.BackendBrowserWebGPU == 0 {
		return nil, fmt.Errorf("backends %#x exclude the browser WebGPU backend", desc.Backends)
	}
	navigator, err := safejs.Global().Get("navigator")
	if err != nil {
		return nil, err
	}
	gpu, err := navigator.Get("gpu")
	if err != nil {
		return nil, err
	}
	if gpu.IsUndefined() || gpu.IsNull() {
		return nil, ErrUnsupported
	}
	return &Instance{log: p.log, gpu: gpu}, nil
}

// Instance wraps navigator.gpu.
type Instance struct {
	log logrus.FieldLogger
	gpu safejs.Value
}

func (i *Instance) CreateSurface(w gfx.Window) (gfx.Surface, error) {
	win, ok := w.(*Window)
	if !ok {
		return nil, fmt.Errorf("jsgpu: unsupported window type %T", w)
	}
	canvas := safejs.Safe(win.Canvas.JSValue())
	jsContext, err := canvas.Call("getContext", "webgpu")
	if err != nil {
		return nil, fmt.Errorf("getContext: %w", err)
	}
	if jsContext.IsNull() || jsContext.IsUndefined() {
		return nil, errors.New("canvas has no webgpu context")
	}
	return newSurface(i.log, i.gpu, win.Canvas, jsContext), nil
}

// RequestAdapter asks the browser for an adapter. Any adapter can present to a
// canvas, so opts.CompatibleSurface does not narrow the request.
func (i *Instance) RequestAdapter(ctx context.Context, opts gfx.AdapterOptions) (gfx.Adapter, error) {
	req := map[string]any{
		"forceFallbackAdapter": opts.ForceFallbackAdapter,
	}
	if opts.PowerPreference != gfx.PowerPreferenceDefault {
		req["powerPreference"] = string(opts.PowerPreference)
	}
	promise, err := i.gpu.Call("requestAdapter", req)
	if err != nil {
		return nil, fmt.Errorf("requestAdapter: %w", err)
	}
	adapter, err := await(ctx, promise)
	if err != nil {
		return nil, fmt.Errorf("requestAdapter: %w", err)
	}
	if adapter.IsNull() || adapter.IsUndefined() {
		return nil, gfx.ErrNoAdapter
	}
	return &Adapter{log: i.log, value: adapter}, nil
}

// await blocks until promise settles or ctx is done. It must not be called
// from a JS callback: the callbacks it waits on run on the same event loop.
func await(ctx context.Context, promise safejs.Value) (safejs.Value, error) {
	type settled struct {
		value safejs.Value
		err   error
	}
	ch := make(chan settled, 1)

	onFulfilled, err := safejs.FuncOf(func(_ safejs.Value, args []safejs.Value) any {
		var v safejs.Value
		if len(args) > 0 {
			v = args[0]
		}
		ch <- settled{value: v}
		return nil
	})
	if err != nil {
		return safejs.Value{}, err
	}
	onRejected, err := safejs.FuncOf(func(_ safejs.Value, args []safejs.Value) any {
		reason := "promise rejected"
		if len(args) > 0 {
			reason = describe(args[0])
		}
		ch <- settled{err: errors.New(reason)}
		return nil
	})
	if err != nil {
		onFulfilled.Release()
		return safejs.Value{}, err
	}

	if _, err := promise.Call("then", safejs.Unsafe(onFulfilled.Value()), safejs.Unsafe(onRejected.Value())); err != nil {
		onFulfilled.Release()
		onRejected.Release()
		return safejs.Value{}, err
	}

	select {
	case s := <-ch:
		onFulfilled.Release()
		onRejected.Release()
		return s.value, s.err
	case <-ctx.Done():
		// The callbacks stay alive: the promise may still settle.
		return safejs.Value{}, ctx.Err()
	}
}

// describe renders a JS value (usually an Error) for error messages.
func describe(v safejs.Value) string {
	s, err := v.Call("toString")
	if err != nil {
		return "unknown JS error"
	}
	str, err := s.String()
	if err != nil {
		return "unknown JS error"
	}
	return str
}

func stringProp(v safejs.Value, name string) string {
	p, err := v.Get(name)
	if err != nil || p.IsUndefined() || p.IsNull() {
		return ""
	}
	s, err := p.String()
	if err != nil {
		return ""
	}
	return s
}
