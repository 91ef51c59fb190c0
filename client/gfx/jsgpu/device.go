//go:build js && wasm

package jsgpu

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/hack-pad/safejs"
	"github.com/hulkholden/canvasclear/client/gfx"
	"github.com/mokiat/gog/opt"
	"github.com/mokiat/wasmgpu"
	"github.com/sirupsen/logrus"
)

// Adapter wraps a GPUAdapter.
type Adapter struct {
	log   logrus.FieldLogger
	value safejs.Value
}

func (a *Adapter) Info() gfx.AdapterInfo {
	info, err := a.value.Get("info")
	if err != nil || info.IsUndefined() || info.IsNull() {
		return gfx.AdapterInfo{}
	}
	return gfx.AdapterInfo{
		Vendor:       stringProp(info, "vendor"),
		Architecture: stringProp(info, "architecture"),
		Device:       stringProp(info, "device"),
		Description:  stringProp(info, "description"),
	}
}

func (a *Adapter) RequestDevice(ctx context.Context, desc gfx.DeviceDescriptor) (gfx.Device, gfx.Queue, error) {
	features := make([]any, len(desc.RequiredFeatures))
	for i, f := range desc.RequiredFeatures {
		features[i] = string(f)
	}
	req := map[string]any{
		"requiredFeatures": features,
		"requiredLimits":   a.supportedLimits(desc.RequiredLimits),
	}
	if desc.Label != "" {
		req["label"] = desc.Label
	}

	promise, err := a.value.Call("requestDevice", req)
	if err != nil {
		return nil, nil, fmt.Errorf("requestDevice: %w", err)
	}
	value, err := await(ctx, promise)
	if err != nil {
		return nil, nil, fmt.Errorf("requestDevice: %w", err)
	}

	d := &Device{
		log:    a.log,
		value:  value,
		device: wasmgpu.NewDevice(safejs.Unsafe(value)),
	}
	if err := d.watchLost(); err != nil {
		return nil, nil, err
	}
	return d, &Queue{device: d.device}, nil
}

// supportedLimits drops limits the browser does not know; requestDevice
// rejects unknown names.
func (a *Adapter) supportedLimits(limits gfx.Limits) map[string]any {
	supported, err := a.value.Get("limits")
	if err != nil {
		return map[string]any{}
	}
	return requiredLimits(limits, func(name string) bool {
		v, err := supported.Get(name)
		if err != nil || v.IsUndefined() {
			a.log.WithField("limit", name).Debug("Adapter does not report limit, not requesting it")
			return false
		}
		return true
	})
}

// Device wraps a GPUDevice.
type Device struct {
	log    logrus.FieldLogger
	value  safejs.Value
	device wasmgpu.GPUDevice
	lost   bool
}

func (d *Device) watchLost() error {
	lost, err := d.value.Get("lost")
	if err != nil {
		return err
	}
	var onLost safejs.Func
	onLost, err = safejs.FuncOf(func(_ safejs.Value, args []safejs.Value) any {
		d.lost = true
		fields := logrus.Fields{}
		if len(args) > 0 {
			fields["reason"] = stringProp(args[0], "reason")
			fields["message"] = stringProp(args[0], "message")
		}
		d.log.WithFields(fields).Error("GPU device lost")
		onLost.Release()
		return nil
	})
	if err != nil {
		return err
	}
	_, err = lost.Call("then", safejs.Unsafe(onLost.Value()))
	return err
}

func (d *Device) CreateCommandEncoder(label string) gfx.CommandEncoder {
	encoder := d.device.CreateCommandEncoder()
	labelObject(d.log, encoder.ToJS(), label)
	return &CommandEncoder{log: d.log, encoder: encoder}
}

// labelObject labels a wasmgpu object through its underlying JS value.
// Labeling failures are logged and otherwise ignored.
func labelObject(log logrus.FieldLogger, obj any, label string) {
	if err := setLabel(safejs.Safe(js.ValueOf(obj)), label); err != nil {
		log.WithError(err).WithField("label", label).Debug("Failed to label GPU object")
	}
}

type Queue struct {
	device wasmgpu.GPUDevice
}

func (q *Queue) Submit(buffers ...gfx.CommandBuffer) {
	cbs := make([]wasmgpu.GPUCommandBuffer, len(buffers))
	for i, b := range buffers {
		cbs[i] = b.(wasmgpu.GPUCommandBuffer)
	}
	q.device.Queue().Submit(cbs)
}

type CommandEncoder struct {
	log     logrus.FieldLogger
	encoder wasmgpu.GPUCommandEncoder
}

func (e *CommandEncoder) BeginRenderPass(desc gfx.RenderPassDescriptor) gfx.RenderPassEncoder {
	if desc.DepthStencilAttachment != nil {
		panic("jsgpu: depth/stencil attachments are not supported")
	}
	attachments := make([]wasmgpu.GPURenderPassColorAttachment, len(desc.ColorAttachments))
	for i, a := range desc.ColorAttachments {
		if a.ResolveTarget != nil {
			panic("jsgpu: resolve targets are not supported")
		}
		att := &attachments[i]
		a.View.(*TextureView).bind(att)
		att.ClearValue = opt.V(wasmgpu.GPUColor{R: a.ClearValue.R, G: a.ClearValue.G, B: a.ClearValue.B, A: a.ClearValue.A})
		switch a.LoadOp {
		case gfx.LoadOpClear:
			att.LoadOp = wasmgpu.GPULoadOpClear
		default:
			panic(fmt.Sprintf("jsgpu: unsupported load op %q", a.LoadOp))
		}
		switch a.StoreOp {
		case gfx.StoreOpStore:
			att.StoreOp = wasmgpu.GPUStoreOPStore
		default:
			panic(fmt.Sprintf("jsgpu: unsupported store op %q", a.StoreOp))
		}
	}
	pass := e.encoder.BeginRenderPass(wasmgpu.GPURenderPassDescriptor{
		ColorAttachments: attachments,
	})
	labelObject(e.log, pass.ToJS(), desc.Label)
	return pass
}

func (e *CommandEncoder) Finish() gfx.CommandBuffer {
	return e.encoder.Finish()
}
