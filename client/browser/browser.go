//go:build js && wasm

package browser

import (
	"fmt"
	"math"
	"syscall/js"
)

type HTMLWindow struct{ jsValue js.Value }

func Window() HTMLWindow {
	return HTMLWindow{js.Global().Get("window")}
}

func (w HTMLWindow) RequestAnimationFrame(fn js.Func) { w.jsValue.Call("requestAnimationFrame", fn) }

func (w HTMLWindow) DevicePixelRatio() float64 {
	if r := w.jsValue.Get("devicePixelRatio"); r.Type() == js.TypeNumber && r.Float() > 0 {
		return r.Float()
	}
	return 1
}

func (w HTMLWindow) AddEventListener(event string, fn js.Func) {
	w.jsValue.Call("addEventListener", event, fn)
}

func (w HTMLWindow) Document() HTMLDocument {
	return HTMLDocument{w.jsValue.Get("document")}
}

type HTMLDocument struct{ jsValue js.Value }

// GetElementByID returns the element with the given id.
func (d HTMLDocument) GetElementByID(id string) (HTMLElement, error) {
	el := d.jsValue.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return HTMLElement{}, fmt.Errorf("no element with id %q", id)
	}
	return HTMLElement{el}, nil
}

// CreateCanvas creates a detached <canvas> element.
func (d HTMLDocument) CreateCanvas() *Canvas {
	return &Canvas{d.jsValue.Call("createElement", "canvas")}
}

type HTMLElement struct{ jsValue js.Value }

func (e HTMLElement) AppendChild(c *Canvas) error {
	return Catch(func() { e.jsValue.Call("appendChild", c.jsValue) })
}

// Canvas is a <canvas> element. Its backing store size is the drawable size
// in physical pixels.
type Canvas struct{ jsValue js.Value }

func (c *Canvas) JSValue() js.Value { return c.jsValue }

// SetSize sets the backing store size in physical pixels and the CSS size to
// match at the current device pixel ratio.
func (c *Canvas) SetSize(width, height uint32) {
	c.SetBackingSize(width, height)
	ratio := Window().DevicePixelRatio()
	style := c.jsValue.Get("style")
	style.Set("width", fmt.Sprintf("%gpx", float64(width)/ratio))
	style.Set("height", fmt.Sprintf("%gpx", float64(height)/ratio))
}

// SetBackingSize sets the backing store size without touching the CSS size.
func (c *Canvas) SetBackingSize(width, height uint32) {
	c.jsValue.Set("width", width)
	c.jsValue.Set("height", height)
}

// InnerSize returns the backing store size in physical pixels.
func (c *Canvas) InnerSize() (width, height uint32) {
	return uint32(c.jsValue.Get("width").Int()), uint32(c.jsValue.Get("height").Int())
}

func (c *Canvas) AddEventListener(event string, fn js.Func) {
	c.jsValue.Call("addEventListener", event, fn)
}

func (c *Canvas) RemoveEventListener(event string, fn js.Func) {
	c.jsValue.Call("removeEventListener", event, fn)
}

// SetFocusable lets the canvas receive keyboard events.
func (c *Canvas) SetFocusable() {
	c.jsValue.Set("tabIndex", 0)
}

// ObserveResize calls fn with the canvas' content size in physical pixels
// whenever it changes. The returned function stops observing.
func (c *Canvas) ObserveResize(fn func(width, height uint32)) (stop func()) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		entries := args[0]
		for i := 0; i < entries.Length(); i++ {
			w, h := entrySize(entries.Index(i))
			fn(w, h)
		}
		return nil
	})
	observer := js.Global().Get("ResizeObserver").New(cb)
	observer.Call("observe", c.jsValue)
	return func() {
		observer.Call("disconnect")
		cb.Release()
	}
}

// entrySize prefers devicePixelContentBoxSize, which is exact, and falls back
// to the CSS content rect scaled by the device pixel ratio.
func entrySize(entry js.Value) (uint32, uint32) {
	if boxes := entry.Get("devicePixelContentBoxSize"); !boxes.IsUndefined() && boxes.Length() > 0 {
		box := boxes.Index(0)
		return uint32(box.Get("inlineSize").Int()), uint32(box.Get("blockSize").Int())
	}
	ratio := Window().DevicePixelRatio()
	rect := entry.Get("contentRect")
	w := math.Round(rect.Get("width").Float() * ratio)
	h := math.Round(rect.Get("height").Float() * ratio)
	return uint32(w), uint32(h)
}

// Catch runs fn and returns any JS exception it throws as a js.Error.
// Other panics propagate.
func Catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}
