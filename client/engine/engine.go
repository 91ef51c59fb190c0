//go:build js && wasm

package engine

import (
	"syscall/js"

	"github.com/hulkholden/canvasclear/client/browser"
)

// RunLoop calls frame once per animation frame for as long as it returns true.
// The returned channel is closed once frame has returned false.
func RunLoop(frame func() bool) <-chan struct{} {
	done := make(chan struct{})
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		if !frame() {
			cb.Release()
			close(done)
			return nil
		}
		browser.Window().RequestAnimationFrame(cb)
		return nil
	})
	browser.Window().RequestAnimationFrame(cb)
	return done
}
