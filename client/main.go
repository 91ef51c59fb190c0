//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"syscall/js"
	"time"

	"github.com/hulkholden/canvasclear/client/browser"
	"github.com/hulkholden/canvasclear/client/engine"
	"github.com/hulkholden/canvasclear/client/gfx"
	"github.com/hulkholden/canvasclear/client/gfx/jsgpu"
	"github.com/sirupsen/logrus"
)

const (
	defaultHostElementID = "canvas-host"
	defaultWidth         = 512
	defaultHeight        = 512
)

// waitForExports waits until the JS which initializes the globals has finished running.
func waitForExports(log logrus.FieldLogger) {
	for {
		if fn := js.Global().Get("getHostElementID"); !fn.IsUndefined() {
			return
		}
		log.Debug("getHostElementID is still undefined")
		time.Sleep(100 * time.Millisecond)
	}
}

// pageString calls a page-provided global returning a string, or returns def
// if the global is missing or returns null.
func pageString(name, def string) string {
	fn := js.Global().Get(name)
	if fn.Type() != js.TypeFunction {
		return def
	}
	v := fn.Invoke()
	if v.Type() != js.TypeString || v.String() == "" {
		return def
	}
	return v.String()
}

func showError(msg string) {
	if fn := js.Global().Get("showError"); fn.Type() == js.TypeFunction {
		fn.Invoke(msg)
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if name := pageString("getLogLevel", ""); name != "" {
		level, err := logrus.ParseLevel(name)
		if err != nil {
			log.WithError(err).Warn("Ignoring page log level")
		} else {
			log.SetLevel(level)
		}
	}
	return log
}

func createCanvas(hostID string) (*browser.Canvas, error) {
	doc := browser.Window().Document()
	host, err := doc.GetElementByID(hostID)
	if err != nil {
		return nil, err
	}
	canvas := doc.CreateCanvas()
	canvas.SetSize(defaultWidth, defaultHeight)
	canvas.SetFocusable()
	if err := host.AppendChild(canvas); err != nil {
		return nil, fmt.Errorf("appending canvas: %w", err)
	}
	return canvas, nil
}

func run(log *logrus.Logger) error {
	waitForExports(log)

	canvas, err := createCanvas(pageString("getHostElementID", defaultHostElementID))
	if err != nil {
		return err
	}

	gc, err := gfx.New(context.Background(), jsgpu.NewPlatform(log), jsgpu.NewWindow(canvas), gfx.WithLogger(log))
	if err != nil {
		return err
	}
	loop := gfx.NewLoop(gfx.NewFrameDriver(gc, gfx.WithLogger(log)), gfx.WithLogger(log))

	stopResize := canvas.ObserveResize(loop.OnResize)
	defer stopResize()

	onKey := js.FuncOf(func(this js.Value, args []js.Value) any {
		key := args[0].Get("key").String()
		loop.OnInput(args[0])
		if gfx.IsExitKey(key) {
			loop.OnCloseOrExitKey()
		}
		return nil
	})
	canvas.AddEventListener("keydown", onKey)
	defer func() {
		canvas.RemoveEventListener("keydown", onKey)
		onKey.Release()
	}()

	<-engine.RunLoop(loop.OnRedrawRequested)
	log.Info("Render loop stopped")
	return nil
}

func main() {
	log := newLogger()
	log.Info("Started client!")

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Client panicked")
			showError(fmt.Sprintf("Panic: %v", r))
		}
	}()

	if err := run(log); err != nil {
		log.WithError(err).Error("run() failed")
		showError("Run error: " + err.Error())
	}

	<-make(chan bool)
}
