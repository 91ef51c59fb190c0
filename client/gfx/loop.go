package gfx

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// ExitKey is the key that ends the render loop.
const ExitKey = "Escape"

// IsExitKey reports whether key (a KeyboardEvent.key value) ends the render loop.
func IsExitKey(key string) bool { return key == ExitKey }

// Loop connects host window events to a FrameDriver. The host calls OnResize,
// OnInput, OnRedrawRequested and OnCloseOrExitKey from its single event thread,
// and requests another redraw after each OnRedrawRequested while Running.
type Loop struct {
	log     logrus.FieldLogger
	driver  *FrameDriver
	running bool
}

func NewLoop(driver *FrameDriver, opts ...Option) *Loop {
	o := applyOptions("loop", opts)
	return &Loop{log: o.log, driver: driver, running: true}
}

// Running reports whether the host should keep scheduling redraws.
func (l *Loop) Running() bool { return l.running }

func (l *Loop) OnResize(width, height uint32) {
	l.driver.Resize(Size{Width: width, Height: height})
}

func (l *Loop) OnInput(event Event) bool {
	return l.driver.Input(event)
}

func (l *Loop) OnCloseOrExitKey() {
	if l.running {
		l.log.Info("Exit requested, stopping render loop")
	}
	l.running = false
}

// OnRedrawRequested renders one frame and reacts to its outcome. It returns
// whether the loop is still running. A failed frame is never retried in the
// same call; the next scheduled redraw is the retry.
func (l *Loop) OnRedrawRequested() bool {
	if !l.running {
		return false
	}
	l.driver.Update()
	err := l.driver.Render()
	switch {
	case err == nil:
	case errors.Is(err, ErrFrameLost):
		size := l.driver.Context().Size()
		l.log.WithError(err).WithField("size", size).Warn("Surface lost, reconfiguring")
		l.driver.Resize(size)
	case errors.Is(err, ErrFrameTransient):
		l.log.WithError(err).Debug("Skipping frame")
	default:
		l.log.WithError(err).Error("Stopping render loop")
		l.running = false
	}
	return l.running
}
