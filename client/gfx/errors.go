package gfx

import (
	"errors"
	"fmt"
)

var (
	// ErrInit matches every error returned while constructing a GraphicsContext.
	ErrInit = errors.New("graphics context initialization failed")
	// ErrNoAdapter is returned by Instance.RequestAdapter when no adapter matches.
	ErrNoAdapter = errors.New("no compatible GPU adapter")
	// ErrNoCapabilities is returned when the surface reports an empty format,
	// present mode or alpha mode list for the chosen adapter.
	ErrNoCapabilities = errors.New("surface reports no usable capabilities")
)

// InitError records which negotiation stage failed.
type InitError struct {
	Stage string
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrInit, e.Stage, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func (e *InitError) Is(target error) bool { return target == ErrInit }

func initError(stage string, err error) error {
	return &InitError{Stage: stage, Err: err}
}

// AcquireStatus is the outcome of acquiring a texture from a Surface.
type AcquireStatus int

const (
	AcquireSuccess AcquireStatus = iota
	AcquireTimeout
	AcquireOutdated
	AcquireLost
	AcquireOutOfMemory
	// AcquireDeviceLost means the device backing the surface is gone.
	AcquireDeviceLost
)

func (s AcquireStatus) String() string {
	switch s {
	case AcquireSuccess:
		return "success"
	case AcquireTimeout:
		return "timeout"
	case AcquireOutdated:
		return "outdated"
	case AcquireLost:
		return "lost"
	case AcquireOutOfMemory:
		return "out of memory"
	case AcquireDeviceLost:
		return "device lost"
	}
	return fmt.Sprintf("AcquireStatus(%d)", int(s))
}

// FrameErrorKind says how the caller should react to a failed frame.
type FrameErrorKind int

const (
	// FrameLost: reconfigure at the last known size, retry on the next scheduled frame.
	FrameLost FrameErrorKind = iota + 1
	// FrameTransient: skip this frame.
	FrameTransient
	// FrameFatal: stop the render loop.
	FrameFatal
)

func (k FrameErrorKind) String() string {
	switch k {
	case FrameLost:
		return "lost"
	case FrameTransient:
		return "transient"
	case FrameFatal:
		return "fatal"
	}
	return fmt.Sprintf("FrameErrorKind(%d)", int(k))
}

var (
	ErrFrameLost      = errors.New("surface lost")
	ErrFrameTransient = errors.New("frame skipped")
	ErrFrameFatal     = errors.New("fatal frame error")
)

// FrameError is returned by FrameDriver.Render.
type FrameError struct {
	Kind   FrameErrorKind
	Status AcquireStatus
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%v (acquire status: %v)", e.sentinel(), e.Status)
}

func (e *FrameError) Is(target error) bool { return target == e.sentinel() }

func (e *FrameError) sentinel() error {
	switch e.Kind {
	case FrameLost:
		return ErrFrameLost
	case FrameTransient:
		return ErrFrameTransient
	}
	return ErrFrameFatal
}

// Classify maps an acquisition status to the error the frame loop acts on.
// It returns nil for AcquireSuccess.
func Classify(status AcquireStatus) error {
	switch status {
	case AcquireSuccess:
		return nil
	case AcquireLost:
		return &FrameError{Kind: FrameLost, Status: status}
	case AcquireOutdated, AcquireTimeout:
		return &FrameError{Kind: FrameTransient, Status: status}
	}
	return &FrameError{Kind: FrameFatal, Status: status}
}

// FrameErrorKindOf returns the kind of err, or 0 if err is not a *FrameError.
func FrameErrorKindOf(err error) FrameErrorKind {
	var fe *FrameError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
