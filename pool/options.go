package pool

import (
	"image"
	"time"

	"github.com/gogpu/drawpool/framebuffer"
)

// DefaultRefreshInterval is how often an auto-updating pool reports a
// modification even when its content hash did not change.
const DefaultRefreshInterval = 50 * time.Millisecond

// Clock tells the time. Tests substitute a fake clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Option configures a pool created with Create.
type Option func(*options)

type options struct {
	frameBuffer     *framebuffer.FrameBuffer
	frameBufferSize image.Point
	clock           Clock
	refreshInterval time.Duration
}

func defaultOptions() options {
	return options{
		clock:           SystemClock(),
		refreshInterval: DefaultRefreshInterval,
	}
}

// WithFrameBuffer makes a framed pool paint into fb instead of a frame
// buffer of its own. Ignored for types that are not framed.
func WithFrameBuffer(fb *framebuffer.FrameBuffer) Option {
	return func(o *options) {
		o.frameBuffer = fb
	}
}

// WithFrameBufferSize sets the initial size of the frame buffer a framed
// pool allocates.
func WithFrameBufferSize(size image.Point) Option {
	return func(o *options) {
		o.frameBufferSize = size
	}
}

// WithClock sets the clock that drives the auto-update refresh.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithRefreshInterval sets how long an auto-updating pool may go without
// reporting a modification.
func WithRefreshInterval(d time.Duration) Option {
	return func(o *options) {
		o.refreshInterval = d
	}
}
