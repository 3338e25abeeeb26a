package drawpool

import (
	"image"
	"time"

	"github.com/gogpu/drawpool/pool"
)

// DefaultFrameBufferSize is the frame buffer size of the framed pools.
var DefaultFrameBufferSize = image.Pt(800, 600)

// Option configures a DrawPool during creation.
//
// Example:
//
//	dp := drawpool.New(
//	    drawpool.WithFrameBufferSize(image.Pt(800, 600)),
//	    drawpool.WithRefreshInterval(100*time.Millisecond),
//	)
type Option func(*options)

type options struct {
	pool     []pool.Option
	disabled []pool.Type
}

// WithFrameBufferSize sets the size of the frame buffers owned by the
// framed pools (map, light and foreground).
func WithFrameBufferSize(size image.Point) Option {
	return func(o *options) {
		o.pool = append(o.pool, pool.WithFrameBufferSize(size))
	}
}

// WithClock sets the clock driving the auto-update refresh of every pool.
func WithClock(c pool.Clock) Option {
	return func(o *options) {
		o.pool = append(o.pool, pool.WithClock(c))
	}
}

// WithRefreshInterval sets how long an auto-updating pool may go without
// being repainted.
func WithRefreshInterval(d time.Duration) Option {
	return func(o *options) {
		o.pool = append(o.pool, pool.WithRefreshInterval(d))
	}
}

// WithDisabled creates the listed pools disabled. Disabled pools accept
// adds but draw nothing.
func WithDisabled(types ...pool.Type) Option {
	return func(o *options) {
		o.disabled = append(o.disabled, types...)
	}
}
