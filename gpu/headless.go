//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
)

// ErrNoAdapter is returned when the noop backend offers no adapter.
var ErrNoAdapter = errors.New("gpu: no adapter available")

// Headless is a Painter on the noop HAL backend. It records calls and
// upload statistics without a window or a real GPU.
type Headless struct {
	*Painter
	destroy func()
}

// NewHeadless opens a noop device and returns a painter on it.
func NewHeadless() (*Headless, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	return &Headless{
		Painter: New(open.Device, open.Queue),
		destroy: func() {
			open.Device.Destroy()
			instance.Destroy()
		},
	}, nil
}

// Close releases the painter's buffers and the device.
func (h *Headless) Close() {
	h.Release()
	h.destroy()
}
