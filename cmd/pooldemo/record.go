//go:build !nogpu

package main

import (
	"github.com/gogpu/drawpool"
	"github.com/gogpu/drawpool/gpu"
	"github.com/gogpu/drawpool/painter"
)

// gpuRecorder mirrors the screen draws onto a headless GPU painter to
// report vertex upload statistics.
type gpuRecorder struct {
	h *gpu.Headless
}

func newRecorder() (recorder, error) {
	h, err := gpu.NewHeadless()
	if err != nil {
		return nil, err
	}
	return &gpuRecorder{h: h}, nil
}

func (r *gpuRecorder) target() painter.Painter { return r.h }

func (r *gpuRecorder) beginFrame() { r.h.BeginFrame() }

func (r *gpuRecorder) close() {
	st := r.h.Stats()
	drawpool.Logger().Info("pooldemo: gpu uploads",
		"uploads", st.Uploads, "reuses", st.Reuses, "bytes", st.Bytes, "calls", len(r.h.Calls()))
	r.h.Close()
}
