package metrics

import (
	"time"

	"github.com/san-kum/driftmesh/internal/render"
)

// FrameTime is the mean time spent per frame in milliseconds.
type FrameTime struct {
	name    string
	total   time.Duration
	samples int
}

func NewFrameTime() *FrameTime {
	return &FrameTime{name: "frame_ms"}
}

func (f *FrameTime) Name() string { return f.name }

func (f *FrameTime) Observe(info render.FrameInfo) {
	f.total += info.Total()
	f.samples++
}

func (f *FrameTime) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return float64(f.total) / float64(f.samples) / float64(time.Millisecond)
}

func (f *FrameTime) Reset() {
	f.total = 0
	f.samples = 0
}

// Health is the fraction of frames that finished without error.
type Health struct {
	name     string
	failures int
	samples  int
}

func NewHealth() *Health {
	return &Health{
		name: "health",
	}
}

func (h *Health) Name() string {
	return h.name
}

func (h *Health) Observe(info render.FrameInfo) {
	h.samples++
	if info.Err != nil {
		h.failures++
	}
}

func (h *Health) Value() float64 {
	if h.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(h.failures)/float64(h.samples)
}

func (h *Health) Reset() {
	h.failures = 0
	h.samples = 0
}
