package storage

import (
	"github.com/golang/geo/r2"

	"github.com/san-kum/driftmesh/internal/render"
)

// Recorder is a render.Observer that copies point positions of every
// Nth frame.
type Recorder struct {
	every  int64
	frames []Frame
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: int64(every)}
}

func (r *Recorder) OnFrame(info render.FrameInfo) {
	if info.Index%r.every != 0 {
		return
	}
	pts := make([]r2.Point, len(info.Points))
	for i, p := range info.Points {
		pts[i] = p.Pos
	}
	r.frames = append(r.frames, Frame{Index: info.Index, Clock: info.Clock, Points: pts})
}

func (r *Recorder) Every() int { return int(r.every) }

func (r *Recorder) Frames() []Frame { return r.frames }
