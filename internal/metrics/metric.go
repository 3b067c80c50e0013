// Package metrics computes per-frame statistics of the mesh.
package metrics

import (
	"github.com/san-kum/driftmesh/internal/render"
)

// Metric accumulates one statistic over observed frames.
type Metric interface {
	Name() string
	Observe(info render.FrameInfo)
	Value() float64
	Reset()
}

// Set fans frames out to a group of metrics. It is a render.Observer.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set { return &Set{metrics: ms} }

// Standard returns the metrics reported by bench and record.
func Standard() *Set {
	return NewSet(NewTriangleCount(), NewMinAngle(), NewMaxDrift(), NewFrameTime(), NewHealth())
}

func (s *Set) OnFrame(info render.FrameInfo) {
	for _, m := range s.metrics {
		m.Observe(info)
	}
}

func (s *Set) Metrics() []Metric { return s.metrics }

// Values returns the current value of every metric keyed by name.
func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}
