package metrics

import (
	"github.com/san-kum/driftmesh/internal/render"
)

// MaxDrift is the largest distance of any drifting point from its origin.
// Anchors are skipped.
type MaxDrift struct {
	name string
	max  float64
}

func NewMaxDrift() *MaxDrift {
	return &MaxDrift{name: "max_drift"}
}

func (d *MaxDrift) Name() string { return d.name }

func (d *MaxDrift) Observe(info render.FrameInfo) {
	for _, p := range info.Points {
		if p.Anchor {
			continue
		}
		if disp := p.Displacement(); disp > d.max {
			d.max = disp
		}
	}
}

func (d *MaxDrift) Value() float64 { return d.max }

func (d *MaxDrift) Reset() { d.max = 0 }
