package mesh

import (
	"math"

	"github.com/golang/geo/r2"
)

// repelStride scales the repel strength into a pixel push at d = 0.
const repelStride = 2.0

// Drift returns the Lissajous position of p at clock t, before any pointer
// influence. Anchors stay at their origin.
func Drift(p Point, t float64, params Params) r2.Point {
	if p.Anchor {
		return p.Origin
	}
	return r2.Point{
		X: p.Origin.X + math.Sin(t*p.Speed+p.Phase)*params.DriftRadius,
		Y: p.Origin.Y + math.Cos(t*p.Speed*params.YRate+p.Phase+params.YPhase)*params.DriftRadius,
	}
}

// Influence returns the displacement the pointer applies to a point at pos.
//
// Within the influence radius the point is pulled toward the pointer by
// gain·d·(1 − d/influence). Within the repel radius a push of
// (1 − d/repel)·strength·2 away from the pointer is added, which is zero at
// the repel boundary so the displacement is continuous in d. A point exactly
// on the pointer has no defined direction and is left alone.
//
// The attraction keeps acting inside the repel radius. Switching it off
// there, so that repulsion replaces attraction, would make the
// displacement jump by gain·repel·(1 − repel/influence) at the boundary.
func Influence(pos, pointer r2.Point, params Params) r2.Point {
	delta := pointer.Sub(pos)
	d := delta.Norm()
	if d >= params.InfluenceRadius || d == 0 || math.IsNaN(d) {
		return r2.Point{}
	}

	pull := params.AttractGain * (1 - d/params.InfluenceRadius)
	out := delta.Mul(pull)

	if d < params.RepelRadius {
		push := (1 - d/params.RepelRadius) * params.RepelStrength * repelStride
		out = out.Sub(delta.Mul(push / d))
	}
	return out
}
