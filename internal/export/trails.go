package export

import (
	"github.com/golang/geo/r2"

	"github.com/san-kum/driftmesh/internal/mesh"
)

// SampleTrails steps f frames times and returns the path of every drifting
// point. Anchors never move and are left out.
func SampleTrails(f *mesh.Field, frames int) [][]r2.Point {
	n := len(f.Drifting())
	trails := make([][]r2.Point, n)
	for i := range trails {
		trails[i] = make([]r2.Point, 0, frames)
	}
	for k := 0; k < frames; k++ {
		f.Step()
		for i, p := range f.Drifting() {
			trails[i] = append(trails[i], p.Pos)
		}
	}
	return trails
}
