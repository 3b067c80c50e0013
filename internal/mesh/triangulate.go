package mesh

import (
	"math"

	"github.com/fogleman/delaunay"
	"github.com/pkg/errors"
)

// triangulate wraps delaunay.Triangulate. Non-finite coordinates and inputs
// without a single triangle are reported as ErrDegenerate.
func triangulate(pts []delaunay.Point) ([]Triangle, error) {
	if len(pts) < 3 {
		return nil, errors.Wrapf(ErrDegenerate, "%d points", len(pts))
	}
	for i, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, errors.Wrapf(ErrDegenerate, "point %d at (%v, %v)", i, p.X, p.Y)
		}
	}

	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, errors.Wrap(ErrDegenerate, err.Error())
	}
	if len(tri.Triangles) == 0 {
		return nil, errors.Wrapf(ErrDegenerate, "no triangles for %d points", len(pts))
	}

	out := make([]Triangle, 0, len(tri.Triangles)/3)
	for i := 0; i < len(tri.Triangles); i += 3 {
		out = append(out, Triangle{tri.Triangles[i], tri.Triangles[i+1], tri.Triangles[i+2]})
	}
	return out, nil
}
