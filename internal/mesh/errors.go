package mesh

import "errors"

var (
	// ErrInvalidParams indicates a simulation parameter outside its valid range.
	ErrInvalidParams = errors.New("mesh: invalid parameters")

	// ErrDegenerate indicates the current positions admit no triangulation,
	// e.g. every point collinear or coincident.
	ErrDegenerate = errors.New("mesh: degenerate point set")
)
