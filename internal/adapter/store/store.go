package store

import (
	"github.com/ctessum/sparse"

	"github.com/nemo-coupling/orca-grids/internal/domain"
)

// GridSource is the interface for reading staggered-grid geometry from a
// model configuration dataset.
type GridSource interface {
	// Name returns the canonical configuration name (e.g. "eORCA1L75").
	Name() string

	// Shape returns the horizontal grid dimensions (ni, nj).
	Shape() (ni, nj int)

	// CenterLatitudes returns the (ni, nj) center-point latitudes of a subgrid.
	CenterLatitudes(sg domain.Subgrid) (*sparse.DenseArray, error)

	// CenterLongitudes returns the (ni, nj) center-point longitudes of a subgrid.
	CenterLongitudes(sg domain.Subgrid) (*sparse.DenseArray, error)

	// CornerLatitudes returns the (ni, nj, 4) corner latitudes of a subgrid.
	CornerLatitudes(sg domain.Subgrid) (*sparse.DenseArray, error)

	// CornerLongitudes returns the (ni, nj, 4) corner longitudes of a subgrid.
	CornerLongitudes(sg domain.Subgrid) (*sparse.DenseArray, error)

	// Areas returns the (ni, nj) cell areas of a subgrid.
	Areas(sg domain.Subgrid) (*sparse.DenseArray, error)

	// Mask returns the (ni, nj) land/sea mask of a subgrid (1 = land).
	Mask(sg domain.Subgrid) (*sparse.DenseArray, error)
}
