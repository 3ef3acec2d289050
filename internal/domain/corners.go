package domain

import "github.com/ctessum/sparse"

// MissingValue marks corner entries that no rule has written. It must never
// survive synthesis for a valid (shape, subgrid) pair.
const MissingValue = 1e20

// Coord selects which coordinate a corner array holds. Latitude and
// longitude share the interior and periodic machinery but differ at the
// degenerate southern rows, where longitude is treated as locally constant
// instead of linearly varying.
type Coord int

const (
	Latitude Coord = iota
	Longitude
)

// On a C-grid the corners of one point family are the centers of another:
// T corners are F points, U corners are V points, V corners are U points.
// Corner numbering, identical for all subgrids:
//
//	j
//	^   1 ------- 0
//	|   |         |
//	|   |         |
//	|   2 ------- 3
//	+-----------> i
//
// Each corner k of cell (i, j) is the source-family value at
// (i+di, j+dj) for a per-subgrid offset (di, dj). The i axis is periodic;
// stepping off the j axis triggers the corner's edge rule.

// edgeRule resolves a corner whose (j + dj) falls outside the grid.
type edgeRule int

const (
	// edgeNone: the offset cannot leave the j range; hitting this rule
	// leaves the sentinel in place.
	edgeNone edgeRule = iota
	// edgeLinear continues the gradient between rows 1 and 2 one step
	// further south: 2*v[iw,1] - v[iw,2].
	edgeLinear
	// edgeRowOne copies row 1: v[iw,1].
	edgeRowOne
	// edgeRowZero copies row 0: v[iw,0]. Used only for the U subgrid's
	// corner 3 longitude, where the original assigns the already-computed
	// j=1 corner; kept distinct from edgeRowOne on purpose.
	edgeRowZero
	// edgeFold applies the tripolar F-pivot fold: the row beyond the
	// northern seam is the seam row itself read in reverse i order,
	// v[(ni-2-i-di) mod ni, nj-1].
	edgeFold
)

// cornerRule gives one corner's source offset and its out-of-range rules
// for each coordinate. At most one j boundary is reachable per corner, so a
// single rule pair suffices.
type cornerRule struct {
	di, dj   int
	lat, lon edgeRule
}

// stencil is the full corner recipe for one subgrid.
type stencil struct {
	family  Subgrid // point family whose centers are this subgrid's corners
	corners [4]cornerRule
}

var stencils = map[Subgrid]stencil{
	SubgridT: {family: "f", corners: [4]cornerRule{
		{0, 0, edgeNone, edgeNone},
		{-1, 0, edgeNone, edgeNone},
		{-1, -1, edgeLinear, edgeRowOne},
		{0, -1, edgeLinear, edgeRowOne},
	}},
	SubgridU: {family: SubgridV, corners: [4]cornerRule{
		{1, 0, edgeNone, edgeNone},
		{0, 0, edgeNone, edgeNone},
		{0, -1, edgeLinear, edgeRowOne},
		{1, -1, edgeLinear, edgeRowZero},
	}},
	// The V subgrid sits on the tripolar fold: its missing northern
	// neighbor row folds back onto the seam row instead of extrapolating.
	SubgridV: {family: SubgridU, corners: [4]cornerRule{
		{0, 1, edgeFold, edgeFold},
		{-1, 1, edgeFold, edgeFold},
		{-1, 0, edgeNone, edgeNone},
		{0, 0, edgeNone, edgeNone},
	}},
}

// CornerFamily returns the point family whose center coordinates provide
// the corners of sg (e.g. T cells take their corners from F points).
func CornerFamily(sg Subgrid) (Subgrid, error) {
	if err := sg.Validate(); err != nil {
		return "", err
	}
	return stencils[sg].family, nil
}

// SynthesizeCorners builds the (ni, nj, 4) corner array for one subgrid
// from the center array of its corner family. centers must have shape
// (ni, nj) with nj >= 3. The function is pure and total: every output entry
// is written for a valid subgrid.
func SynthesizeCorners(sg Subgrid, coord Coord, centers *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	ni, nj := centers.Shape[0], centers.Shape[1]
	corners := sparse.ZerosDense(ni, nj, 4)

	for k, rule := range stencils[sg].corners {
		edge := rule.lat
		if coord == Longitude {
			edge = rule.lon
		}
		for i := 0; i < ni; i++ {
			iw := wrap(i+rule.di, ni)
			for j := 0; j < nj; j++ {
				var v float64
				switch jj := j + rule.dj; {
				case jj >= 0 && jj < nj:
					v = centers.Get(iw, jj)
				case edge == edgeLinear:
					v = 2*centers.Get(iw, 1) - centers.Get(iw, 2)
				case edge == edgeRowOne:
					v = centers.Get(iw, 1)
				case edge == edgeRowZero:
					v = centers.Get(iw, 0)
				case edge == edgeFold:
					v = centers.Get(wrap(ni-2-i-rule.di, ni), nj-1)
				default:
					v = MissingValue
				}
				corners.Set(v, i, j, k)
			}
		}
	}
	return corners, nil
}

// wrap maps i into [0, n) with zonal periodicity.
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
