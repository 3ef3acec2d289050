// Package usecase assembles per-subgrid grid descriptions from a coordinate
// source.
package usecase

import (
	"fmt"

	"github.com/ctessum/sparse"

	"github.com/nemo-coupling/orca-grids/internal/adapter/store"
	"github.com/nemo-coupling/orca-grids/internal/domain"
)

// SubgridBundle is the complete geometric description of one staggered
// subgrid: everything a coupling or regridding layer needs to build cell
// polygons for conservative interpolation.
type SubgridBundle struct {
	Name      string             `json:"name"`
	Subgrid   domain.Subgrid     `json:"subgrid"`
	Shape     [2]int             `json:"shape"`
	CenterLat *sparse.DenseArray `json:"center_lat"`
	CenterLon *sparse.DenseArray `json:"center_lon"`
	CornerLat *sparse.DenseArray `json:"corner_lat"`
	CornerLon *sparse.DenseArray `json:"corner_lon"`
	Area      *sparse.DenseArray `json:"area"`
	Mask      *sparse.DenseArray `json:"mask"`
}

// Cell is the geometry of a single grid cell.
type Cell struct {
	I         int        `json:"i"`
	J         int        `json:"j"`
	CenterLat float64    `json:"center_lat"`
	CenterLon float64    `json:"center_lon"`
	CornerLat [4]float64 `json:"corner_lat"`
	CornerLon [4]float64 `json:"corner_lon"`
	Area      float64    `json:"area"`
	Masked    bool       `json:"masked"`
}

// BuildBundle constructs the view of one subgrid. Each call reads the
// source afresh; failures in any step propagate unchanged and never yield a
// partial bundle.
func BuildBundle(src store.GridSource, sg domain.Subgrid) (*SubgridBundle, error) {
	if err := sg.Validate(); err != nil {
		return nil, err
	}

	ni, nj := src.Shape()
	b := &SubgridBundle{
		Name:    src.Name(),
		Subgrid: sg,
		Shape:   [2]int{ni, nj},
	}

	var err error
	if b.CenterLat, err = src.CenterLatitudes(sg); err != nil {
		return nil, err
	}
	if b.CenterLon, err = src.CenterLongitudes(sg); err != nil {
		return nil, err
	}
	if b.CornerLat, err = src.CornerLatitudes(sg); err != nil {
		return nil, err
	}
	if b.CornerLon, err = src.CornerLongitudes(sg); err != nil {
		return nil, err
	}
	if b.Area, err = src.Areas(sg); err != nil {
		return nil, err
	}
	if b.Mask, err = src.Mask(sg); err != nil {
		return nil, err
	}
	return b, nil
}

// BuildAllBundles constructs the T, U and V views in canonical order.
func BuildAllBundles(src store.GridSource) ([]*SubgridBundle, error) {
	bundles := make([]*SubgridBundle, 0, 3)
	for _, sg := range domain.AllSubgrids() {
		b, err := BuildBundle(src, sg)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

// Cell extracts one cell's geometry from the bundle.
func (b *SubgridBundle) Cell(i, j int) (Cell, error) {
	ni, nj := b.Shape[0], b.Shape[1]
	if i < 0 || i >= ni || j < 0 || j >= nj {
		return Cell{}, fmt.Errorf("cell (%d, %d) outside grid shape (%d, %d)", i, j, ni, nj)
	}
	c := Cell{
		I:         i,
		J:         j,
		CenterLat: b.CenterLat.Get(i, j),
		CenterLon: b.CenterLon.Get(i, j),
		Area:      b.Area.Get(i, j),
		Masked:    b.Mask.Get(i, j) == domain.MaskLand,
	}
	for k := 0; k < 4; k++ {
		c.CornerLat[k] = b.CornerLat.Get(i, j, k)
		c.CornerLon[k] = b.CornerLon.Get(i, j, k)
	}
	return c, nil
}
