package domain

import "github.com/ctessum/sparse"

// Mask values: 1 = masked/land, 0 = valid/sea. The direction is a contract
// shared with the coupling layer, not a convention.
const (
	MaskSea  = 0.0
	MaskLand = 1.0
)

// MaskFromFraction thresholds a usable-fraction field (tmaskutil and
// friends): any positive usable fraction means the cell is valid.
func MaskFromFraction(frac *sparse.DenseArray) *sparse.DenseArray {
	mask := sparse.ZerosDense(frac.Shape...)
	for i, v := range frac.Elements {
		if v > 0 {
			mask.Elements[i] = MaskSea
		} else {
			mask.Elements[i] = MaskLand
		}
	}
	return mask
}

// MaskFromTopLevel derives the T-point mask from NEMO's top_level field:
// a top level of 0 marks an inactive (land) column.
func MaskFromTopLevel(topLevel *sparse.DenseArray) *sparse.DenseArray {
	mask := sparse.ZerosDense(topLevel.Shape...)
	for i, v := range topLevel.Elements {
		if v == 0 {
			mask.Elements[i] = MaskLand
		} else {
			mask.Elements[i] = MaskSea
		}
	}
	return mask
}

// DeriveMask propagates the T-point mask to the requested subgrid. A face
// point is land only if both flanking T points are land, so the derived
// masks are elementwise products of tmask with a shifted copy of itself:
// shifted one cell in i with zonal wraparound for U, one cell in j with the
// last row clamped for V. The wrap-vs-clamp asymmetry is deliberate: mask
// validity at the tripolar seam conservatively repeats the last row rather
// than applying the geometric fold used for coordinates.
func DeriveMask(sg Subgrid, tmask *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	ni, nj := tmask.Shape[0], tmask.Shape[1]
	mask := sparse.ZerosDense(ni, nj)
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			v := tmask.Get(i, j)
			switch sg {
			case SubgridU:
				v *= tmask.Get(wrap(i+1, ni), j)
			case SubgridV:
				v *= tmask.Get(i, min(j+1, nj-1))
			}
			mask.Set(v, i, j)
		}
	}
	return mask, nil
}
