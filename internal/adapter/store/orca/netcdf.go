// Package orca reads NEMO ORCA grid geometry from domain configuration
// NetCDF files.
package orca

import (
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/fhs/go-netcdf/netcdf"

	"github.com/nemo-coupling/orca-grids/internal/domain"
)

// Variable naming in a NEMO domain configuration: each geometric quantity
// exists once per point family, suffixed with the family tag (gphit, gphiu,
// glamf, e1v, ...). See the NEMO book, section "Space Domain (DOM)".
const (
	latPrefix    = "gphi"
	lonPrefix    = "glam"
	scaleIPrefix = "e1"
	scaleJPrefix = "e2"
	topLevelVar  = "top_level"
)

var pointFamilies = []string{"t", "u", "v", "f"}

// maskUtilVars are the usable-fraction fields of a NEMO mask utility file.
var maskUtilVars = []string{"tmaskutil", "umaskutil", "vmaskutil"}

// Store provides read-only access to a NEMO domain configuration and an
// optional mask utility dataset. Files are opened and closed per read; the
// Store itself holds no handles, so concurrent use is safe.
type Store struct {
	domainCfg string
	masks     string // empty when no mask file is configured
	name      string
	ni, nj    int
	nk        int
}

// NewStore validates the domain configuration (and mask file, if given) and
// resolves the grid name from the dimension triple. Structural problems
// surface as domain.ConfigurationError.
func NewStore(domainCfg, masks string) (*Store, error) {
	s := &Store{domainCfg: domainCfg, masks: masks}

	nc, err := netcdf.OpenFile(domainCfg, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NEMO domain config: %w", err)
	}
	defer func() { _ = nc.Close() }()

	for _, d := range []struct {
		name string
		dst  *int
	}{{"x", &s.ni}, {"y", &s.nj}, {"z", &s.nk}} {
		n, err := dimLen(nc, d.name)
		if err != nil {
			return nil, &domain.ConfigurationError{
				Path:   domainCfg,
				Reason: fmt.Sprintf("missing dimension %q in NEMO domain config", d.name),
			}
		}
		*d.dst = n
	}

	s.name, err = domain.GridName(s.ni, s.nj, s.nk)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domainCfg, err)
	}

	var missing []string
	for _, fam := range pointFamilies {
		for _, prefix := range []string{latPrefix, lonPrefix, scaleIPrefix, scaleJPrefix} {
			name := prefix + fam
			if _, err := nc.Var(name); err != nil {
				missing = append(missing, name)
			}
		}
	}
	if _, err := nc.Var(topLevelVar); err != nil {
		missing = append(missing, topLevelVar)
	}
	if len(missing) > 0 {
		return nil, &domain.ConfigurationError{
			Path:   domainCfg,
			Reason: fmt.Sprintf("missing variables in NEMO domain config: %v", missing),
		}
	}

	if masks != "" {
		if err := checkMaskFile(masks); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func checkMaskFile(masks string) error {
	nc, err := netcdf.OpenFile(masks, netcdf.NOWRITE)
	if err != nil {
		return fmt.Errorf("failed to open NEMO masks file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	var missing []string
	for _, name := range maskUtilVars {
		if _, err := nc.Var(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &domain.ConfigurationError{
			Path:   masks,
			Reason: fmt.Sprintf("missing variables in NEMO masks file: %v", missing),
		}
	}
	return nil
}

// Name returns the canonical configuration name.
func (s *Store) Name() string { return s.name }

// Shape returns the horizontal grid dimensions (ni, nj).
func (s *Store) Shape() (ni, nj int) { return s.ni, s.nj }

// Levels returns the number of vertical levels.
func (s *Store) Levels() int { return s.nk }

// Size returns the number of horizontal cells.
func (s *Store) Size() int { return s.ni * s.nj }

// CenterLatitudes returns the center-point latitudes of a subgrid.
func (s *Store) CenterLatitudes(sg domain.Subgrid) (*sparse.DenseArray, error) {
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	return s.readPlane(s.domainCfg, latPrefix+string(sg))
}

// CenterLongitudes returns the center-point longitudes of a subgrid.
func (s *Store) CenterLongitudes(sg domain.Subgrid) (*sparse.DenseArray, error) {
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	return s.readPlane(s.domainCfg, lonPrefix+string(sg))
}

// CornerLatitudes synthesizes the 4-corner latitudes of a subgrid from the
// center latitudes of its corner family.
func (s *Store) CornerLatitudes(sg domain.Subgrid) (*sparse.DenseArray, error) {
	fam, err := domain.CornerFamily(sg)
	if err != nil {
		return nil, err
	}
	src, err := s.readPlane(s.domainCfg, latPrefix+string(fam))
	if err != nil {
		return nil, err
	}
	return domain.SynthesizeCorners(sg, domain.Latitude, src)
}

// CornerLongitudes synthesizes the 4-corner longitudes of a subgrid from
// the center longitudes of its corner family.
func (s *Store) CornerLongitudes(sg domain.Subgrid) (*sparse.DenseArray, error) {
	fam, err := domain.CornerFamily(sg)
	if err != nil {
		return nil, err
	}
	src, err := s.readPlane(s.domainCfg, lonPrefix+string(fam))
	if err != nil {
		return nil, err
	}
	return domain.SynthesizeCorners(sg, domain.Longitude, src)
}

// Areas returns cell areas as the elementwise product of the two scale
// factors of the subgrid. The product is derived on every call, not stored.
func (s *Store) Areas(sg domain.Subgrid) (*sparse.DenseArray, error) {
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	e1, err := s.readPlane(s.domainCfg, scaleIPrefix+string(sg))
	if err != nil {
		return nil, err
	}
	e2, err := s.readPlane(s.domainCfg, scaleJPrefix+string(sg))
	if err != nil {
		return nil, err
	}
	area := sparse.ZerosDense(e1.Shape...)
	for i := range area.Elements {
		area.Elements[i] = e1.Elements[i] * e2.Elements[i]
	}
	return area, nil
}

// Mask returns the land/sea mask of a subgrid. With a mask utility file the
// subgrid's usable-fraction field is thresholded directly; otherwise the
// mask is derived from top_level.
func (s *Store) Mask(sg domain.Subgrid) (*sparse.DenseArray, error) {
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	if s.masks != "" {
		frac, err := s.readPlane(s.masks, string(sg)+"maskutil")
		if err != nil {
			return nil, err
		}
		return domain.MaskFromFraction(frac), nil
	}
	topLevel, err := s.readPlane(s.domainCfg, topLevelVar)
	if err != nil {
		return nil, err
	}
	return domain.DeriveMask(sg, domain.MaskFromTopLevel(topLevel))
}

// readPlane reads one horizontal plane of a variable at time index 0 and
// transposes it so axis 0 is x (i) and axis 1 is y (j). The variable may be
// laid out as (y, x) or carry leading length-1 record dimensions.
func (s *Store) readPlane(path, varName string) (*sparse.DenseArray, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file %s: %w", path, err)
	}
	defer func() { _ = nc.Close() }()

	v, err := nc.Var(varName)
	if err != nil {
		return nil, &domain.ConfigurationError{
			Path:   path,
			Reason: fmt.Sprintf("missing variable %q", varName),
		}
	}

	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions of %s: %w", varName, err)
	}
	if len(dims) < 2 {
		return nil, fmt.Errorf("variable %s: expected at least 2 dimensions, got %d", varName, len(dims))
	}

	total := 1
	for _, d := range dims {
		n, err := d.Len()
		if err != nil {
			return nil, fmt.Errorf("failed to get dimension length of %s: %w", varName, err)
		}
		total *= int(n)
	}

	nx, err := dims[len(dims)-1].Len()
	if err != nil {
		return nil, err
	}
	ny, err := dims[len(dims)-2].Len()
	if err != nil {
		return nil, err
	}
	if int(nx) != s.ni || int(ny) != s.nj {
		return nil, fmt.Errorf("variable %s: plane is [%d, %d], expected [%d, %d]",
			varName, ny, nx, s.nj, s.ni)
	}

	flat, err := readFlatFloat64s(v, total)
	if err != nil {
		return nil, fmt.Errorf("failed to read variable %s: %w", varName, err)
	}

	// Time index 0 is the first ni*nj block of the row-major layout.
	plane := sparse.ZerosDense(s.ni, s.nj)
	for j := 0; j < s.nj; j++ {
		for i := 0; i < s.ni; i++ {
			plane.Set(flat[j*s.ni+i], i, j)
		}
	}
	return plane, nil
}

// readFlatFloat64s reads a whole variable as float64, converting from the
// on-disk type.
func readFlatFloat64s(v netcdf.Var, total int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}
	switch t {
	case netcdf.DOUBLE:
		data := make([]float64, total)
		if err := v.ReadFloat64s(data); err != nil {
			return nil, err
		}
		return data, nil
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, total)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, total)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, total)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}
}

// dimLen looks up a named dimension's length.
func dimLen(nc netcdf.Dataset, name string) (int, error) {
	d, err := nc.Dim(name)
	if err != nil {
		return 0, err
	}
	n, err := d.Len()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
