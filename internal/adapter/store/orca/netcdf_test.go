package orca

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/nemo-coupling/orca-grids/internal/domain"
)

type planeFunc func(i, j int) float64

// defaultPlane gives every cell a value that encodes its position, so
// transposition mistakes show up immediately.
func defaultPlane(i, j int) float64 { return float64(i) + 1000*float64(j) }

// writeDomainCfg creates a minimal NEMO domain configuration file. planes
// overrides the value function for individual variables; omit drops
// variables entirely.
func writeDomainCfg(t *testing.T, path string, ni, nj, nk int, planes map[string]planeFunc, omit ...string) {
	t.Helper()

	f, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		t.Fatalf("create nc: %v", err)
	}
	defer func() { _ = f.Close() }()

	xDim, err := f.AddDim("x", uint64(ni))
	if err != nil {
		t.Fatalf("add dim x: %v", err)
	}
	yDim, err := f.AddDim("y", uint64(nj))
	if err != nil {
		t.Fatalf("add dim y: %v", err)
	}
	if nk > 0 {
		if _, err := f.AddDim("z", uint64(nk)); err != nil {
			t.Fatalf("add dim z: %v", err)
		}
	}

	omitted := make(map[string]bool)
	for _, name := range omit {
		omitted[name] = true
	}

	var varNames []string
	for _, fam := range []string{"t", "u", "v", "f"} {
		for _, prefix := range []string{"gphi", "glam", "e1", "e2"} {
			varNames = append(varNames, prefix+fam)
		}
	}
	varNames = append(varNames, "top_level")

	vars := make(map[string]netcdf.Var)
	for _, name := range varNames {
		if omitted[name] {
			continue
		}
		v, err := f.AddVar(name, netcdf.FLOAT, []netcdf.Dim{yDim, xDim})
		if err != nil {
			t.Fatalf("add var %s: %v", name, err)
		}
		vars[name] = v
	}

	if err := f.EndDef(); err != nil {
		t.Fatalf("enddef: %v", err)
	}

	for name, v := range vars {
		fn := planes[name]
		if fn == nil {
			fn = defaultPlane
		}
		buf := make([]float32, ni*nj)
		for j := 0; j < nj; j++ {
			for i := 0; i < ni; i++ {
				buf[j*ni+i] = float32(fn(i, j))
			}
		}
		if err := v.WriteFloat32s(buf); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// writeMasksFile creates a mask utility file with the three usable-fraction
// fields.
func writeMasksFile(t *testing.T, path string, ni, nj int, planes map[string]planeFunc) {
	t.Helper()

	f, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		t.Fatalf("create nc: %v", err)
	}
	defer func() { _ = f.Close() }()

	xDim, _ := f.AddDim("x", uint64(ni))
	yDim, _ := f.AddDim("y", uint64(nj))

	vars := make(map[string]netcdf.Var)
	for _, name := range []string{"tmaskutil", "umaskutil", "vmaskutil"} {
		v, err := f.AddVar(name, netcdf.FLOAT, []netcdf.Dim{yDim, xDim})
		if err != nil {
			t.Fatalf("add var %s: %v", name, err)
		}
		vars[name] = v
	}
	if err := f.EndDef(); err != nil {
		t.Fatalf("enddef: %v", err)
	}

	for name, v := range vars {
		fn := planes[name]
		if fn == nil {
			fn = func(i, j int) float64 { return 1 }
		}
		buf := make([]float32, ni*nj)
		for j := 0; j < nj; j++ {
			for i := 0; i < ni; i++ {
				buf[j*ni+i] = float32(fn(i, j))
			}
		}
		if err := v.WriteFloat32s(buf); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// Dimensions of the smaller registered configuration, used by all fixtures.
const (
	testNi = 360
	testNj = 331
	testNk = 75
)

func TestNewStore_RecognizedGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domain_cfg.nc")
	writeDomainCfg(t, path, testNi, testNj, testNk, nil)

	s, err := NewStore(path, "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if got, want := s.Name(), "eORCA1L75"; got != want {
		t.Errorf("Name: got %q, want %q", got, want)
	}
	ni, nj := s.Shape()
	if ni != testNi || nj != testNj {
		t.Errorf("Shape: got (%d, %d), want (%d, %d)", ni, nj, testNi, testNj)
	}
	if got := s.Levels(); got != testNk {
		t.Errorf("Levels: got %d, want %d", got, testNk)
	}
	if got := s.Size(); got != testNi*testNj {
		t.Errorf("Size: got %d, want %d", got, testNi*testNj)
	}
}

func TestNewStore_UnknownDimsFailsClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domain_cfg.nc")
	writeDomainCfg(t, path, 10, 10, 5, nil)

	s, err := NewStore(path, "")
	var cfg *domain.ConfigurationError
	if !errors.As(err, &cfg) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if s != nil {
		t.Error("expected no store on configuration error")
	}
}

func TestNewStore_MissingDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domain_cfg.nc")
	// nk = 0 omits the z dimension.
	writeDomainCfg(t, path, testNi, testNj, 0, nil)

	_, err := NewStore(path, "")
	var cfg *domain.ConfigurationError
	if !errors.As(err, &cfg) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestNewStore_MissingVariable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domain_cfg.nc")
	writeDomainCfg(t, path, testNi, testNj, testNk, nil, "e2f")

	_, err := NewStore(path, "")
	var cfg *domain.ConfigurationError
	if !errors.As(err, &cfg) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestNewStore_MasksMissingVariable(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "domain_cfg.nc")
	writeDomainCfg(t, cfgPath, testNi, testNj, testNk, nil)

	// A domain config stands in for a masks file without maskutil fields.
	masksPath := filepath.Join(dir, "masks.nc")
	writeDomainCfg(t, masksPath, testNi, testNj, testNk, nil)

	_, err := NewStore(cfgPath, masksPath)
	var cfg *domain.ConfigurationError
	if !errors.As(err, &cfg) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestCenterCoordinates_Transposed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domain_cfg.nc")
	writeDomainCfg(t, path, testNi, testNj, testNk, map[string]planeFunc{
		"gphiu": func(i, j int) float64 { return float64(j) },
		"glamu": func(i, j int) float64 { return float64(i) },
	})

	s, err := NewStore(path, "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	lat, err := s.CenterLatitudes(domain.SubgridU)
	if err != nil {
		t.Fatalf("CenterLatitudes: %v", err)
	}
	lon, err := s.CenterLongitudes(domain.SubgridU)
	if err != nil {
		t.Fatalf("CenterLongitudes: %v", err)
	}

	if lat.Shape[0] != testNi || lat.Shape[1] != testNj {
		t.Fatalf("latitude shape %v, want [%d %d]", lat.Shape, testNi, testNj)
	}
	for _, cell := range [][2]int{{0, 0}, {5, 7}, {testNi - 1, testNj - 1}} {
		i, j := cell[0], cell[1]
		if got := lat.Get(i, j); got != float64(j) {
			t.Errorf("latitude at (%d,%d): got %v, want %v", i, j, got, float64(j))
		}
		if got := lon.Get(i, j); got != float64(i) {
			t.Errorf("longitude at (%d,%d): got %v, want %v", i, j, got, float64(i))
		}
	}
}

func TestAreas_ScaleFactorProduct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domain_cfg.nc")
	writeDomainCfg(t, path, testNi, testNj, testNk, map[string]planeFunc{
		"e1t": func(i, j int) float64 { return 2 },
		"e2t": func(i, j int) float64 { return 3 },
	})

	s, err := NewStore(path, "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	area, err := s.Areas(domain.SubgridT)
	if err != nil {
		t.Fatalf("Areas: %v", err)
	}
	for idx, v := range area.Elements {
		if v != 6 {
			t.Fatalf("area element %d: got %v, want 6", idx, v)
		}
	}
}

func TestCorners_UseCornerFamily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domain_cfg.nc")
	writeDomainCfg(t, path, testNi, testNj, testNk, map[string]planeFunc{
		"gphif": func(i, j int) float64 { return float64(2*i) + float64(j)/8 },
	})

	s, err := NewStore(path, "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	corners, err := s.CornerLatitudes(domain.SubgridT)
	if err != nil {
		t.Fatalf("CornerLatitudes: %v", err)
	}
	if len(corners.Shape) != 3 || corners.Shape[2] != 4 {
		t.Fatalf("corner shape %v, want (ni, nj, 4)", corners.Shape)
	}
	// T corner 0 is the F value at the same cell (float32 round trip).
	for _, cell := range [][2]int{{0, 0}, {3, 2}, {testNi - 1, testNj - 1}} {
		i, j := cell[0], cell[1]
		want := float64(float32(float64(2*i) + float64(j)/8))
		if got := corners.Get(i, j, 0); got != want {
			t.Errorf("corner 0 at (%d,%d): got %v, want %v", i, j, got, want)
		}
	}
}

func TestMask_DerivedFromTopLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domain_cfg.nc")
	writeDomainCfg(t, path, testNi, testNj, testNk, map[string]planeFunc{
		"top_level": func(i, j int) float64 {
			if i == 4 && j == 5 {
				return 0 // one land column
			}
			return 1
		},
	})

	s, err := NewStore(path, "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	tmask, err := s.Mask(domain.SubgridT)
	if err != nil {
		t.Fatalf("Mask(t): %v", err)
	}
	if got := tmask.Get(4, 5); got != domain.MaskLand {
		t.Errorf("tmask at (4,5): got %v, want land", got)
	}
	if got := tmask.Get(4, 4); got != domain.MaskSea {
		t.Errorf("tmask at (4,4): got %v, want sea", got)
	}

	// A single land T point never masks a face point.
	umask, err := s.Mask(domain.SubgridU)
	if err != nil {
		t.Fatalf("Mask(u): %v", err)
	}
	for _, cell := range [][2]int{{3, 5}, {4, 5}} {
		if got := umask.Get(cell[0], cell[1]); got != domain.MaskSea {
			t.Errorf("umask at (%d,%d): got %v, want sea", cell[0], cell[1], got)
		}
	}
}

func TestMask_FromUtilFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "domain_cfg.nc")
	writeDomainCfg(t, cfgPath, testNi, testNj, testNk, nil)

	masksPath := filepath.Join(dir, "masks.nc")
	writeMasksFile(t, masksPath, testNi, testNj, map[string]planeFunc{
		"umaskutil": func(i, j int) float64 {
			if i == 0 && j == 0 {
				return 0
			}
			return 0.5
		},
	})

	s, err := NewStore(cfgPath, masksPath)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	umask, err := s.Mask(domain.SubgridU)
	if err != nil {
		t.Fatalf("Mask(u): %v", err)
	}
	if got := umask.Get(0, 0); got != domain.MaskLand {
		t.Errorf("umask at (0,0): got %v, want land", got)
	}
	if got := umask.Get(1, 0); got != domain.MaskSea {
		t.Errorf("umask at (1,0): got %v, want sea", got)
	}
}

func TestStore_InvalidSubgrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domain_cfg.nc")
	writeDomainCfg(t, path, testNi, testNj, testNk, nil)

	s, err := NewStore(path, "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	_, err = s.Mask(domain.Subgrid("f"))
	var invalid *domain.InvalidSubgridError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSubgridError, got %v", err)
	}
}
