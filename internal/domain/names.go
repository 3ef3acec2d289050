package domain

import "fmt"

// GridDims is the (ni, nj, nk) dimension triple of a NEMO domain
// configuration. The triple alone identifies the grid: no two supported
// configurations share dimensions.
type GridDims struct {
	Ni, Nj, Nk int
}

// orcaNames maps dimension triples to canonical ORCA configuration names.
// Supporting a new configuration means adding a row here; the synthesis
// code is dimension-agnostic.
var orcaNames = map[GridDims]string{
	{362, 292, 75}: "ORCA1L75",
	{360, 331, 75}: "eORCA1L75",
}

// GridName resolves a dimension triple to its canonical configuration name.
// An unrecognized triple is a configuration error, never a silent default.
func GridName(ni, nj, nk int) (string, error) {
	name, ok := orcaNames[GridDims{ni, nj, nk}]
	if !ok {
		return "", &ConfigurationError{
			Reason: fmt.Sprintf("unknown dimensions (%d, %d, %d) in NEMO domain config", ni, nj, nk),
		}
	}
	return name, nil
}

// SupportedGrids returns the registered triple-to-name mapping.
func SupportedGrids() map[GridDims]string {
	grids := make(map[GridDims]string, len(orcaNames))
	for dims, name := range orcaNames {
		grids[dims] = name
	}
	return grids
}
