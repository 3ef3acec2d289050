// Package domain implements the staggered-grid geometry of NEMO ORCA
// tripolar ocean grids: reconstruction of cell corner coordinates from
// Arakawa C-grid center points, and derivation of land/sea masks for the
// three staggered subgrids.
package domain

import "fmt"

// Subgrid identifies one of the three staggered point families of an
// Arakawa C-grid: T = cell center, U = east-west cell face, V = north-south
// cell face.
type Subgrid string

const (
	SubgridT Subgrid = "t"
	SubgridU Subgrid = "u"
	SubgridV Subgrid = "v"
)

// AllSubgrids returns the three subgrids in canonical order.
func AllSubgrids() []Subgrid {
	return []Subgrid{SubgridT, SubgridU, SubgridV}
}

// Validate returns an InvalidSubgridError if sg is not one of t, u, v.
func (sg Subgrid) Validate() error {
	switch sg {
	case SubgridT, SubgridU, SubgridV:
		return nil
	}
	return &InvalidSubgridError{Subgrid: string(sg)}
}

// ParseSubgrid converts a tag such as "t" into a Subgrid.
func ParseSubgrid(tag string) (Subgrid, error) {
	sg := Subgrid(tag)
	if err := sg.Validate(); err != nil {
		return "", err
	}
	return sg, nil
}

// InvalidSubgridError reports a subgrid tag outside {t, u, v}. It indicates
// a programming error at the call site and is never retried.
type InvalidSubgridError struct {
	Subgrid string
}

func (e *InvalidSubgridError) Error() string {
	return fmt.Sprintf(`invalid ORCA subgrid: %q`, e.Subgrid)
}

// ConfigurationError reports a structurally incompatible input dataset:
// missing dimensions or variables, or a dimension triple that does not match
// any known ORCA configuration.
type ConfigurationError struct {
	Path   string // Dataset path, if known.
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}
