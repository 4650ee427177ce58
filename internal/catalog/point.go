// Package catalog models the star catalog and the stores that answer
// the octree builder's two questions: "what is the bounding box of
// everything" and "which points fall inside this box".
package catalog

import "fmt"

// Provenance is the closed set of epistemic labels a point can carry.
// The numeric values are the on-disk codes of the binary node format
// and must never be renumbered.
type Provenance int32

const (
	Observed  Provenance = 0 // directly measured (e.g. Gaia astrometry)
	Inferred  Provenance = 1 // derived from a model fit to observations
	Simulated Provenance = 2 // purely synthetic
)

// Valid reports whether p is one of the three defined labels.
func (p Provenance) Valid() bool {
	return p == Observed || p == Inferred || p == Simulated
}

func (p Provenance) String() string {
	switch p {
	case Observed:
		return "OBSERVED"
	case Inferred:
		return "INFERRED"
	case Simulated:
		return "SIMULATED"
	default:
		return fmt.Sprintf("Provenance(%d)", int32(p))
	}
}

// ParseProvenance maps a catalog label to its Provenance. The mapping
// is total over the three legal labels; anything else is an error, not
// a default.
func ParseProvenance(label string) (Provenance, error) {
	switch label {
	case "OBSERVED":
		return Observed, nil
	case "INFERRED":
		return Inferred, nil
	case "SIMULATED":
		return Simulated, nil
	default:
		return 0, fmt.Errorf("catalog: unknown provenance label %q", label)
	}
}

// Point is one star as the builder sees it: a position in meters, an
// apparent magnitude (lower is brighter) and a provenance label. ID is
// the source row id; the builder uses it only to count distinct points
// across overlapping sibling queries. Points are immutable once
// returned from a source.
type Point struct {
	ID         uint32
	X, Y, Z    float64
	Magnitude  float32
	Provenance Provenance
}

// Position returns the point's coordinates as an array, for geometry
// containment checks.
func (p Point) Position() [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}
