package catalog

import (
	"context"

	"github.com/NarendraaP/Epistemic-Engine/internal/geometry"
)

// MemorySource is an in-memory PointSource. It mirrors SQLiteSource's
// semantics (inclusive bounds, baked-in provenance filter, padded
// global bounds) and backs the builder tests and small ad-hoc builds.
type MemorySource struct {
	points []Point
	filter *Provenance
	err    error // when set, every query fails with it
}

// NewMemorySource builds a source over the given points, assigning
// sequential ids starting at 1 to points whose ID is zero.
func NewMemorySource(points []Point, filter *Provenance) *MemorySource {
	owned := make([]Point, len(points))
	copy(owned, points)
	for i := range owned {
		if owned[i].ID == 0 {
			owned[i].ID = uint32(i + 1)
		}
	}
	return &MemorySource{points: owned, filter: filter}
}

// FailWith makes every subsequent query return err, simulating an
// unreachable store.
func (m *MemorySource) FailWith(err error) {
	m.err = err
}

func (m *MemorySource) visible(p Point) bool {
	return m.filter == nil || p.Provenance == *m.filter
}

// GlobalBounds mirrors SQLiteSource.GlobalBounds.
func (m *MemorySource) GlobalBounds(ctx context.Context) (geometry.Box, error) {
	if m.err != nil {
		return geometry.Box{}, m.err
	}
	first := true
	var box geometry.Box
	for _, p := range m.points {
		if !m.visible(p) {
			continue
		}
		pos := p.Position()
		if first {
			box = geometry.NewBox(pos, pos)
			first = false
			continue
		}
		for i := 0; i < 3; i++ {
			if pos[i] < box.Min[i] {
				box.Min[i] = pos[i]
			}
			if pos[i] > box.Max[i] {
				box.Max[i] = pos[i]
			}
		}
	}
	if first {
		return geometry.Box{}, ErrEmptyDataset
	}
	return box.Padded(GlobalBoundsPadding), nil
}

// PointsIn mirrors SQLiteSource.PointsIn.
func (m *MemorySource) PointsIn(ctx context.Context, box geometry.Box) ([]Point, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []Point
	for _, p := range m.points {
		if m.visible(p) && box.Contains(p.Position()) {
			out = append(out, p)
		}
	}
	return out, nil
}
