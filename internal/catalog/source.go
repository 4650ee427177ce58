package catalog

import (
	"context"
	"errors"

	"github.com/NarendraaP/Epistemic-Engine/internal/geometry"
)

// GlobalBoundsPadding is the fraction of each axis extent added on
// both sides of the global bounding box, so edge stars are never
// clipped by the root volume.
const GlobalBoundsPadding = 0.10

var (
	// ErrSourceUnavailable means the backing store could not be
	// reached or a query failed in transit. The builder never retries;
	// the whole build aborts.
	ErrSourceUnavailable = errors.New("catalog: point source unavailable")

	// ErrEmptyDataset means the source holds no points (under the
	// active provenance filter). Not fatal: the builder produces a
	// single empty root node.
	ErrEmptyDataset = errors.New("catalog: no points in source")
)

// PointSource answers the two queries the octree builder needs. If a
// provenance filter is configured it applies to both queries; filtering
// is part of the query, never a post-pass. Implementations must be safe
// for concurrent use, since sibling octants are queried in parallel.
type PointSource interface {
	// GlobalBounds returns the smallest box containing every point,
	// expanded by GlobalBoundsPadding per axis. Returns
	// ErrEmptyDataset when there are no points and ErrSourceUnavailable
	// when the store cannot answer.
	GlobalBounds(ctx context.Context) (geometry.Box, error)

	// PointsIn returns every point whose position lies inside the box,
	// inclusive on both bounds of every axis. A point exactly on a
	// shared octant face may therefore be returned for more than one
	// sibling; parent and child queries are independent passes, not a
	// partition.
	PointsIn(ctx context.Context, box geometry.Box) ([]Point, error)
}
