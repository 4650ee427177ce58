package octree

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/RoaringBitmap/roaring"
	billy "github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/NarendraaP/Epistemic-Engine/internal/catalog"
	"github.com/NarendraaP/Epistemic-Engine/internal/geometry"
)

// ErrInvalidConfig marks a builder configuration rejected before any
// I/O happens.
var ErrInvalidConfig = errors.New("octree: invalid configuration")

// Config is the split/LOD policy for one build. Builds with different
// policies can run side by side; nothing here is global state.
type Config struct {
	// MaxPointsPerNode is the split threshold: a node splits when it
	// holds strictly more points than this and is above the depth cap.
	MaxPointsPerNode int

	// MaxDepth is the deepest level at which a node may still split.
	// Nodes at MaxDepth are always leaves.
	MaxDepth int

	// LODFraction is the fraction of a split node's points retained in
	// its own file, brightest first. Must be in (0, 1].
	LODFraction float64

	// Workers bounds how many nodes are queried/sorted/written at
	// once. 1 reproduces the strictly sequential reference behavior;
	// the output is identical either way.
	Workers int
}

// DefaultConfig returns the catalog exporter's standard policy.
func DefaultConfig() Config {
	return Config{
		MaxPointsPerNode: 50000,
		MaxDepth:         5,
		LODFraction:      0.10,
		Workers:          runtime.NumCPU(),
	}
}

// Validate rejects unusable policies. Called before any query or file
// write.
func (c Config) Validate() error {
	if c.MaxPointsPerNode <= 0 {
		return fmt.Errorf("%w: max points per node must be > 0, got %d", ErrInvalidConfig, c.MaxPointsPerNode)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must be >= 0, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.LODFraction <= 0 || c.LODFraction > 1 {
		return fmt.Errorf("%w: LOD fraction must be in (0,1], got %g", ErrInvalidConfig, c.LODFraction)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Stats summarizes a completed build. UniquePoints counts distinct
// catalog rows appearing in at least one file; it differs from
// PointsWritten because parents repeat their brightest points and a
// star sitting exactly on a shared octant face is exported by every
// adjacent sibling.
type Stats struct {
	Nodes           int64 `json:"nodes"`
	PointsWritten   int64 `json:"points_written"`
	UniquePoints    int64 `json:"unique_points"`
	MaxDepthReached int   `json:"max_depth_reached"`
}

// Builder writes the octree for one point source into one output
// filesystem. Each instance carries its own Config, so concurrent
// builds never interfere.
type Builder struct {
	cfg    Config
	source catalog.PointSource
	out    billy.Filesystem
	sem    *semaphore.Weighted
}

// NewBuilder validates cfg and prepares a builder that emits node
// files into the root of out.
func NewBuilder(cfg Config, source catalog.PointSource, out billy.Filesystem) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		cfg:    cfg,
		source: source,
		out:    out,
		sem:    semaphore.NewWeighted(int64(cfg.Workers)),
	}, nil
}

// Build runs the full export. An empty dataset is not an error: the
// root file is written with a zero count and the build reports one
// node. Any query or write failure aborts the whole build; files
// already published stay on disk and the returned error names the node
// that failed.
func (b *Builder) Build(ctx context.Context) (Stats, error) {
	bounds, err := b.source.GlobalBounds(ctx)
	switch {
	case errors.Is(err, catalog.ErrEmptyDataset):
		bounds = geometry.Box{}
	case err != nil:
		return Stats{}, fmt.Errorf("global bounds: %w", err)
	}

	res, err := b.buildNode(ctx, 0, nil, bounds)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Nodes:           res.nodes,
		PointsWritten:   res.points,
		UniquePoints:    int64(res.seen.GetCardinality()),
		MaxDepthReached: res.maxDepth,
	}, nil
}

// nodeResult is one subtree's contribution to the build totals.
// Accumulation is by return value (parents sum their children), so
// the 8-way fan-out needs no shared counters.
type nodeResult struct {
	nodes    int64
	points   int64
	maxDepth int
	seen     *roaring.Bitmap
}

func (b *Builder) shouldSplit(pointCount, depth int) bool {
	return pointCount > b.cfg.MaxPointsPerNode && depth < b.cfg.MaxDepth
}

func (b *Builder) buildNode(ctx context.Context, depth int, path []int, bounds geometry.Box) (nodeResult, error) {
	// One semaphore slot covers the expensive span of a node: range
	// query, LOD sort and file write. The slot is released before the
	// children fan out, so recursion can never deadlock on the pool.
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return nodeResult{}, b.nodeFailure(depth, path, err)
	}
	res, split, err := b.emitNode(ctx, depth, path, bounds)
	b.sem.Release(1)
	if err != nil {
		return nodeResult{}, err
	}
	if !split {
		return res, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	var children [8]nodeResult
	for i := 0; i < 8; i++ {
		i := i
		childPath := make([]int, 0, depth+1)
		childPath = append(append(childPath, path...), i)
		childBounds := bounds.Octant(i)
		g.Go(func() error {
			var err error
			children[i], err = b.buildNode(ctx, depth+1, childPath, childBounds)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nodeResult{}, err
	}

	for _, c := range children {
		res.nodes += c.nodes
		res.points += c.points
		if c.maxDepth > res.maxDepth {
			res.maxDepth = c.maxDepth
		}
		res.seen.Or(c.seen)
	}
	return res, nil
}

// emitNode queries one node's volume, decides split vs leaf, and
// writes the node's file. The file is complete on disk before the
// caller recurses into children.
func (b *Builder) emitNode(ctx context.Context, depth int, path []int, bounds geometry.Box) (nodeResult, bool, error) {
	points, err := b.source.PointsIn(ctx, bounds)
	if err != nil {
		return nodeResult{}, false, b.nodeFailure(depth, path, err)
	}

	split := b.shouldSplit(len(points), depth)
	out := points
	if split {
		out = lodSubset(points, b.cfg.LODFraction)
	}

	if err := b.writeNode(NodeName(depth, path), out); err != nil {
		return nodeResult{}, false, b.nodeFailure(depth, path, err)
	}

	seen := roaring.New()
	for _, p := range out {
		seen.Add(p.ID)
	}
	return nodeResult{nodes: 1, points: int64(len(out)), maxDepth: depth, seen: seen}, split, nil
}

// lodSubset returns the brightest max(1, floor(n*fraction)) points.
// Magnitudes sort ascending (lower is brighter); the sort is stable so
// ties keep catalog order, though only the retained count is
// contractual.
func lodSubset(points []catalog.Point, fraction float64) []catalog.Point {
	sorted := make([]catalog.Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Magnitude < sorted[j].Magnitude
	})

	keep := int(float64(len(sorted)) * fraction)
	if keep < 1 {
		keep = 1
	}
	return sorted[:keep]
}

// writeNode encodes to a temp file in the output filesystem and
// renames it into place, so a crash mid-build never publishes a
// truncated node.
func (b *Builder) writeNode(name string, points []catalog.Point) error {
	f, err := b.out.TempFile("", name+".tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	if err := Encode(f, points); err != nil {
		_ = f.Close()
		_ = b.out.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = b.out.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := b.out.Rename(tmp, name); err != nil {
		_ = b.out.Remove(tmp)
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}

func (b *Builder) nodeFailure(depth int, path []int, err error) error {
	return fmt.Errorf("octree: node %s (depth %d, path %v): %w", NodeName(depth, path), depth, path, err)
}
