package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NarendraaP/Epistemic-Engine/internal/geometry"
)

func createTestCatalog(t *testing.T, points []Point) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	w, err := NewWriter(dbPath)
	require.NoError(t, err)
	for _, p := range points {
		require.NoError(t, w.Add(p))
	}
	require.EqualValues(t, len(points), w.Count())
	require.NoError(t, w.Close())
	return dbPath
}

func TestSQLiteGlobalBounds(t *testing.T) {
	dbPath := createTestCatalog(t, []Point{
		{X: -10, Y: 0, Z: 5, Magnitude: 1, Provenance: Observed},
		{X: 10, Y: 20, Z: 10, Magnitude: 2, Provenance: Observed},
	})
	source, err := OpenSQLite(dbPath, nil)
	require.NoError(t, err)
	defer func() { _ = source.Close() }()

	bounds, err := source.GlobalBounds(context.Background())
	require.NoError(t, err)
	// Raw extent padded by 10% on each side of every axis.
	assert.Equal(t, geometry.NewBox([3]float64{-12, -2, 4.5}, [3]float64{12, 22, 10.5}), bounds)
}

func TestSQLiteGlobalBoundsEmpty(t *testing.T) {
	dbPath := createTestCatalog(t, nil)
	source, err := OpenSQLite(dbPath, nil)
	require.NoError(t, err)
	defer func() { _ = source.Close() }()

	_, err = source.GlobalBounds(context.Background())
	require.ErrorIs(t, err, ErrEmptyDataset)
}

func TestSQLitePointsIn(t *testing.T) {
	dbPath := createTestCatalog(t, []Point{
		{X: 0, Y: 0, Z: 0, Magnitude: 1, Provenance: Observed},
		{X: 1, Y: 1, Z: 1, Magnitude: 2, Provenance: Inferred},
		{X: 5, Y: 5, Z: 5, Magnitude: 3, Provenance: Simulated},
	})
	source, err := OpenSQLite(dbPath, nil)
	require.NoError(t, err)
	defer func() { _ = source.Close() }()
	ctx := context.Background()

	t.Run("boundary points are included", func(t *testing.T) {
		// Both box corners sit exactly on points: inclusive on both
		// ends, matching BETWEEN and the octant face convention.
		points, err := source.PointsIn(ctx, geometry.NewBox([3]float64{0, 0, 0}, [3]float64{1, 1, 1}))
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.NotZero(t, points[0].ID)
		assert.Equal(t, Observed, points[0].Provenance)
		assert.Equal(t, Inferred, points[1].Provenance)
	})

	t.Run("outside volume excluded", func(t *testing.T) {
		points, err := source.PointsIn(ctx, geometry.NewBox([3]float64{2, 2, 2}, [3]float64{4, 4, 4}))
		require.NoError(t, err)
		assert.Empty(t, points)
	})
}

func TestSQLiteProvenanceFilter(t *testing.T) {
	// The filter is baked into every query, bounds included, not
	// applied after the fact.
	dbPath := createTestCatalog(t, []Point{
		{X: -100, Y: 0, Z: 0, Magnitude: 1, Provenance: Simulated},
		{X: 1, Y: 1, Z: 1, Magnitude: 2, Provenance: Observed},
		{X: 2, Y: 2, Z: 2, Magnitude: 3, Provenance: Observed},
	})
	filter := Observed
	source, err := OpenSQLite(dbPath, &filter)
	require.NoError(t, err)
	defer func() { _ = source.Close() }()
	ctx := context.Background()

	bounds, err := source.GlobalBounds(ctx)
	require.NoError(t, err)
	assert.Greater(t, bounds.Min[0], -100.0, "simulated outlier must not stretch the bounds")

	points, err := source.PointsIn(ctx, geometry.NewBox([3]float64{-200, -200, -200}, [3]float64{200, 200, 200}))
	require.NoError(t, err)
	require.Len(t, points, 2)
	for _, p := range points {
		assert.Equal(t, Observed, p.Provenance)
	}
}

func TestSQLiteFilteredToEmpty(t *testing.T) {
	dbPath := createTestCatalog(t, []Point{
		{X: 1, Y: 1, Z: 1, Magnitude: 2, Provenance: Observed},
	})
	filter := Inferred
	source, err := OpenSQLite(dbPath, &filter)
	require.NoError(t, err)
	defer func() { _ = source.Close() }()

	_, err = source.GlobalBounds(context.Background())
	require.ErrorIs(t, err, ErrEmptyDataset)
}

func TestWriterRejectsInvalidProvenance(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	w, err := NewWriter(dbPath)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	err = w.Add(Point{X: 1, Provenance: Provenance(5)})
	require.Error(t, err)
	assert.EqualValues(t, 0, w.Count())
}
