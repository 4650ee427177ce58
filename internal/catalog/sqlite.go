package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NarendraaP/Epistemic-Engine/internal/geometry"
	_ "modernc.org/sqlite"
)

// SQLiteSource is a PointSource backed by a SQLite star catalog (the
// `stars` table written by Writer). database/sql pools connections, so
// one SQLiteSource serves concurrent octant queries.
type SQLiteSource struct {
	db     *sql.DB
	filter *Provenance // nil = all provenance classes
}

// OpenSQLite opens a catalog database. If filter is non-nil, every
// query (bounds and range) is restricted to that provenance class.
func OpenSQLite(dbPath string, filter *Provenance) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceUnavailable, dbPath, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrSourceUnavailable, dbPath, err)
	}
	return &SQLiteSource{db: db, filter: filter}, nil
}

// Close releases the connection pool.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// GlobalBounds aggregates MIN/MAX per axis over the whole catalog and
// pads the result. SQLite returns NULL aggregates for an empty table,
// which surfaces here as ErrEmptyDataset.
func (s *SQLiteSource) GlobalBounds(ctx context.Context) (geometry.Box, error) {
	query := `SELECT MIN(x), MAX(x), MIN(y), MAX(y), MIN(z), MAX(z) FROM stars`
	var args []any
	if s.filter != nil {
		query += ` WHERE provenance = ?`
		args = append(args, int32(*s.filter))
	}

	var lo, hi [3]sql.NullFloat64
	row := s.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&lo[0], &hi[0], &lo[1], &hi[1], &lo[2], &hi[2]); err != nil {
		return geometry.Box{}, fmt.Errorf("%w: global bounds: %v", ErrSourceUnavailable, err)
	}
	if !lo[0].Valid {
		return geometry.Box{}, ErrEmptyDataset
	}

	box := geometry.NewBox(
		[3]float64{lo[0].Float64, lo[1].Float64, lo[2].Float64},
		[3]float64{hi[0].Float64, hi[1].Float64, hi[2].Float64},
	)
	return box.Padded(GlobalBoundsPadding), nil
}

// PointsIn runs a BETWEEN range query on all three axes. BETWEEN is
// inclusive on both ends, which is exactly the containment convention
// the builder expects.
func (s *SQLiteSource) PointsIn(ctx context.Context, box geometry.Box) ([]Point, error) {
	query := `
		SELECT id, x, y, z, magnitude, provenance FROM stars
		WHERE x BETWEEN ? AND ?
		  AND y BETWEEN ? AND ?
		  AND z BETWEEN ? AND ?`
	args := []any{
		box.Min[0], box.Max[0],
		box.Min[1], box.Max[1],
		box.Min[2], box.Max[2],
	}
	if s.filter != nil {
		query += ` AND provenance = ?`
		args = append(args, int32(*s.filter))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: range query: %v", ErrSourceUnavailable, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var points []Point
	for rows.Next() {
		var (
			id   int64
			p    Point
			code int32
		)
		if err := rows.Scan(&id, &p.X, &p.Y, &p.Z, &p.Magnitude, &code); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrSourceUnavailable, err)
		}
		p.ID = uint32(id)
		p.Provenance = Provenance(code)
		if !p.Provenance.Valid() {
			return nil, fmt.Errorf("catalog: row %d has invalid provenance code %d", id, code)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", ErrSourceUnavailable, err)
	}
	return points, nil
}
