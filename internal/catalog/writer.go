package catalog

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

const starSchema = `
CREATE TABLE IF NOT EXISTS stars (
	id INTEGER PRIMARY KEY,
	x REAL NOT NULL,
	y REAL NOT NULL,
	z REAL NOT NULL,
	magnitude REAL NOT NULL,
	provenance INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stars_xyz ON stars(x, y, z);
`

// Writer bulk-loads stars into a SQLite catalog. Inserts are batched
// inside a transaction that is recycled every batchSize rows, with the
// usual bulk-load PRAGMAs; a million-star Gaia subset loads in seconds.
type Writer struct {
	db        *sql.DB
	tx        *sql.Tx
	stmt      *sql.Stmt
	batchSize int
	count     int64
	mu        sync.Mutex
}

// NewWriter opens (or creates) the catalog database and initializes
// the stars schema.
func NewWriter(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Bulk-insert tuning. The catalog is rebuilt from scratch on
	// ingest, so durability during the load does not matter.
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec(starSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &Writer{db: db, batchSize: 10000}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return err
	}
	w.stmt, err = w.tx.Prepare(
		`INSERT INTO stars (x, y, z, magnitude, provenance) VALUES (?, ?, ?, ?, ?)`)
	return err
}

func (w *Writer) commitTx() error {
	if w.stmt != nil {
		_ = w.stmt.Close()
	}
	return w.tx.Commit()
}

// Add inserts one star. Points with an invalid provenance are rejected
// before they reach the database.
func (w *Writer) Add(p Point) error {
	if !p.Provenance.Valid() {
		return fmt.Errorf("catalog: refusing to insert invalid provenance %d", int32(p.Provenance))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.stmt.Exec(p.X, p.Y, p.Z, p.Magnitude, int32(p.Provenance)); err != nil {
		return fmt.Errorf("insert star: %w", err)
	}
	w.count++
	if w.count%int64(w.batchSize) == 0 {
		if err := w.commitTx(); err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		if err := w.beginTx(); err != nil {
			return fmt.Errorf("begin batch: %w", err)
		}
	}
	return nil
}

// Count returns the number of stars added through this writer.
func (w *Writer) Count() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close commits the trailing batch and closes the database.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tx != nil {
		if err := w.commitTx(); err != nil {
			_ = w.db.Close()
			return fmt.Errorf("commit final batch: %w", err)
		}
		w.tx = nil
	}
	return w.db.Close()
}
