// Package store provides a SQLite-backed history of saved plan snapshots.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/planfile"
	"github.com/theirongolddev/goalfund/internal/projection"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout sorts lexically in the same order as time.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrSnapshotNotFound is returned when no snapshot matches an id or name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one saved plan without its document.
type Snapshot struct {
	ID          string
	Name        string
	CreatedAt   time.Time
	GoalCount   int
	SourceCount int
	Totals      model.Totals
}

// Store provides SQLite-backed snapshot storage.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the snapshot database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the snapshot database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the plan under name and returns the new snapshot's metadata.
// Names need not be unique; each save gets a fresh id.
func (s *Store) Save(ctx context.Context, name string, p model.Plan) (Snapshot, error) {
	doc, err := planfile.Marshal(p, planfile.FormatJSON)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encoding snapshot: %w", err)
	}

	proj := projection.Project(p)
	snap := Snapshot{
		ID:          uuid.NewString(),
		Name:        name,
		CreatedAt:   s.now().UTC(),
		GoalCount:   len(p.Goals),
		SourceCount: len(p.Sources),
		Totals:      proj.Totals,
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO snapshots
		(id, name, created_at, goal_count, source_count,
		 total_existing, total_lumpsum, total_sip, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Name, snap.CreatedAt.Format(timeLayout),
		snap.GoalCount, snap.SourceCount,
		snap.Totals.Existing, snap.Totals.Lumpsum, snap.Totals.SIP, doc,
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("inserting snapshot: %w", err)
	}
	return snap, nil
}

// List returns all snapshots, newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, goal_count, source_count,
		total_existing, total_lumpsum, total_sip
		FROM snapshots ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Load returns the plan stored under an id, or the newest snapshot with
// that name.
func (s *Store) Load(ctx context.Context, idOrName string) (model.Plan, Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at, goal_count, source_count,
		total_existing, total_lumpsum, total_sip, document
		FROM snapshots WHERE id = ? OR name = ?
		ORDER BY (id = ?) DESC, created_at DESC, rowid DESC LIMIT 1`,
		idOrName, idOrName, idOrName)

	var (
		snap    Snapshot
		created string
		doc     []byte
	)
	err := row.Scan(&snap.ID, &snap.Name, &created, &snap.GoalCount, &snap.SourceCount,
		&snap.Totals.Existing, &snap.Totals.Lumpsum, &snap.Totals.SIP, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Plan{}, Snapshot{}, fmt.Errorf("%q: %w", idOrName, ErrSnapshotNotFound)
	}
	if err != nil {
		return model.Plan{}, Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	if snap.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return model.Plan{}, Snapshot{}, fmt.Errorf("parsing snapshot time: %w", err)
	}

	p, err := planfile.Decode(bytes.NewReader(doc), planfile.FormatJSON)
	if err != nil {
		return model.Plan{}, Snapshot{}, fmt.Errorf("decoding snapshot %s: %w", snap.ID, err)
	}
	return p, snap, nil
}

// Delete removes the snapshot with the given id, or every snapshot with
// the given name. It returns the number of rows removed.
func (s *Store) Delete(ctx context.Context, idOrName string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ? OR name = ?", idOrName, idOrName)
	if err != nil {
		return 0, fmt.Errorf("deleting snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%q: %w", idOrName, ErrSnapshotNotFound)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (Snapshot, error) {
	var (
		snap    Snapshot
		created string
	)
	if err := sc.Scan(&snap.ID, &snap.Name, &created, &snap.GoalCount, &snap.SourceCount,
		&snap.Totals.Existing, &snap.Totals.Lumpsum, &snap.Totals.SIP); err != nil {
		return Snapshot{}, fmt.Errorf("scanning snapshot: %w", err)
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot time: %w", err)
	}
	snap.CreatedAt = t
	return snap, nil
}
