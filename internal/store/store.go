package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
	"github.com/OpenTraceLab/OpenTraceFX/internal/metrics"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned when no snapshot matches.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one saved version of a project.
type Snapshot struct {
	ID        int64
	Project   string
	Label     string
	CreatedAt time.Time
	Size      int
	// Data is the serialized document; History leaves it empty.
	Data []byte
}

// ProjectInfo summarizes the snapshots of one project.
type ProjectInfo struct {
	Name      string
	Snapshots int
	Updated   time.Time
}

// Store is a snapshot database. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	// busy_timeout helps prevent "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Debug("snapshot store opened at %s", path)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		size INTEGER NOT NULL,
		data BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_project ON snapshots(project, id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// recordQuery records store query metrics
func recordQuery(operation string, start time.Time, err error) {
	metrics.StoreQueryTotal.WithLabelValues(operation, metrics.Status(err)).Inc()
	metrics.StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SaveDocument appends a serialized document as a new snapshot and
// returns its ID.
func (s *Store) SaveDocument(ctx context.Context, project, label string, data []byte) (id int64, err error) {
	if project == "" {
		return 0, errors.New("project name is required")
	}
	start := time.Now()
	defer func() { recordQuery("save", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (project, label, created_at, size, data) VALUES (?, ?, ?, ?, ?)`,
		project, label, time.Now().Unix(), len(data), data)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	metrics.StoreSnapshotBytes.Observe(float64(len(data)))
	return res.LastInsertId()
}

// Save serializes ed and stores it.
func (s *Store) Save(ctx context.Context, project, label string, ed *timeline.Editor) (int64, error) {
	data, err := ed.Serialize()
	if err != nil {
		return 0, fmt.Errorf("serialize project: %w", err)
	}
	return s.SaveDocument(ctx, project, label, data)
}

func scanSnapshot(row interface{ Scan(...any) error }, withData bool) (*Snapshot, error) {
	var snap Snapshot
	var created int64
	dest := []any{&snap.ID, &snap.Project, &snap.Label, &created, &snap.Size}
	if withData {
		dest = append(dest, &snap.Data)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	snap.CreatedAt = time.Unix(created, 0)
	return &snap, nil
}

// Get returns a snapshot with its data.
func (s *Store) Get(ctx context.Context, id int64) (snap *Snapshot, err error) {
	start := time.Now()
	defer func() { recordQuery("get", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, project, label, created_at, size, data FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(row, true)
}

// Latest returns the newest snapshot of a project.
func (s *Store) Latest(ctx context.Context, project string) (snap *Snapshot, err error) {
	start := time.Now()
	defer func() { recordQuery("latest", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, project, label, created_at, size, data FROM snapshots
		 WHERE project = ? ORDER BY id DESC LIMIT 1`, project)
	return scanSnapshot(row, true)
}

// Load replaces ed's state with a snapshot. id 0 loads the latest snapshot
// of project.
func (s *Store) Load(ctx context.Context, project string, id int64, ed *timeline.Editor) (*Snapshot, error) {
	var (
		snap *Snapshot
		err  error
	)
	if id > 0 {
		snap, err = s.Get(ctx, id)
	} else {
		snap, err = s.Latest(ctx, project)
	}
	if err != nil {
		return nil, err
	}
	if err := ed.Deserialize(snap.Data); err != nil {
		return nil, fmt.Errorf("snapshot %d: %w", snap.ID, err)
	}
	return snap, nil
}

// History lists a project's snapshots newest first, without data. limit
// <= 0 means all.
func (s *Store) History(ctx context.Context, project string, limit int) (out []Snapshot, err error) {
	start := time.Now()
	defer func() { recordQuery("history", start, err) }()

	if limit <= 0 {
		limit = -1
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project, label, created_at, size FROM snapshots
		 WHERE project = ? ORDER BY id DESC LIMIT ?`, project, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		snap, err := scanSnapshot(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

// Projects lists every project with its snapshot count, most recently
// updated first.
func (s *Store) Projects(ctx context.Context) (out []ProjectInfo, err error) {
	start := time.Now()
	defer func() { recordQuery("projects", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT project, COUNT(*), MAX(created_at), MAX(id) AS last FROM snapshots
		 GROUP BY project ORDER BY last DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			info    ProjectInfo
			updated int64
			last    int64
		)
		if err := rows.Scan(&info.Name, &info.Snapshots, &updated, &last); err != nil {
			return nil, err
		}
		info.Updated = time.Unix(updated, 0)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep snapshots of a project and returns
// how many were removed.
func (s *Store) Prune(ctx context.Context, project string, keep int) (n int64, err error) {
	start := time.Now()
	defer func() { recordQuery("prune", start, err) }()

	if keep < 0 {
		keep = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE project = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE project = ? ORDER BY id DESC LIMIT ?
		)`, project, project, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}
