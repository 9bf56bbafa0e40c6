// Package sqlite provides a SQLite-backed run store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/storage"
	"github.com/san-kum/attractors/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store keeps run metadata in a runs table and samples in a points table.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens the database at path. Migrations run in Init.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

func (s *Store) Init(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := applyMigrations(ctx, s.sqlDB, migrations.FS); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Save(ctx context.Context, tr *dynamo.Trajectory, meta storage.RunMetadata) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	if tr == nil {
		return "", fmt.Errorf("storage: nil trajectory")
	}

	generated := meta.ID == ""
	meta = meta.Complete(tr, s.now())
	base := meta.ID

	for i := 1; ; i++ {
		err := s.insertRun(ctx, tr, meta)
		if err == nil {
			break
		}
		if !generated || !isPrimaryKeyViolation(err) || i > 100 {
			return "", err
		}
		meta.ID = fmt.Sprintf("%s_%d", base, i)
	}

	slog.Debug("saved run", "id", meta.ID, "points", meta.Points, "store", "sqlite")
	return meta.ID, nil
}

func (s *Store) insertRun(ctx context.Context, tr *dynamo.Trajectory, meta storage.RunMetadata) error {
	params, err := json.Marshal(meta.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	metrics, err := json.Marshal(meta.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (id, system, created_at, method, t_max, dt, x0, y0, z0, params, points, diverged, elapsed_ns, metrics)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.System, meta.Timestamp.UnixNano(), meta.Method, meta.TMax, meta.Dt,
		meta.Initial[0], meta.Initial[1], meta.Initial[2],
		string(params), meta.Points, meta.Diverged, int64(meta.Elapsed), string(metrics),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO points (run_id, idx, t, x, y, z) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare points: %w", err)
	}
	defer stmt.Close()

	for i, st := range tr.States {
		if _, err := stmt.ExecContext(ctx, meta.ID, i, tr.Times[i], nullable(st[0]), nullable(st[1]), nullable(st[2])); err != nil {
			return fmt.Errorf("insert point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

const runColumns = `id, system, created_at, method, t_max, dt, x0, y0, z0, params, points, diverged, elapsed_ns, metrics`

func (s *Store) List(ctx context.Context) ([]storage.RunMetadata, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]storage.RunMetadata, 0)
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *Store) Load(ctx context.Context, id string) (*storage.RunMetadata, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	meta, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(ctx context.Context, id string) (*dynamo.Trajectory, error) {
	meta, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT t, x, y, z FROM points WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}
	defer rows.Close()

	tr := &dynamo.Trajectory{
		System: meta.System,
		Params: dynamo.Params(meta.Params).Clone(),
		Dt:     meta.Dt,
		Times:  make([]float64, 0, meta.Points),
		States: make([]dynamo.State, 0, meta.Points),
	}
	for rows.Next() {
		var (
			t       float64
			x, y, z sql.NullFloat64
		)
		if err := rows.Scan(&t, &x, &y, &z); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, dynamo.State{fromNull(x), fromNull(y), fromNull(z)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}
	return tr, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (storage.RunMetadata, error) {
	var (
		meta      storage.RunMetadata
		createdAt int64
		params    string
		elapsed   int64
		metrics   string
	)
	if err := row.Scan(
		&meta.ID, &meta.System, &createdAt, &meta.Method, &meta.TMax, &meta.Dt,
		&meta.Initial[0], &meta.Initial[1], &meta.Initial[2],
		&params, &meta.Points, &meta.Diverged, &elapsed, &metrics,
	); err != nil {
		return storage.RunMetadata{}, err
	}
	meta.Timestamp = time.Unix(0, createdAt).UTC()
	meta.Elapsed = time.Duration(elapsed)
	if err := json.Unmarshal([]byte(params), &meta.Params); err != nil {
		return storage.RunMetadata{}, fmt.Errorf("decode params for %s: %w", meta.ID, err)
	}
	if err := json.Unmarshal([]byte(metrics), &meta.Metrics); err != nil {
		return storage.RunMetadata{}, fmt.Errorf("decode metrics for %s: %w", meta.ID, err)
	}
	return meta, nil
}

// SQLite turns NaN into NULL on its own; doing it here keeps the mapping
// explicit in both directions.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
