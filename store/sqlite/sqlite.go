/*
Package sqlite provides a SQLite-backed implementation of backlog.RunStore.

PURPOSE:
  Persists projection runs so saved reports survive a restart and can be
  listed and downloaded again from the API or the CLI.

KEY TABLES:
  runs:        One row per run: name, params, created_at
  run_records: The ledger of each run, one row per period (seq ordered)

NUMBERS:
  Decimal values are stored as TEXT in their exact string form. Reading a run
  back yields the same decimals that were saved, so regenerated reports are
  byte-identical to the originals.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block each other.

USAGE:
  store, err := sqlite.New("./data/backlog.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - backlog/store.go: Interface definition
  - backlog/store/memory.go: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/backlog-report/backlog"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements backlog.RunStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ backlog.RunStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start TEXT NOT NULL,
		backlog_start TEXT NOT NULL,
		process_per_day TEXT NOT NULL,
		new_per_day TEXT NOT NULL,
		workdays_per_month INTEGER NOT NULL,
		max_periods INTEGER NOT NULL DEFAULT 0,
		extra_per_day TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

	CREATE TABLE IF NOT EXISTS run_records (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		period TEXT NOT NULL,
		opening_backlog TEXT NOT NULL,
		new_items TEXT NOT NULL,
		processed_items TEXT NOT NULL,
		net_reduction TEXT NOT NULL,
		closing_backlog TEXT NOT NULL,
		workdays INTEGER NOT NULL,
		terminal INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, seq)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// databases created before extra_per_day was stored
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('runs') WHERE name = 'extra_per_day'`).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = s.db.Exec(`ALTER TABLE runs ADD COLUMN extra_per_day TEXT`)
	}
	return err
}

// =============================================================================
// RUN STORE
// =============================================================================

// SaveRun stores a run and its records in one transaction. An existing ID is
// replaced, records included.
func (s *Store) SaveRun(ctx context.Context, run backlog.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p := run.Params
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, start, backlog_start, process_per_day, new_per_day,
			workdays_per_month, max_periods, extra_per_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start = excluded.start,
			backlog_start = excluded.backlog_start,
			process_per_day = excluded.process_per_day,
			new_per_day = excluded.new_per_day,
			workdays_per_month = excluded.workdays_per_month,
			max_periods = excluded.max_periods,
			extra_per_day = excluded.extra_per_day,
			created_at = excluded.created_at
	`,
		run.ID, run.Name, p.Start().String(),
		p.BacklogStart.String(), p.ProcessPerDay.String(), p.NewPerDay.String(),
		p.WorkdaysPerMonth, p.MaxPeriods, nullDecimal(run.ExtraPerDay),
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM run_records WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clear records of run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_records (run_id, seq, period, opening_backlog, new_items, processed_items,
			net_reduction, closing_backlog, workdays, terminal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range run.Records {
		_, err := stmt.ExecContext(ctx,
			run.ID, i, r.Period.String(),
			r.OpeningBacklog.String(), r.NewItems.String(), r.ProcessedItems.String(),
			r.NetReduction.String(), r.ClosingBacklog.String(),
			r.Workdays, r.Terminal,
		)
		if err != nil {
			return fmt.Errorf("save record %s of run %s: %w", r.Period, run.ID, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run with its records.
func (s *Store) GetRun(ctx context.Context, id string) (*backlog.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, backlog.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT period, opening_backlog, new_items, processed_items, net_reduction,
			closing_backlog, workdays, terminal
		FROM run_records WHERE run_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	run.Records = []backlog.MonthlyRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("read records of run %s: %w", id, err)
		}
		run.Records = append(run.Records, r)
	}
	return &run, rows.Err()
}

// ListRuns returns runs newest first, without records.
func (s *Store) ListRuns(ctx context.Context) ([]backlog.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectRuns+" ORDER BY created_at DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []backlog.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run. Records go with it (ON DELETE CASCADE).
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return backlog.ErrRunNotFound
	}
	return nil
}

// =============================================================================
// SCANNING
// =============================================================================

const selectRuns = `
	SELECT id, name, start, backlog_start, process_per_day, new_per_day,
		workdays_per_month, max_periods, extra_per_day, created_at
	FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (backlog.Run, error) {
	var (
		run                       backlog.Run
		start, createdAt          string
		backlogStart, process, nw string
		extra                     sql.NullString
	)
	err := row.Scan(&run.ID, &run.Name, &start, &backlogStart, &process, &nw,
		&run.Params.WorkdaysPerMonth, &run.Params.MaxPeriods, &extra, &createdAt)
	if err != nil {
		return run, err
	}

	ym, err := backlog.ParseYearMonth(start)
	if err != nil {
		return run, fmt.Errorf("run %s: %w", run.ID, err)
	}
	run.Params.StartYear, run.Params.StartMonth = ym.Year, ym.Month

	decimals := []struct {
		src string
		dst *decimal.Decimal
	}{
		{backlogStart, &run.Params.BacklogStart},
		{process, &run.Params.ProcessPerDay},
		{nw, &run.Params.NewPerDay},
	}
	for _, d := range decimals {
		if *d.dst, err = decimal.NewFromString(d.src); err != nil {
			return run, fmt.Errorf("run %s: %w", run.ID, err)
		}
	}

	if extra.Valid {
		d, err := decimal.NewFromString(extra.String)
		if err != nil {
			return run, fmt.Errorf("run %s: extra_per_day: %w", run.ID, err)
		}
		run.ExtraPerDay = &d
	}

	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return run, fmt.Errorf("run %s: created_at: %w", run.ID, err)
	}
	return run, nil
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func scanRecord(row scanner) (backlog.MonthlyRecord, error) {
	var (
		r                                         backlog.MonthlyRecord
		period, opening, nw, processed, net, clos string
	)
	if err := row.Scan(&period, &opening, &nw, &processed, &net, &clos, &r.Workdays, &r.Terminal); err != nil {
		return r, err
	}

	var err error
	if r.Period, err = backlog.ParseYearMonth(period); err != nil {
		return r, err
	}
	fields := []struct {
		src string
		dst *decimal.Decimal
	}{
		{opening, &r.OpeningBacklog},
		{nw, &r.NewItems},
		{processed, &r.ProcessedItems},
		{net, &r.NetReduction},
		{clos, &r.ClosingBacklog},
	}
	for _, f := range fields {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return r, fmt.Errorf("period %s: %w", period, err)
		}
	}
	return r, nil
}
