package netperf

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store keeps generated reports in a SQLite catalog so earlier runs can be
// listed and reprinted.
type Store struct {
	db *sql.DB
}

// ReportSummary is a lightweight row for listing
type ReportSummary struct {
	RunID      string    `json:"run_id"`
	ResultPath string    `json:"result_path"`
	ReportCSV  string    `json:"report_csv"`
	Rows       int       `json:"rows"`
	Hostname   string    `json:"hostname"`
	CreatedAt  time.Time `json:"created_at"`
}

// StoredReport is a report loaded back from the catalog
type StoredReport struct {
	ReportSummary
	Records [][]string `json:"records"`
}

// NewRunID returns a fresh report run id
func NewRunID() string {
	return uuid.NewString()
}

// DefaultCatalogPath is ~/.config/virtperf/reports.db
func DefaultCatalogPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "virtperf", "reports.db")
}

// OpenStore opens (or creates) the report catalog at dbPath. An empty dbPath
// uses DefaultCatalogPath.
func OpenStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultCatalogPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS netperf_reports (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      TEXT    NOT NULL UNIQUE,
		result_path TEXT    NOT NULL,
		report_csv  TEXT    NOT NULL,
		row_count   INTEGER NOT NULL,
		hostname    TEXT,
		created_at  DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS netperf_rows (
		run_id     TEXT    NOT NULL,
		idx        INTEGER NOT NULL,
		driver     TEXT,
		test       TEXT,
		msize      TEXT,
		rrsize     TEXT,
		round_no   TEXT,
		throughput TEXT,
		transrate  TEXT,
		latency    TEXT,
		PRIMARY KEY (run_id, idx)
	);
	CREATE INDEX IF NOT EXISTS idx_netperf_created ON netperf_reports(created_at DESC);
	`)
	return err
}

// Save stores table under runID
func (s *Store) Save(ctx context.Context, runID, resultPath, reportCSV string, t *Table) error {
	hostname, _ := os.Hostname()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO netperf_reports (run_id, result_path, report_csv, row_count, hostname, created_at)
		VALUES (?,?,?,?,?,?)`,
		runID, resultPath, reportCSV, t.Len(), hostname, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO netperf_rows (run_id, idx, driver, test, msize, rrsize, round_no, throughput, transrate, latency)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare rows: %w", err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := []interface{}{runID, row.Index}
		for _, cell := range row.Cells {
			args = append(args, cell.String())
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", row.Index, err)
		}
	}

	return tx.Commit()
}

// ListRecent returns the most recent reports, newest first
func (s *Store) ListRecent(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, result_path, report_csv, row_count, hostname, created_at
		FROM netperf_reports
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ReportSummary
	for rows.Next() {
		var r ReportSummary
		var hostname sql.NullString
		if err := rows.Scan(&r.RunID, &r.ResultPath, &r.ReportCSV, &r.Rows, &hostname, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Hostname = hostname.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetReport loads one stored report. sql.ErrNoRows is returned for an
// unknown run id.
func (s *Store) GetReport(ctx context.Context, runID string) (*StoredReport, error) {
	var r StoredReport
	var hostname sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, result_path, report_csv, row_count, hostname, created_at
		FROM netperf_reports WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.ResultPath, &r.ReportCSV, &r.Rows, &hostname, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Hostname = hostname.String

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, driver, test, msize, rrsize, round_no, throughput, transrate, latency
		FROM netperf_rows WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	r.Records = append(r.Records, append([]string{""}, Columns...))
	for rows.Next() {
		var idx int
		cells := make([]string, len(Columns))
		dest := []interface{}{&idx}
		for i := range cells {
			dest = append(dest, &cells[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		r.Records = append(r.Records, append([]string{fmt.Sprintf("%d", idx)}, cells...))
	}
	return &r, rows.Err()
}

// WriteCSV writes the stored report in the same layout as Table.WriteCSV
func (r *StoredReport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(r.Records); err != nil {
		return err
	}
	return cw.Error()
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
