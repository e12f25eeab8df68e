package state

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	started_at    TEXT NOT NULL,
	finished_at   TEXT,
	population    INTEGER NOT NULL,
	epsilon       REAL NOT NULL,
	duration_s    REAL NOT NULL,
	strategies    TEXT NOT NULL,
	sweep_sizes   TEXT NOT NULL,
	output_dir    TEXT NOT NULL,
	environment   TEXT NOT NULL,
	status        TEXT NOT NULL,
	gate_ok       INTEGER,
	gate_findings TEXT
);

CREATE TABLE IF NOT EXISTS series (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	strategy      TEXT NOT NULL,
	metric        TEXT NOT NULL,
	seq           INTEGER NOT NULL,
	idx           INTEGER NOT NULL,
	n             INTEGER NOT NULL,
	value         REAL NOT NULL,
	draw          REAL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE INDEX IF NOT EXISTS idx_series_run ON series(run_id, seq, idx);

CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	detail     TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
`
// #endregion schema

// #region store-struct
// Store manages run history and swept series in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("pragma busy: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already opened database. The caller is
// responsible for pragmas and schema.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for callers that need raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region begin-run
// BeginRun records a new run in the running state and returns it with
// its generated id and start time filled in.
func (s *Store) BeginRun(rec RunRecord) (RunRecord, error) {
	rec.RunID = uuid.New().String()
	rec.StartedAt = time.Now().UTC()
	rec.FinishedAt = time.Time{}
	rec.Status = StatusRunning
	rec.GateOK = false
	rec.GateFindings = ""

	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, started_at, population, epsilon, duration_s,
		                   strategies, sweep_sizes, output_dir, environment, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.StartedAt.Format(time.RFC3339Nano), rec.Population,
		rec.Epsilon, rec.DurationS, strings.Join(rec.Strategies, ","),
		joinInts(rec.SweepSizes), rec.OutputDir, rec.Environment, rec.Status,
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}
// #endregion begin-run

// #region append-series
// AppendSeries inserts the points of one or more swept tables atomically.
func (s *Store) AppendSeries(runID string, rows []SeriesRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range rows {
		var drawPtr interface{}
		if r.HasDraw {
			drawPtr = r.Draw
		}
		_, err := tx.Exec(
			`INSERT INTO series (run_id, strategy, metric, seq, idx, n, value, draw)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Strategy, r.Metric, r.Seq, r.Idx, r.N, r.Value, drawPtr,
		)
		if err != nil {
			return fmt.Errorf("insert point: %w", err)
		}
	}

	return tx.Commit()
}
// #endregion append-series

// #region finish-run
// FinishRun closes out a run with its final status and gate outcome.
func (s *Store) FinishRun(runID, status string, gateOK bool, gateFindings string) error {
	// Verify the run exists
	var exists int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM runs WHERE run_id = ?`, runID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check run: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("run %s not found", runID)
	}

	var findingsPtr interface{}
	if gateFindings != "" {
		findingsPtr = gateFindings
	}

	_, err = s.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ?, gate_ok = ?, gate_findings = ?
		 WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), status, boolInt(gateOK), findingsPtr, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}
// #endregion finish-run

// #region get-run
// GetRun retrieves a specific run by ID.
func (s *Store) GetRun(id string) (RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT run_id, started_at, finished_at, population, epsilon, duration_s,
		        strategies, sweep_sizes, output_dir, environment, status, gate_ok, gate_findings
		 FROM runs WHERE run_id = ?`, id,
	)
	rec, err := scanRun(row)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}
// #endregion get-run

// #region resolve-run-id
// ResolveRunID expands a run id prefix to the single full id it matches.
func (s *Store) ResolveRunID(prefix string) (string, error) {
	rows, err := s.db.Query(
		`SELECT run_id FROM runs WHERE run_id LIKE ? ORDER BY run_id`, prefix+"%",
	)
	if err != nil {
		return "", fmt.Errorf("resolve run: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve run: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("no run matching %s", prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run prefix %s matches %d runs", prefix, len(ids))
	}
}
// #endregion resolve-run-id

// #region list-runs
// ListRuns returns the most recent runs.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, started_at, finished_at, population, epsilon, duration_s,
		        strategies, sweep_sizes, output_dir, environment, status, gate_ok, gate_findings
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
// #endregion list-runs

// #region get-series
// GetSeries returns every recorded point of a run, ordered the way the
// tables were emitted.
func (s *Store) GetSeries(runID string) ([]SeriesRow, error) {
	rows, err := s.db.Query(
		`SELECT run_id, strategy, metric, seq, idx, n, value, draw
		 FROM series WHERE run_id = ? ORDER BY seq, idx`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var points []SeriesRow
	for rows.Next() {
		var p SeriesRow
		var draw sql.NullFloat64
		if err := rows.Scan(&p.RunID, &p.Strategy, &p.Metric, &p.Seq, &p.Idx, &p.N, &p.Value, &draw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if draw.Valid {
			p.Draw = draw.Float64
			p.HasDraw = true
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
// #endregion get-series

// #region scan-run
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var rec RunRecord
	var startedStr string
	var finishedStr sql.NullString
	var strategies string
	var sizes string
	var gateOK sql.NullInt64
	var findings sql.NullString

	err := row.Scan(&rec.RunID, &startedStr, &finishedStr, &rec.Population,
		&rec.Epsilon, &rec.DurationS, &strategies, &sizes, &rec.OutputDir,
		&rec.Environment, &rec.Status, &gateOK, &findings)
	if err != nil {
		return RunRecord{}, err
	}

	rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	if finishedStr.Valid {
		rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedStr.String)
	}
	rec.Strategies = splitList(strategies)
	rec.SweepSizes, err = splitInts(sizes)
	if err != nil {
		return RunRecord{}, fmt.Errorf("parse sweep sizes: %w", err)
	}
	rec.GateOK = gateOK.Valid && gateOK.Int64 != 0
	if findings.Valid {
		rec.GateFindings = findings.String
	}

	return rec, nil
}
// #endregion scan-run

// #region column-encoding
func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
// #endregion column-encoding
