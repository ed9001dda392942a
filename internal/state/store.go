package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS lineup_versions (
	version_id    TEXT PRIMARY KEY,
	parent_id     TEXT,
	lineup        TEXT NOT NULL,
	program_hash  TEXT,
	rounds        INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES lineup_versions(version_id)
);

CREATE TABLE IF NOT EXISTS run_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	version_id    TEXT NOT NULL,
	program_hash  TEXT NOT NULL,
	size          INTEGER NOT NULL,
	rounds        INTEGER NOT NULL,
	executed      INTEGER NOT NULL,
	cycle_start   INTEGER,
	cycle_length  INTEGER,
	trigger_type  TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES lineup_versions(version_id)
);

CREATE TABLE IF NOT EXISTS active_lineup (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES lineup_versions(version_id)
);
`
// #endregion schema

// timeLayout is RFC3339 with fixed-width nanoseconds so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNoActive is returned by GetCurrent before any lineup has been stored.
var ErrNoActive = errors.New("no active lineup")

// #region store-struct
// Store manages versioned lineups in SQLite.
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
	// Pragmas are per connection; one connection keeps foreign_keys in force.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region create-initial
// CreateInitialState stores the initial lineup of n symbols and makes it active.
func (s *Store) CreateInitialState(n int) (StateRecord, error) {
	l, err := New(n)
	if err != nil {
		return StateRecord{}, err
	}
	rec := StateRecord{
		VersionID: uuid.New().String(),
		Lineup:    l,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CommitState(rec); err != nil {
		return StateRecord{}, err
	}
	return rec, nil
}
// #endregion create-initial

// #region get-current
// GetCurrent reads the active lineup version.
func (s *Store) GetCurrent() (StateRecord, error) {
	var versionID string
	err := s.db.QueryRow(`SELECT version_id FROM active_lineup WHERE id = 1`).Scan(&versionID)
	if errors.Is(err, sql.ErrNoRows) {
		return StateRecord{}, ErrNoActive
	}
	if err != nil {
		return StateRecord{}, fmt.Errorf("get active: %w", err)
	}
	return s.GetVersion(versionID)
}
// #endregion get-current

// #region get-version
// GetVersion retrieves a specific lineup version by ID.
func (s *Store) GetVersion(id string) (StateRecord, error) {
	row := s.db.QueryRow(
		`SELECT version_id, parent_id, lineup, program_hash, rounds, created_at
		 FROM lineup_versions WHERE version_id = ?`, id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return StateRecord{}, fmt.Errorf("get version %s: %w", id, err)
	}
	return rec, nil
}
// #endregion get-version

// #region commit-state
// CommitState inserts a new version and updates the active pointer atomically.
func (s *Store) CommitState(rec StateRecord) error {
	if rec.VersionID == "" {
		return errors.New("commit: empty version id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO lineup_versions (version_id, parent_id, lineup, program_hash, rounds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.VersionID, nullIfEmpty(rec.ParentID), rec.Lineup.String(), nullIfEmpty(rec.ProgramHash),
		rec.Rounds, rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_lineup (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`,
		rec.VersionID,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	return tx.Commit()
}
// #endregion commit-state

// #region rollback
// Rollback sets the active pointer to a previous version.
func (s *Store) Rollback(targetVersionID string) error {
	var exists int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM lineup_versions WHERE version_id = ?`, targetVersionID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("version %s not found", targetVersionID)
	}

	_, err = s.db.Exec(`UPDATE active_lineup SET version_id = ? WHERE id = 1`, targetVersionID)
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
// #endregion rollback

// #region list-versions
// ListVersions returns the most recent lineup versions joined with their run
// rows. Versions created without a run (the initial lineup) carry zero run fields.
func (s *Store) ListVersions(limit int) ([]VersionWithRun, error) {
	rows, err := s.db.Query(
		`SELECT v.version_id, v.parent_id, v.lineup, v.program_hash, v.rounds, v.created_at,
		        r.trigger_type, r.executed, r.cycle_start, r.cycle_length
		 FROM lineup_versions v
		 LEFT JOIN run_log r ON r.version_id = v.version_id
		 ORDER BY v.created_at DESC, v.rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var out []VersionWithRun
	for rows.Next() {
		var v VersionWithRun
		var parentID, hash, trigger sql.NullString
		var executed, cycleStart, cycleLength sql.NullInt64
		var lineup, createdStr string

		if err := rows.Scan(&v.VersionID, &parentID, &lineup, &hash, &v.Rounds, &createdStr,
			&trigger, &executed, &cycleStart, &cycleLength); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if err := fillRecord(&v.StateRecord, parentID, hash, lineup, createdStr); err != nil {
			return nil, err
		}
		v.Trigger = trigger.String
		v.Executed = int(executed.Int64)
		v.CycleStart = int(cycleStart.Int64)
		v.CycleLength = int(cycleLength.Int64)
		out = append(out, v)
	}
	return out, rows.Err()
}
// #endregion list-versions

// #region helpers
func scanRecord(row *sql.Row) (StateRecord, error) {
	var rec StateRecord
	var parentID, hash sql.NullString
	var lineup, createdStr string
	if err := row.Scan(&rec.VersionID, &parentID, &lineup, &hash, &rec.Rounds, &createdStr); err != nil {
		return StateRecord{}, err
	}
	if err := fillRecord(&rec, parentID, hash, lineup, createdStr); err != nil {
		return StateRecord{}, err
	}
	return rec, nil
}

func fillRecord(rec *StateRecord, parentID, hash sql.NullString, lineup, createdStr string) error {
	l, err := Parse(lineup)
	if err != nil {
		return fmt.Errorf("decode lineup: %w", err)
	}
	rec.Lineup = l
	rec.ParentID = parentID.String
	rec.ProgramHash = hash.String
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
