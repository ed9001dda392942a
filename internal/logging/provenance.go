package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout matches the fixed-width timestamps of the state store.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region log-run
// LogRun writes a run entry to the run_log table.
func LogRun(db *sql.DB, entry RunEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO run_log (version_id, program_hash, size, rounds, executed, cycle_start, cycle_length, trigger_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.VersionID,
		entry.ProgramHash,
		entry.Size,
		entry.Rounds,
		entry.Executed,
		nullIfZero(entry.CycleStart),
		nullIfZero(entry.CycleLength),
		entry.TriggerType,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("log run: %w", err)
	}
	return nil
}
// #endregion log-run

// #region helpers
func nullIfZero(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}
// #endregion helpers
