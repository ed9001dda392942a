package logging

import "time"

// #region run-entry
// RunEntry is a single row in the run_log table.
type RunEntry struct {
	VersionID   string
	ProgramHash string
	Size        int
	Rounds      int
	Executed    int
	CycleStart  int // 0 when no cycle was detected
	CycleLength int
	TriggerType string // "cli" | "rpc"
	CreatedAt   time.Time
}
// #endregion run-entry
