package simulate

import "github.com/danielpatrickdp/promenade/internal/state"

// #region types
// Cycle describes a detected repetition. The lineup first reached after
// Start rounds reappears after Start+Length rounds.
type Cycle struct {
	Start  int
	Length int
}

// Result captures the outcome of one simulation run.
type Result struct {
	Final    state.Lineup
	Rounds   int    // requested rounds
	Executed int    // rounds actually danced
	Cycle    *Cycle // nil if the run ended before any repeat
}

// Skipped returns the number of rounds the cycle let the run jump over.
func (r Result) Skipped() int {
	return r.Rounds - r.Executed
}
// #endregion types
