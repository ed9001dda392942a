package state

import (
	"fmt"
	"time"

	"github.com/danielpatrickdp/promenade/internal/program"
)

// #region lineup
// Lineup is an ordered arrangement of the first Size() lowercase letters.
// It is a value: copies never alias, and two lineups are equal with == iff
// their symbol sequences are identical.
type Lineup struct {
	symbols [program.MaxSize]byte
	n       uint8
}

// New returns the initial lineup "abc..." of n symbols.
func New(n int) (Lineup, error) {
	if n < 1 || n > program.MaxSize {
		return Lineup{}, fmt.Errorf("lineup size %d out of range [1, %d]", n, program.MaxSize)
	}
	var l Lineup
	l.n = uint8(n)
	for i := 0; i < n; i++ {
		l.symbols[i] = byte('a' + i)
	}
	return l, nil
}

// Parse rebuilds a lineup from its rendering, e.g. "baedc". Every symbol of
// the alphabet prefix must appear exactly once.
func Parse(s string) (Lineup, error) {
	if len(s) < 1 || len(s) > program.MaxSize {
		return Lineup{}, fmt.Errorf("lineup %q: length out of range [1, %d]", s, program.MaxSize)
	}
	var l Lineup
	var seen [program.MaxSize]bool
	l.n = uint8(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		k := int(c) - 'a'
		if k < 0 || k >= len(s) || seen[k] {
			return Lineup{}, fmt.Errorf("lineup %q: invalid symbol %q at %d", s, c, i)
		}
		seen[k] = true
		l.symbols[i] = c
	}
	return l, nil
}

// Size returns the number of symbols.
func (l Lineup) Size() int {
	return int(l.n)
}

// At returns the symbol at position i.
func (l Lineup) At(i int) byte {
	return l.symbols[:l.n][i]
}

func (l Lineup) String() string {
	return string(l.symbols[:l.n])
}
// #endregion lineup

// #region state-record
// StateRecord is a persisted lineup version. ParentID is the version the
// run started from; Rounds is how many rounds separate the two.
type StateRecord struct {
	VersionID   string
	ParentID    string
	Lineup      Lineup
	ProgramHash string
	Rounds      int
	CreatedAt   time.Time
}
// #endregion state-record

// #region version-with-run
// VersionWithRun pairs a lineup version with its run_log fields.
type VersionWithRun struct {
	StateRecord
	Trigger     string
	Executed    int
	CycleStart  int
	CycleLength int
}
// #endregion version-with-run
