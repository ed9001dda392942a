package simulate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/promenade/internal/program"
	"github.com/danielpatrickdp/promenade/internal/state"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a simulation fixture.
type Fixture struct {
	Description string        `json:"description"`
	Size        int           `json:"size"`
	Program     string        `json:"program"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase is one expected outcome for a round count.
type FixtureCase struct {
	Rounds      int    `json:"rounds"`
	Expected    string `json:"expected"`
	CycleStart  int    `json:"cycle_start,omitempty"`
	CycleLength int    `json:"cycle_length,omitempty"`
}

// CaseResult pairs a fixture case with what Run produced for it.
type CaseResult struct {
	Case   FixtureCase
	Result Result
	Match  bool
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Check runs every case of the fixture. A case matches when the final lineup
// equals Expected and, if the case names a cycle, the detected cycle agrees.
func (f *Fixture) Check() ([]CaseResult, error) {
	prog, err := program.ParseProgram(f.Program)
	if err != nil {
		return nil, err
	}
	initial, err := state.New(f.Size)
	if err != nil {
		return nil, err
	}

	out := make([]CaseResult, 0, len(f.Cases))
	for _, c := range f.Cases {
		res, err := Run(initial, prog, c.Rounds)
		if err != nil {
			return nil, fmt.Errorf("case rounds=%d: %w", c.Rounds, err)
		}
		match := res.Final.String() == c.Expected
		if c.CycleLength != 0 {
			match = match && res.Cycle != nil &&
				res.Cycle.Start == c.CycleStart && res.Cycle.Length == c.CycleLength
		}
		out = append(out, CaseResult{Case: c, Result: res, Match: match})
	}
	return out, nil
}

// #endregion fixture-loader
