package simulate

import (
	"fmt"

	"github.com/danielpatrickdp/promenade/internal/program"
	"github.com/danielpatrickdp/promenade/internal/state"
)

// #region run
// Run returns the lineup after dancing prog rounds times from initial.
// The first repeated lineup fixes the period, after which only the
// remainder modulo that period is danced.
func Run(initial state.Lineup, prog program.Program, rounds int) (Result, error) {
	if rounds < 0 {
		return Result{}, fmt.Errorf("rounds must be >= 0, got %d", rounds)
	}
	if err := prog.Validate(initial.Size()); err != nil {
		return Result{}, err
	}

	res := Result{Final: initial, Rounds: rounds}
	current := initial
	seen := make(map[state.Lineup]int)

	i := 0
	for ; i < rounds; i++ {
		current = current.Dance(prog)
		res.Executed++
		if j, ok := seen[current]; ok {
			res.Cycle = &Cycle{Start: j + 1, Length: i - j}
			break
		}
		seen[current] = i
	}

	if res.Cycle != nil {
		// current is the lineup after i+1 rounds.
		remaining := (rounds - 1 - i) % res.Cycle.Length
		for k := 0; k < remaining; k++ {
			current = current.Dance(prog)
			res.Executed++
		}
	}

	res.Final = current
	return res, nil
}
// #endregion run

// #region naive
// Naive dances every round without cycle detection. It panics on a program
// that does not fit initial; used as the reference for Run.
func Naive(initial state.Lineup, prog program.Program, rounds int) state.Lineup {
	current := initial
	for i := 0; i < rounds; i++ {
		current = current.Dance(prog)
	}
	return current
}
// #endregion naive
