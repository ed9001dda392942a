package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/promenade/internal/simulate"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <fixture.json>",
	Short: "Run a fixture and compare every case against its expected lineup",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

// #region verify
func runVerify(cmd *cobra.Command, args []string) error {
	f, err := simulate.LoadFixture(args[0])
	if err != nil {
		return err
	}
	results, err := f.Check()
	if err != nil {
		return err
	}
	if printComparison(cmd.OutOrStdout(), results) > 0 {
		return errDrift
	}
	return nil
}

// printComparison outputs a comparison table and returns the number of diverging cases.
func printComparison(w io.Writer, results []simulate.CaseResult) int {
	fmt.Fprintf(w, "%-12s| %-28s| %-28s| %s\n", "Rounds", "Expected", "Replayed", "Match")
	fmt.Fprintf(w, "%-12s+%-29s+%-29s+%s\n",
		"------------", "-----------------------------", "-----------------------------", "------")

	diverge := 0
	for _, r := range results {
		match := "OK"
		if !r.Match {
			match = "DIFF"
			diverge++
		}
		fmt.Fprintf(w, "%-12s| %-28s| %-28s| %s\n",
			strconv.Itoa(r.Case.Rounds), r.Case.Expected, r.Result.Final.String(), match)
	}

	fmt.Fprintf(w, "\nSummary: %d total, %d match, %d diverge\n", len(results), len(results)-diverge, diverge)
	return diverge
}
// #endregion verify
