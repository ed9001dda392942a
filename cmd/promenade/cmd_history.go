package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/promenade/internal/state"
)

var (
	historyLast int
	historyJSON bool

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "List stored lineups, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	rollbackCmd = &cobra.Command{
		Use:   "rollback <version-id>",
		Short: "Make a stored lineup the active one",
		Args:  cobra.ExactArgs(1),
		RunE:  runRollback,
	}
)

func init() {
	historyCmd.Flags().IntVar(&historyLast, "last", 20, "show N most recent versions")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON instead of table")
}

// #region history
type historyRow struct {
	VersionID   string `json:"version_id"`
	ParentID    string `json:"parent_id,omitempty"`
	Active      bool   `json:"active"`
	Lineup      string `json:"lineup"`
	Rounds      int    `json:"rounds"`
	Executed    int    `json:"executed"`
	CycleStart  int    `json:"cycle_start,omitempty"`
	CycleLength int    `json:"cycle_length,omitempty"`
	Trigger     string `json:"trigger,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := state.NewStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	versions, err := store.ListVersions(historyLast)
	if err != nil {
		return err
	}
	var activeID string
	if cur, err := store.GetCurrent(); err == nil {
		activeID = cur.VersionID
	} else if !errors.Is(err, state.ErrNoActive) {
		return err
	}

	rows := make([]historyRow, len(versions))
	for i, v := range versions {
		rows[i] = historyRow{
			VersionID:   v.VersionID,
			ParentID:    v.ParentID,
			Active:      v.VersionID == activeID,
			Lineup:      v.Lineup.String(),
			Rounds:      v.Rounds,
			Executed:    v.Executed,
			CycleStart:  v.CycleStart,
			CycleLength: v.CycleLength,
			Trigger:     v.Trigger,
			CreatedAt:   v.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	if historyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	printHistory(cmd.OutOrStdout(), rows)
	return nil
}

func printHistory(w io.Writer, rows []historyRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no stored lineups")
		return
	}
	fmt.Fprintf(w, "  %-36s  %-26s  %12s  %10s  %-12s  %s\n", "Version", "Lineup", "Rounds", "Executed", "Cycle", "Trigger")
	for _, r := range rows {
		mark := " "
		if r.Active {
			mark = "*"
		}
		cycle := "-"
		if r.CycleLength > 0 {
			cycle = fmt.Sprintf("%d+%d", r.CycleStart, r.CycleLength)
		}
		trigger := r.Trigger
		if trigger == "" {
			trigger = "init"
		}
		fmt.Fprintf(w, "%s %-36s  %-26s  %12d  %10d  %-12s  %s\n",
			mark, r.VersionID, r.Lineup, r.Rounds, r.Executed, cycle, trigger)
	}
}
// #endregion history

// #region rollback
func runRollback(cmd *cobra.Command, args []string) error {
	store, err := state.NewStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Rollback(args[0]); err != nil {
		return err
	}
	cur, err := store.GetCurrent()
	if err != nil {
		return err
	}
	logger.Info("rolled back", "version", cur.VersionID)
	fmt.Fprintf(cmd.OutOrStdout(), "active: %s %s\n", cur.VersionID, cur.Lineup)
	return nil
}
// #endregion rollback
