package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/promenade/internal/logging"
	"github.com/danielpatrickdp/promenade/internal/program"
	"github.com/danielpatrickdp/promenade/internal/rpc"
	"github.com/danielpatrickdp/promenade/internal/simulate"
	"github.com/danielpatrickdp/promenade/internal/state"
)

var (
	resume     bool
	remoteAddr string

	runCmd = &cobra.Command{
		Use:   "run [size] [program] [rounds]",
		Short: "Dance a program file for a number of rounds (defaults: 5 example 1)",
		Args:  cobra.MaximumNArgs(3),
		RunE:  runDance,
	}
)

func init() {
	runCmd.Flags().BoolVar(&resume, "resume", false, "start from the active stored lineup instead of abc...")
	runCmd.Flags().StringVar(&remoteAddr, "remote", "", "run on a promenade server at this address")
}

// #region run
func runDance(cmd *cobra.Command, args []string) error {
	size, path, rounds := cfg.Size, cfg.ProgramPath, cfg.Rounds
	var err error
	if len(args) > 0 {
		if size, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("size %q: %w", args[0], err)
		}
	}
	if len(args) > 1 {
		path = args[1]
	}
	if len(args) > 2 {
		if rounds, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("rounds %q: %w", args[2], err)
		}
	}

	prog, err := program.LoadFile(path)
	if err != nil {
		return err
	}
	logger.Debug("program loaded", "path", path, "ops", len(prog), "hash", prog.Hash())

	if remoteAddr != "" {
		return runRemote(cmd.Context(), cmd.OutOrStdout(), size, prog, rounds)
	}

	var store *state.Store
	if !noStore {
		store, err = state.NewStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	start, parent, err := startingLineup(store, size)
	if err != nil {
		return err
	}

	began := time.Now()
	res, err := simulate.Run(start, prog, rounds)
	if err != nil {
		return err
	}
	logger.Info("run complete",
		"size", start.Size(), "rounds", rounds, "executed", res.Executed, "elapsed", time.Since(began))

	report(cmd.OutOrStdout(), res.Final.String(), res.Cycle)

	if store == nil {
		return nil
	}
	return persistRun(store, parent, prog, res)
}

// startingLineup returns the lineup to dance from and, when resuming, the
// stored version it came from.
func startingLineup(store *state.Store, size int) (state.Lineup, string, error) {
	if !resume {
		l, err := state.New(size)
		return l, "", err
	}
	if store == nil {
		return state.Lineup{}, "", errors.New("--resume needs a store; drop --no-store")
	}
	cur, err := store.GetCurrent()
	if errors.Is(err, state.ErrNoActive) {
		logger.Info("no active lineup found, creating initial lineup", "size", size)
		cur, err = store.CreateInitialState(size)
	}
	if err != nil {
		return state.Lineup{}, "", err
	}
	if cur.Lineup.Size() != size {
		logger.Warn("resuming stored lineup of a different size", "stored", cur.Lineup.Size(), "requested", size)
	}
	return cur.Lineup, cur.VersionID, nil
}

func persistRun(store *state.Store, parent string, prog program.Program, res simulate.Result) error {
	rec := state.StateRecord{
		VersionID:   uuid.New().String(),
		ParentID:    parent,
		Lineup:      res.Final,
		ProgramHash: prog.Hash(),
		Rounds:      res.Rounds,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.CommitState(rec); err != nil {
		return fmt.Errorf("commit lineup: %w", err)
	}

	entry := logging.RunEntry{
		VersionID:   rec.VersionID,
		ProgramHash: rec.ProgramHash,
		Size:        res.Final.Size(),
		Rounds:      res.Rounds,
		Executed:    res.Executed,
		TriggerType: "cli",
		CreatedAt:   rec.CreatedAt,
	}
	if res.Cycle != nil {
		entry.CycleStart = res.Cycle.Start
		entry.CycleLength = res.Cycle.Length
	}
	if err := logging.LogRun(store.DB(), entry); err != nil {
		return err
	}
	logger.Debug("run stored", "version", rec.VersionID, "parent", parent)
	return nil
}

func runRemote(ctx context.Context, w io.Writer, size int, prog program.Program, rounds int) error {
	client, err := rpc.NewClient(remoteAddr)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	reply, err := client.Simulate(ctx, size, prog.String(), rounds)
	if err != nil {
		return err
	}
	report(w, reply.Lineup, reply.Cycle)
	return nil
}
// #endregion run

// #region output
func report(w io.Writer, lineup string, cycle *simulate.Cycle) {
	if cycle != nil {
		fmt.Fprintf(w, "cycle detected: start=%d length=%d\n", cycle.Start, cycle.Length)
	}
	fmt.Fprintf(w, "Result = %s\n", lineup)
}
// #endregion output
