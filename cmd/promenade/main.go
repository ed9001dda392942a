package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/promenade/internal/config"
	"github.com/danielpatrickdp/promenade/internal/logging"
)

// --- Global Command Variables ---
var (
	configPath string
	logLevel   string
	dbPath     string
	noStore    bool

	cfg    config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "promenade",
		Short: "Simulate a dance of lettered programs and jump ahead through its cycle",
		Long: `promenade applies a comma-separated list of spin (sN), exchange (xA/B)
and partner (pA/B) moves to a lineup of lettered dancers, over and over,
and reports the lineup after any number of rounds by detecting when the
lineup repeats.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

// errDrift signals a failed comparison whose details were already printed.
var errDrift = errors.New("results diverge")

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "do not persist lineups or runs")

	rootCmd.AddCommand(runCmd, historyCmd, rollbackCmd, verifyCmd, serveCmd)
}

// #region main
func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDrift) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
// #endregion main

// #region setup
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	logger, err = logging.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
// #endregion setup
