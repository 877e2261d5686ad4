// Root command tree for probplan.
//
// Grounded on AleutianLocal's cobra root command and
// PersistentPreRun config-loading pattern (cmd/aleutian/commands.go,
// main.go): a single rootCmd var, package-level flag variables bound in
// init(), subcommands registered onto rootCmd rather than built inline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"probplan/internal/config"
	"probplan/internal/obslog"
)

var (
	configPath string
	verbose    bool

	cfg *config.Config
	log *obslog.Logger

	rootCmd = &cobra.Command{
		Use:   "probplan",
		Short: "A probabilistic heuristic-search planner for SSP/MaxProb MDPs",
		Long: `probplan solves stochastic shortest-path and MaxProb planning
tasks with a family of heuristic-search and value-iteration engines
(exhaustive AO*, LAO*, HDP, topological VI, interval iteration, FRET).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			} else {
				cfg = config.Default()
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			level := obslog.LevelInfo
			if verbose {
				level = obslog.LevelDebug
			}
			log = obslog.New(os.Stderr, level)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (defaults are used if omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(explainCmd)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
