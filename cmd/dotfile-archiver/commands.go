package main

import (
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagVerbose   bool
	flagTimestamp string
	flagDays      int
	flagDryRun    bool
)

var (
	rootCmd = &cobra.Command{
		Use:           "dotfile-archiver",
		Short:         "Snapshot dotfile and configuration state with aged-backup pruning",
		Long:          "dotfile-archiver runs an ordered set of generation units that capture a machine's configuration state, preserves pre-overwrite backups per run, and prunes backups older than the retention window.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run all configured generation units with backups enabled",
		Args:  cobra.NoArgs,
		RunE:  runFull,
	}

	generateCmd = &cobra.Command{
		Use:   "generate <unit>",
		Short: "Run a single generation unit without backup capture",
		Args:  cobra.ExactArgs(1),
		RunE:  runSingle,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List backup run directories, newest first",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cleanCmd = &cobra.Command{
		Use:   "clean [name]",
		Short: "Sweep aged backups, or delete one named backup run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runClean,
	}

	daemonCmd = &cobra.Command{
		Use:   "daemon",
		Short: "Run orchestrated snapshots on the configured cron schedule",
		Args:  cobra.NoArgs,
		RunE:  runDaemon,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "archiver.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	runCmd.Flags().StringVar(&flagTimestamp, "timestamp", "", "externally supplied run timestamp (YYYYMMDD_HHMMSS)")

	cleanCmd.Flags().IntVar(&flagDays, "days", -1, "override retention window in days")
	cleanCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report what would be removed without deleting")

	rootCmd.AddCommand(runCmd, generateCmd, listCmd, cleanCmd, daemonCmd)
}
