package cmd

import (
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	configPath string
	dryRun     bool
	verbose    bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "safesync",
	Short: "Safe multi-repository synchronization",
	Long: `A CLI tool that inspects a configured set of local repositories,
commits any local modifications, and publishes them upstream.

A publish that is rejected because the upstream has diverged is never
retried blindly: the only sanctioned remediation is a lease-qualified
forced publish, and every write phase sits behind an explicit operator
confirmation.`,
}

func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c", "",
		"Path to the configuration file (default: search standard locations)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&dryRun, "dry-run", false,
		"Show what would be done without making changes",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable verbose output",
	)
}
