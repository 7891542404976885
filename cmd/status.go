package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/safesync/application"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of all registered repositories",
	Long: `Inspect every registered repository and print its state: current
branch, uncommitted change count, and configured remote.

This is strictly read-only: no commit, no publish, no prompts.`,
	RunE: runStatus,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, err := buildContainer(cfg)
	if err != nil {
		return err
	}

	return container.Invoke(func(svc *application.SyncService) {
		svc.SetOutput(os.Stdout)
		statuses := svc.CollectStatuses(ctx, cfg.Concurrency)
		svc.RenderStatuses(statuses)
	})
}
