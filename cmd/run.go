package cmd

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/safesync/application"
	"github.com/rios0rios0/safesync/domain"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Synchronize all registered repositories",
	Long: `Inspect every registered repository, commit local modifications,
and publish them upstream.

The run pauses twice for confirmation: once after the status summary,
before any commit or publish, and again before any forced publish of
repositories the upstream rejected.`,
	RunE: runSync,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(runCmd)
}

func runSync(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, err := buildContainer(cfg)
	if err != nil {
		return err
	}

	var report *application.RunReport
	if invokeErr := container.Invoke(func(svc *application.SyncService) error {
		var runErr error
		report, runErr = svc.Run(ctx, application.RunOptions{
			DryRun:      dryRun,
			Verbose:     verbose,
			Concurrency: cfg.Concurrency,
			ForceMode:   domain.ForceMode(cfg.ForceMode),
			ProbeRemote: cfg.ProbeRemote,
		})
		return runErr
	}); invokeErr != nil {
		return invokeErr
	}

	report.Render(os.Stdout)

	if report.HasFailures() {
		failed := report.Count(domain.OutcomeFailed) + report.Count(domain.OutcomeForcedFailed)
		return fmt.Errorf("%d repositories failed to synchronize", failed)
	}

	logger.Info("Run complete")
	return nil
}
