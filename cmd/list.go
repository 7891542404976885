package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/safesync/domain"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered repositories",
	Long:  `Print the validated repository registry: name, branch, remote, and local path.`,
	RunE:  runList,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, err := buildContainer(cfg)
	if err != nil {
		return err
	}

	return container.Invoke(func(registry *domain.Registry) {
		fmt.Fprintf(os.Stdout, "Registered repositories (%d):\n", registry.Len())
		for _, e := range registry.Entries() {
			fmt.Fprintf(os.Stdout, "  %-24s %-12s %s\n    %s\n", e.Name, e.Branch, e.Remote, e.Path)
		}
	})
}
