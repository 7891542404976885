package cmd

import (
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/rios0rios0/safesync/application"
	"github.com/rios0rios0/safesync/config"
	"github.com/rios0rios0/safesync/domain"
	"github.com/rios0rios0/safesync/infrastructure/console"
	gitcli "github.com/rios0rios0/safesync/infrastructure/git"
	"github.com/rios0rios0/safesync/infrastructure/remote"
)

// loadConfig resolves the config file from the flag or standard locations.
func loadConfig() (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.FindConfigFile()
		if err != nil {
			return nil, fmt.Errorf(
				"no config file found: %w\nSpecify one with --config or create safesync.yaml",
				err,
			)
		}
	}

	logger.Infof("Using config file: %s", cfgPath)
	return config.Load(cfgPath)
}

// buildContainer wires the components the same way for every subcommand.
func buildContainer(cfg *config.Config) (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		func() *config.Config { return cfg },
		func(c *config.Config) (*domain.Registry, error) { return c.BuildRegistry() },
		func(c *config.Config) domain.GitClient { return gitcli.New(c.Timeout()) },
		func(c *config.Config) domain.RemoteInspector { return remote.NewInspector(c.Timeout()) },
		func() domain.Confirmer { return console.New(os.Stdin, os.Stderr) },
		application.NewSyncService,
	}

	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return nil, err
		}
	}

	return container, nil
}
