package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/safesync/domain"
)

// Default values applied when the config file omits the field.
const (
	defaultBranch      = "main"
	defaultConcurrency = 4
	defaultTimeout     = 30 * time.Second
)

// Config is the top-level configuration for safesync.
type Config struct {
	Root           string             `yaml:"root"`            // Base directory holding the working copies
	DefaultBranch  string             `yaml:"default_branch"`  // Branch used when an entry has no override
	ForceMode      string             `yaml:"force_mode"`      // "force-with-lease" (default) or "force"
	ProbeRemote    string             `yaml:"probe_remote"`    // Remote URL probed before the run; first entry's remote when empty
	Concurrency    int                `yaml:"concurrency"`     // Bound on concurrent per-repository workers
	CommandTimeout string             `yaml:"command_timeout"` // Per git invocation, e.g. "30s"
	Repositories   []RepositoryConfig `yaml:"repositories"`
}

// RepositoryConfig describes a single registered repository.
type RepositoryConfig struct {
	Name   string `yaml:"name"`
	Remote string `yaml:"remote"`
	Branch string `yaml:"branch"` // Optional, overrides default_branch
	Path   string `yaml:"path"`   // Optional, overrides root/<name>
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment
// variables, applying defaults, and validating the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.Root = ExpandEnv(cfg.Root)
	cfg.ProbeRemote = ExpandEnv(cfg.ProbeRemote)
	for i := range cfg.Repositories {
		cfg.Repositories[i].Remote = ExpandEnv(cfg.Repositories[i].Remote)
		cfg.Repositories[i].Path = ExpandEnv(cfg.Repositories[i].Path)
	}

	applyDefaults(&cfg)

	if validateErr := Validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".safesync.yaml",
		".safesync.yml",
		"safesync.yaml",
		"safesync.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ExpandEnv expands ${ENV_VAR} references in the given string. Unset
// variables expand to an empty string with a warning.
func ExpandEnv(raw string) string {
	if raw == "" {
		return raw
	}

	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// Timeout returns the parsed per-command timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.CommandTimeout)
	if err != nil {
		return defaultTimeout
	}
	return d
}

// BuildRegistry converts the validated configuration into the immutable
// repository registry. Entry paths default to <root>/<name>, branches to
// the configured default branch.
func (c *Config) BuildRegistry() (*domain.Registry, error) {
	entries := make([]domain.RepositoryEntry, 0, len(c.Repositories))
	for _, rc := range c.Repositories {
		path := rc.Path
		if path == "" {
			path = filepath.Join(c.Root, rc.Name)
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("repository %q: invalid path %q: %w", rc.Name, path, err)
		}

		branch := rc.Branch
		if branch == "" {
			branch = c.DefaultBranch
		}

		entries = append(entries, domain.RepositoryEntry{
			Name:   rc.Name,
			Remote: rc.Remote,
			Branch: branch,
			Path:   absPath,
		})
	}
	return domain.NewRegistry(entries), nil
}

// applyDefaults fills in the optional top-level fields.
func applyDefaults(cfg *Config) {
	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = defaultBranch
	}
	if cfg.ForceMode == "" {
		cfg.ForceMode = string(domain.ForceWithLease)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.CommandTimeout == "" {
		cfg.CommandTimeout = defaultTimeout.String()
	}
	if cfg.ProbeRemote == "" && len(cfg.Repositories) > 0 {
		cfg.ProbeRemote = cfg.Repositories[0].Remote
	}
}

// Validate checks for required configuration values. A malformed entry is
// a configuration error and aborts before any repository is inspected.
func Validate(cfg *Config) error {
	if len(cfg.Repositories) == 0 {
		return errors.New("at least one repository must be configured")
	}

	if cfg.ForceMode != string(domain.ForceWithLease) &&
		cfg.ForceMode != string(domain.ForceUnconditional) {
		return fmt.Errorf(
			"force_mode must be %q or %q, got %q",
			domain.ForceWithLease, domain.ForceUnconditional, cfg.ForceMode,
		)
	}

	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}

	if _, err := time.ParseDuration(cfg.CommandTimeout); err != nil {
		return fmt.Errorf("command_timeout is not a valid duration: %w", err)
	}

	seen := make(map[string]bool, len(cfg.Repositories))
	for i, rc := range cfg.Repositories {
		if rc.Name == "" {
			return fmt.Errorf("repositories[%d].name is required", i)
		}
		if seen[rc.Name] {
			return fmt.Errorf("repositories[%d].name %q is duplicated", i, rc.Name)
		}
		seen[rc.Name] = true

		if rc.Remote == "" {
			return fmt.Errorf("repositories[%d].remote is required", i)
		}
		if rc.Path == "" && cfg.Root == "" {
			return fmt.Errorf(
				"repositories[%d] has no path and no root is configured", i,
			)
		}
	}

	return nil
}
