// Package config loads stagesync configuration and credentials.
//
// Configuration comes from three layers, later winning: built-in
// defaults, a YAML config file (.stagesync.yaml in the working directory
// or a path given with --config), and STAGESYNC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ecmaops/stagesync/internal/proposal"
	syncpkg "github.com/ecmaops/stagesync/internal/sync"
)

// DefaultDatasetURL is the published proposal dataset.
const DefaultDatasetURL = "https://tc39.es/dataset/proposals.json"

// Config is the resolved stagesync configuration.
type Config struct {
	// Tracking service connection.
	JiraURL     string `mapstructure:"jira_url"`
	ProjectKey  string `mapstructure:"project_key"`
	Component   string `mapstructure:"component"`
	IssueTypeID string `mapstructure:"issue_type_id"`

	// Dataset source.
	DatasetURL string `mapstructure:"dataset_url"`

	// Local files.
	CredentialsPath string `mapstructure:"credentials_path"`
	SnapshotPath    string `mapstructure:"snapshot_path"`
	CachePath       string `mapstructure:"cache_path"`

	// Network.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`

	// StageParents maps stage values to parent grouping issue keys.
	StageParents map[string]string `mapstructure:"stage_parents"`

	// EditionCutoff is the first edition year stage-4 proposals are
	// still actionable for.
	EditionCutoff int `mapstructure:"edition_cutoff"`
}

// Credentials is the basic-auth identity for the tracking service.
type Credentials struct {
	Email string `yaml:"email"`
	Token string `yaml:"token"`
}

// Load resolves configuration. cfgFile may be empty, in which case
// .stagesync.yaml is used if present.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("jira_url", "")
	v.SetDefault("project_key", "STD")
	v.SetDefault("component", "proposals")
	v.SetDefault("issue_type_id", "3")
	v.SetDefault("dataset_url", DefaultDatasetURL)
	v.SetDefault("credentials_path", defaultCredentialsPath())
	v.SetDefault("snapshot_path", ".stagesync/index.json")
	v.SetDefault("cache_path", ".stagesync/cache.db")
	v.SetDefault("timeout_seconds", 30)
	v.SetDefault("edition_cutoff", 2024)
	v.SetDefault("stage_parents", map[string]string{
		"1":   "STD-1001",
		"2":   "STD-1002",
		"2.7": "STD-1003",
		"3":   "STD-1004",
		"4":   "STD-1005",
	})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".stagesync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("STAGESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing default config file is fine; an explicitly named one
	// must exist.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Timeout returns the configured network timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SyncConfig converts the resolved configuration into the planner's
// explicit table form.
func (c *Config) SyncConfig() syncpkg.Config {
	parents := make(map[proposal.Stage]string, len(c.StageParents))
	for stage, key := range c.StageParents {
		parents[proposal.Stage(stage)] = key
	}

	return syncpkg.Config{
		ProjectKey:    c.ProjectKey,
		Component:     c.Component,
		IssueTypeID:   c.IssueTypeID,
		StageParents:  parents,
		MinStage:      proposal.Stage1,
		EditionCutoff: c.EditionCutoff,
	}
}

// LoadCredentials reads the credentials file at path.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}

	if creds.Email == "" || creds.Token == "" {
		return nil, fmt.Errorf("credentials file %s is missing email or token", path)
	}

	return &creds, nil
}

// SaveCredentials writes the credentials file with owner-only
// permissions, creating parent directories as needed.
func SaveCredentials(path string, creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file %s: %w", path, err)
	}
	return nil
}

// defaultCredentialsPath is ~/.stagesync/credentials.yaml, falling back
// to a relative path when the home directory is unknown.
func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stagesync/credentials.yaml"
	}
	return filepath.Join(home, ".stagesync", "credentials.yaml")
}
