package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/familytree/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	LogLevel  string           `yaml:"log_level"`
	LogFormat string           `yaml:"log_format"`
	Tree      treeSection      `yaml:"tree"`
	Biography biographySection `yaml:"biography"`
}

type treeSection struct {
	Seed     string `yaml:"seed"`
	RootName string `yaml:"root_name,omitempty"`
}

// biographySection leaves the API key out; it is read from
// FAMILYTREE_BIOGRAPHY_API_KEY or API_KEY.
type biographySection struct {
	BaseURL           string `yaml:"base_url"`
	Model             string `yaml:"model"`
	Language          string `yaml:"language"`
	Words             int    `yaml:"words"`
	Timeout           string `yaml:"timeout"`
	Concurrency       int    `yaml:"concurrency"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

func newConfigFile(cfg types.Config) configFile {
	b := cfg.Biography
	return configFile{
		LogLevel:  cfg.LogLevel,
		LogFormat: cfg.LogFormat,
		Tree:      treeSection{Seed: cfg.Seed, RootName: cfg.RootName},
		Biography: biographySection{
			BaseURL:           b.BaseURL,
			Model:             b.Model,
			Language:          b.Language,
			Words:             b.Words,
			Timeout:           b.Timeout.String(),
			Concurrency:       b.Concurrency,
			RequestsPerMinute: b.RequestsPerMinute,
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration directory and a default config.yaml",
		Long:  "Create the configuration directory and write config.yaml with default values.\nAn existing config.yaml is left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.configDir, 0o755); err != nil {
				return sysError(fmt.Errorf("create config directory: %w", err))
			}
			written, err := writeConfigIfMissing(a.configPath, defaultConfig())
			if err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", a.configPath)
			}
			return nil
		},
	}
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. It reports whether the file was written.
func writeConfigIfMissing(path string, cfg types.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(newConfigFile(cfg))
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
