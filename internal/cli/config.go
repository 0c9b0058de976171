package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/familytree/internal/biography"
	"github.com/mesh-intelligence/familytree/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "FAMILYTREE"

	flagConfigDir = "config-dir"
	flagLogLevel  = "log-level"
)

// Config keys.
const (
	keyLogLevel          = "log_level"
	keyLogFormat         = "log_format"
	keySeed              = "tree.seed"
	keyRootName          = "tree.root_name"
	keyAPIKey            = "biography.api_key"
	keyBaseURL           = "biography.base_url"
	keyModel             = "biography.model"
	keyLanguage          = "biography.language"
	keyWords             = "biography.words"
	keyTimeout           = "biography.timeout"
	keyConcurrency       = "biography.concurrency"
	keyRequestsPerMinute = "biography.requests_per_minute"
)

// Defaults for the batch generator.
const (
	defaultConcurrency       = 2
	defaultRequestsPerMinute = 15
)

// defaultConfig is the configuration in effect when nothing is set.
func defaultConfig() types.Config {
	return types.Config{
		LogLevel:  "info",
		LogFormat: types.LogFormatText,
		Seed:      types.SeedExample,
		Biography: types.BiographyConfig{
			BaseURL:           biography.DefaultBaseURL,
			Model:             biography.DefaultModel,
			Language:          biography.DefaultLanguage,
			Words:             biography.DefaultWords,
			Timeout:           biography.DefaultTimeout,
			Concurrency:       defaultConcurrency,
			RequestsPerMinute: defaultRequestsPerMinute,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault(keyLogLevel, d.LogLevel)
	v.SetDefault(keyLogFormat, d.LogFormat)
	v.SetDefault(keySeed, d.Seed)
	v.SetDefault(keyRootName, d.RootName)
	v.SetDefault(keyAPIKey, "")
	v.SetDefault(keyBaseURL, d.Biography.BaseURL)
	v.SetDefault(keyModel, d.Biography.Model)
	v.SetDefault(keyLanguage, d.Biography.Language)
	v.SetDefault(keyWords, d.Biography.Words)
	v.SetDefault(keyTimeout, d.Biography.Timeout)
	v.SetDefault(keyConcurrency, d.Biography.Concurrency)
	v.SetDefault(keyRequestsPerMinute, d.Biography.RequestsPerMinute)
}

// loadConfig reads config.yaml from configDir, applies FAMILYTREE_*
// environment overrides and the --log-level flag, and validates the result.
// A missing config.yaml is not an error.
func loadConfig(configDir string, flags *pflag.FlagSet) (types.Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(keyAPIKey, envPrefix+"_BIOGRAPHY_API_KEY", "API_KEY"); err != nil {
		return types.Config{}, sysError(fmt.Errorf("bind env: %w", err))
	}
	if flags != nil {
		if f := flags.Lookup(flagLogLevel); f != nil {
			if err := v.BindPFlag(keyLogLevel, f); err != nil {
				return types.Config{}, sysError(fmt.Errorf("bind flag: %w", err))
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, userError(fmt.Errorf("read config: %w", err))
		}
	}

	cfg := types.Config{
		LogLevel:  strings.ToLower(v.GetString(keyLogLevel)),
		LogFormat: strings.ToLower(v.GetString(keyLogFormat)),
		Seed:      strings.ToLower(v.GetString(keySeed)),
		RootName:  v.GetString(keyRootName),
		Biography: types.BiographyConfig{
			APIKey:            v.GetString(keyAPIKey),
			BaseURL:           v.GetString(keyBaseURL),
			Model:             v.GetString(keyModel),
			Language:          v.GetString(keyLanguage),
			Words:             v.GetInt(keyWords),
			Timeout:           v.GetDuration(keyTimeout),
			Concurrency:       v.GetInt(keyConcurrency),
			RequestsPerMinute: v.GetInt(keyRequestsPerMinute),
		},
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError(fmt.Errorf("invalid config: %w", err))
	}
	return cfg, nil
}
