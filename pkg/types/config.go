package types

import (
	"errors"
	"time"
)

// Config holds the settings of an editor process, loaded from config.yaml
// and the environment.
type Config struct {
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`

	// Seed selects the tree a process starts with.
	Seed string `json:"seed" yaml:"seed"`
	// RootName names the root of a freshly minted tree. Empty uses the
	// store default.
	RootName string `json:"root_name" yaml:"root_name"`

	Biography BiographyConfig `json:"biography" yaml:"biography"`
}

// BiographyConfig configures the biography generator.
type BiographyConfig struct {
	APIKey            string        `json:"api_key" yaml:"api_key"`
	BaseURL           string        `json:"base_url" yaml:"base_url"`
	Model             string        `json:"model" yaml:"model"`
	Language          string        `json:"language" yaml:"language"`
	Words             int           `json:"words" yaml:"words"`
	Timeout           time.Duration `json:"timeout" yaml:"timeout"`
	Concurrency       int           `json:"concurrency" yaml:"concurrency"`
	RequestsPerMinute int           `json:"requests_per_minute" yaml:"requests_per_minute"`
}

// Seed names.
const (
	SeedExample = "example"
	SeedEmpty   = "empty"
)

// Log settings.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config validation errors.
var (
	ErrLogLevelUnknown    = errors.New("unknown log level")
	ErrLogFormatUnknown   = errors.New("unknown log format")
	ErrSeedUnknown        = errors.New("unknown seed")
	ErrConcurrencyInvalid = errors.New("biography concurrency must be positive")
	ErrTimeoutInvalid     = errors.New("biography timeout must be positive")
	ErrRateInvalid        = errors.New("biography requests per minute must not be negative")
	ErrWordsInvalid       = errors.New("biography word count must be positive")
)

var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var knownLogFormats = map[string]bool{
	LogFormatText: true,
	LogFormatJSON: true,
}

var knownSeeds = map[string]bool{
	SeedExample: true,
	SeedEmpty:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. A zero RequestsPerMinute disables pacing.
func (c Config) Validate() error {
	if !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	if !knownLogFormats[c.LogFormat] {
		return ErrLogFormatUnknown
	}
	if !knownSeeds[c.Seed] {
		return ErrSeedUnknown
	}
	b := c.Biography
	if b.Concurrency <= 0 {
		return ErrConcurrencyInvalid
	}
	if b.Timeout <= 0 {
		return ErrTimeoutInvalid
	}
	if b.RequestsPerMinute < 0 {
		return ErrRateInvalid
	}
	if b.Words <= 0 {
		return ErrWordsInvalid
	}
	return nil
}
