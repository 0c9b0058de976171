package types

import (
	"errors"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: LogFormatText,
		Seed:      SeedExample,
		Biography: BiographyConfig{
			Model:       "gemini-2.5-flash",
			Words:       150,
			Timeout:     30 * time.Second,
			Concurrency: 2,
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "empty seed is valid",
			mutate: func(c *Config) { c.Seed = SeedEmpty },
		},
		{
			name:   "zero rate disables pacing",
			mutate: func(c *Config) { c.Biography.RequestsPerMinute = 0 },
		},
		{
			name:    "unknown log level returns ErrLogLevelUnknown",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: ErrLogLevelUnknown,
		},
		{
			name:    "unknown log format returns ErrLogFormatUnknown",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: ErrLogFormatUnknown,
		},
		{
			name:    "unknown seed returns ErrSeedUnknown",
			mutate:  func(c *Config) { c.Seed = "gedcom" },
			wantErr: ErrSeedUnknown,
		},
		{
			name:    "zero concurrency returns ErrConcurrencyInvalid",
			mutate:  func(c *Config) { c.Biography.Concurrency = 0 },
			wantErr: ErrConcurrencyInvalid,
		},
		{
			name:    "zero timeout returns ErrTimeoutInvalid",
			mutate:  func(c *Config) { c.Biography.Timeout = 0 },
			wantErr: ErrTimeoutInvalid,
		},
		{
			name:    "negative rate returns ErrRateInvalid",
			mutate:  func(c *Config) { c.Biography.RequestsPerMinute = -1 },
			wantErr: ErrRateInvalid,
		},
		{
			name:    "zero words returns ErrWordsInvalid",
			mutate:  func(c *Config) { c.Biography.Words = 0 },
			wantErr: ErrWordsInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
