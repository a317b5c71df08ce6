package test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	logpkg "github.com/vportnov/handball-stats-service/internal/logger"
)

func TestLoggerNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *logpkg.LoggerConfig
		expectError bool
	}{
		{
			name: "valid production environment",
			config: &logpkg.LoggerConfig{
				ServiceName:    "handball-stats-service",
				ServiceVersion: "1.0.0",
				Env:            "prod",
				Level:          "info",
				TimeField:      "ts",
				TimeFormat:     "unix",
			},
			expectError: false,
		},
		{
			name: "valid development environment with debug level",
			config: &logpkg.LoggerConfig{
				ServiceName:    "handball-stats-service",
				ServiceVersion: "1.0.0",
				Env:            "dev",
				Level:          "debug",
				TimeField:      "ts",
				TimeFormat:     "rfc3339",
				WithCaller:     true,
			},
			expectError: false,
		},
		{
			name: "valid staging environment",
			config: &logpkg.LoggerConfig{
				Env:   "staging",
				Level: "warn",
			},
			expectError: false,
		},
		{
			name: "invalid environment",
			config: &logpkg.LoggerConfig{
				ServiceName: "handball-stats-service",
				Env:         "wrong-env",
				Level:       "debug",
			},
			expectError: true,
		},
		{
			name: "invalid log level",
			config: &logpkg.LoggerConfig{
				Env:   "prod",
				Level: "loudest",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := logpkg.New(tt.config)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			wantLevel, perr := zerolog.ParseLevel(tt.config.Level)
			assert.NoError(t, perr)
			assert.Equal(t, wantLevel, zerolog.GlobalLevel())
			// The returned logger must be usable without panicking.
			logger.Info().Msg("logger smoke check")
		})
	}
}

func TestLoggerConfig_DefaultsApplied(t *testing.T) {
	cfg := &logpkg.LoggerConfig{}
	_, err := logpkg.New(cfg)
	assert.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "handball-stats-service", cfg.ServiceName)
}
