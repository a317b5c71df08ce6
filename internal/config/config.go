package config

import (
	"github.com/vportnov/handball-stats-service/internal/logger"
)

// Config is the full application configuration tree.
type Config struct {
	Server   ServerConfig        `mapstructure:"server"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Redis    RedisConfig         `mapstructure:"redis"`
	Match    MatchConfig         `mapstructure:"match"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"dbname"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`   // seconds
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`  // seconds
	HealthCheckPeriod int    `mapstructure:"health_check_period"` // seconds
}

type RedisConfig struct {
	Addr        string `mapstructure:"addr"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	SnapshotTTL int    `mapstructure:"snapshot_ttl"` // seconds
}

type MatchConfig struct {
	// DefaultDurationSeconds applies when a match is created without an
	// explicit duration. Regulation handball is 2x30 minutes.
	DefaultDurationSeconds int `mapstructure:"default_duration_seconds"`
}
