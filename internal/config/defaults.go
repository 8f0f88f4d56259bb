// Package config provides configuration loading, defaults, and validation
// for the reqtrack deadline service.
package config

import (
	"time"

	"github.com/juberis/reqtrack/internal/domain/calendar"
)

const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "reqtrack"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "reqtrack:"

	DefaultKafkaAcks = "all"

	DefaultEngineTimezone      = "UTC"
	DefaultUrgencyThreshold    = 1
	DefaultHoursPerBusinessDay = 8

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// It must be called after unmarshalling and before Validate so that
// optional-but-defaulted fields are never seen as missing.  Fields the
// caller set explicitly are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "migrations"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	// Redis.DB is an int; 0 is a valid explicit value and also the
	// default, so it is left as-is.

	if cfg.Kafka.Enabled() {
		if cfg.Kafka.Acks == "" {
			cfg.Kafka.Acks = DefaultKafkaAcks
		}
		if cfg.Kafka.ProducerRetries == 0 {
			cfg.Kafka.ProducerRetries = 3
		}
		if cfg.Kafka.WriteTimeout == 0 {
			cfg.Kafka.WriteTimeout = 10 * time.Second
		}
	}

	if cfg.Engine.Timezone == "" {
		cfg.Engine.Timezone = DefaultEngineTimezone
	}
	if cfg.Engine.UrgencyThresholdDays == 0 {
		cfg.Engine.UrgencyThresholdDays = DefaultUrgencyThreshold
	}
	if cfg.Engine.HoursPerBusinessDay == 0 {
		cfg.Engine.HoursPerBusinessDay = DefaultHoursPerBusinessDay
	}
	if cfg.Engine.HolidayCacheTTL == 0 {
		cfg.Engine.HolidayCacheTTL = calendar.DefaultHolidayCacheTTL
	}
	if cfg.Engine.IterationCap == 0 {
		cfg.Engine.IterationCap = calendar.DefaultIterationCap
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
