// Package config defines the configuration structures for the reqtrack
// deadline service.  No I/O or parsing logic lives here, only plain data
// types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// DSN renders the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds event-bus producer parameters.  Kafka is optional:
// an empty broker list disables event publishing.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	Acks            string        `mapstructure:"acks"` // "none" | "one" | "all"
	ProducerRetries int           `mapstructure:"producer_retries"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// Enabled reports whether event publishing is configured.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// EngineConfig holds the deadline calculation tunables.
type EngineConfig struct {
	// Timezone is the single deployment-wide zone all instants are
	// normalized to before arithmetic.
	Timezone             string        `mapstructure:"timezone"`
	UrgencyThresholdDays int           `mapstructure:"urgency_threshold_days"`
	HoursPerBusinessDay  int           `mapstructure:"hours_per_business_day"`
	HolidayCacheTTL      time.Duration `mapstructure:"holiday_cache_ttl"`
	IterationCap         int           `mapstructure:"iteration_cap"`
}

// Location resolves the configured timezone.
func (c EngineConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: engine.timezone %q is invalid: %w", c.Timezone, err)
	}
	return loc, nil
}

// Config is the root configuration structure for the service.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Database DatabaseConfig    `mapstructure:"database"`
	Redis    RedisConfig       `mapstructure:"redis"`
	Kafka    KafkaConfig       `mapstructure:"kafka"`
	Engine   EngineConfig      `mapstructure:"engine"`
	Log      logging.LogConfig `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// Callers should treat any error as fatal and refuse to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be >= 1, got %d", c.Database.MaxConns)
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if c.Kafka.Enabled() {
		switch c.Kafka.Acks {
		case "none", "one", "all":
		default:
			return fmt.Errorf("config: kafka.acks %q is invalid; expected none|one|all", c.Kafka.Acks)
		}
	}

	if c.Engine.UrgencyThresholdDays < 0 {
		return fmt.Errorf("config: engine.urgency_threshold_days must be >= 0, got %d", c.Engine.UrgencyThresholdDays)
	}
	if c.Engine.HoursPerBusinessDay < 1 || c.Engine.HoursPerBusinessDay > 24 {
		return fmt.Errorf("config: engine.hours_per_business_day %d is out of range [1, 24]", c.Engine.HoursPerBusinessDay)
	}
	if c.Engine.HolidayCacheTTL <= 0 {
		return fmt.Errorf("config: engine.holiday_cache_ttl must be positive, got %s", c.Engine.HolidayCacheTTL)
	}
	if c.Engine.IterationCap < 1 {
		return fmt.Errorf("config: engine.iteration_cap must be >= 1, got %d", c.Engine.IterationCap)
	}
	if _, err := c.Engine.Location(); err != nil {
		return err
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
