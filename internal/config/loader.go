package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all service settings.
const envPrefix = "REQTRACK"

// newViper builds a pre-configured Viper instance: YAML file type,
// REQTRACK_ env prefix, automatic env binding, and a key replacer mapping
// "." to "_" so that nested keys like "database.host" resolve to
// "REQTRACK_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindKeys(v)
	return v
}

// bindKeys registers every supported key so that values supplied only
// through the environment survive Unmarshal.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.mode", "server.read_timeout",
		"server.write_timeout", "server.shutdown_timeout",
		"database.host", "database.port", "database.user",
		"database.password", "database.db_name", "database.ssl_mode",
		"database.max_conns", "database.max_idle_conns",
		"database.conn_max_lifetime", "database.conn_max_idle_time",
		"database.migration_path",
		"redis.addr", "redis.password", "redis.db", "redis.pool_size",
		"redis.min_idle_conns", "redis.dial_timeout", "redis.read_timeout",
		"redis.write_timeout", "redis.key_prefix",
		"kafka.brokers", "kafka.acks", "kafka.producer_retries",
		"kafka.write_timeout",
		"engine.timezone", "engine.urgency_threshold_days",
		"engine.hours_per_business_day", "engine.holiday_cache_ttl",
		"engine.iteration_cap",
		"log.level", "log.format", "log.output_paths", "log.error_output_paths",
	} {
		_ = v.BindEnv(key)
	}
}

// Load reads the YAML file at configPath, merges REQTRACK_* environment
// variable overrides, applies defaults for unset fields, and validates
// the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from REQTRACK_* environment
// variables, with no config file required.  This is the preferred loading
// strategy for containerised deployments.
//
// Naming convention:
//
//	REQTRACK_<SECTION>_<FIELD>   e.g.  REQTRACK_DATABASE_HOST, REQTRACK_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the
// newly parsed Config whenever the file is modified.  It is intended for
// hot-reloading non-critical settings such as the log level; callers are
// responsible for applying only the safe subset of changes at runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by
// viper.  A changed file that fails to parse or validate does not invoke
// onChange.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers should have called Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on any error, for use in main where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
