// Package cli implements the reqtrack command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/juberis/reqtrack/internal/application/deadline"
	"github.com/juberis/reqtrack/internal/config"
	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/internal/domain/scheduling"
	"github.com/juberis/reqtrack/internal/infrastructure/database/postgres"
	"github.com/juberis/reqtrack/internal/infrastructure/database/postgres/repositories"
	"github.com/juberis/reqtrack/internal/infrastructure/database/redis"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command with all global flags and
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "reqtrack",
		Short:   "Processing deadline computation for service requests",
		Long:    "reqtrack computes business-day processing deadlines for service requests,\naccounting for sector cutoff times, holidays and per-pairing delay rules.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override: debug|info|warn|error")

	cmd.AddCommand(
		NewComputeCommand(opts),
		NewHolidayCommand(opts),
		NewMigrateCommand(opts),
	)
	return cmd
}

// Execute runs the root command, printing any error to stderr.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

// runtime bundles the connections and services a CLI command needs.
type runtime struct {
	cfg      *config.Config
	logger   logging.Logger
	db       *postgres.Connection
	cache    *redis.Client
	holidays calendar.HolidayRepository
	calendar *calendar.HolidayCalendar
	engine   *deadline.Engine
}

// newRuntime loads config and connects to the backing stores.  Call
// close when done.
func newRuntime(ctx context.Context, opts *RootOptions) (*runtime, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	cacheClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	holidayRepo := repositories.NewHolidayRepository(db.Pool(), logger)
	sectorRepo := repositories.NewSectorRepository(db.Pool(), logger)
	pairingRepo := repositories.NewPairingRepository(db.Pool(), logger)
	overrideRepo := repositories.NewDelayOverrideRepository(db.Pool(), logger)

	cache := redis.NewCache(cacheClient, logger, redis.WithPrefix(cfg.Redis.KeyPrefix))
	holidayCalendar := calendar.NewHolidayCalendar(holidayRepo, cache,
		calendar.WithCacheTTL(cfg.Engine.HolidayCacheTTL),
		calendar.WithCalendarLogger(logger),
	)

	loc, err := cfg.Engine.Location()
	if err != nil {
		db.Close()
		_ = cacheClient.Close()
		return nil, err
	}
	engine := deadline.NewEngine(
		deadline.Config{
			Location:             loc,
			UrgencyThresholdDays: cfg.Engine.UrgencyThresholdDays,
			HoursPerBusinessDay:  cfg.Engine.HoursPerBusinessDay,
			IterationCap:         cfg.Engine.IterationCap,
		},
		scheduling.NewDelayResolver(pairingRepo, overrideRepo),
		scheduling.NewSectorCalendarConfig(sectorRepo),
		holidayCalendar,
		holidayRepo,
		deadline.WithLogger(logger),
	)

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		cache:    cacheClient,
		holidays: holidayRepo,
		calendar: holidayCalendar,
		engine:   engine,
	}, nil
}

func (r *runtime) close() {
	if r.cache != nil {
		_ = r.cache.Close()
	}
	if r.db != nil {
		r.db.Close()
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
