// API server entry point for reqtrack.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/juberis/reqtrack/internal/application/deadline"
	"github.com/juberis/reqtrack/internal/application/holidays"
	"github.com/juberis/reqtrack/internal/config"
	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/internal/domain/scheduling"
	"github.com/juberis/reqtrack/internal/infrastructure/database/postgres"
	"github.com/juberis/reqtrack/internal/infrastructure/database/postgres/repositories"
	"github.com/juberis/reqtrack/internal/infrastructure/database/redis"
	"github.com/juberis/reqtrack/internal/infrastructure/messaging/kafka"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/juberis/reqtrack/internal/interfaces/http"
	"github.com/juberis/reqtrack/internal/interfaces/http/handlers"
)

// Version is injected via ldflags.
var Version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string, portOverride int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	logger.Info("starting reqtrack API server",
		logging.String("version", Version),
		logging.Int("port", cfg.Server.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database.
	db, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(cfg.Database, cfg.Database.MigrationPath); err != nil {
		return err
	}

	// Cache.
	cacheClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer cacheClient.Close()

	// Metrics.
	metrics := prometheus.New()

	// Repositories.
	holidayRepo := repositories.NewHolidayRepository(db.Pool(), logger)
	sectorRepo := repositories.NewSectorRepository(db.Pool(), logger)
	pairingRepo := repositories.NewPairingRepository(db.Pool(), logger)
	overrideRepo := repositories.NewDelayOverrideRepository(db.Pool(), logger)

	// Holiday calendar over the cache.
	cache := redis.NewCache(cacheClient, logger, redis.WithPrefix(cfg.Redis.KeyPrefix))
	holidayCalendar := calendar.NewHolidayCalendar(holidayRepo, cache,
		calendar.WithCacheTTL(cfg.Engine.HolidayCacheTTL),
		calendar.WithCalendarMetrics(metrics),
		calendar.WithCalendarLogger(logger),
	)

	// Computation engine.
	loc, err := cfg.Engine.Location()
	if err != nil {
		return err
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
		deadline.WithMetrics(metrics),
	)

	// Holiday write service, optionally publishing change events.
	serviceOpts := []holidays.ServiceOption{
		holidays.WithLogger(logger),
		holidays.WithLocation(loc),
	}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			return err
		}
		defer producer.Close()
		serviceOpts = append(serviceOpts, holidays.WithEventPublisher(producer))
	}
	holidayService := holidays.NewService(holidayRepo, holidayCalendar, serviceOpts...)

	// HTTP surface.
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Mode:            cfg.Server.Mode,
		DeadlineHandler: handlers.NewDeadlineHandler(engine),
		HolidayHandler:  handlers.NewHolidayHandler(holidayService),
		HealthHandler: handlers.NewHealthHandler(Version,
			handlers.CheckerFunc{ComponentName: "postgres", CheckFn: db.HealthCheck},
			handlers.CheckerFunc{ComponentName: "redis", CheckFn: cacheClient.HealthCheck},
		),
		MetricsHandler: metrics.Handler(),
		Logger:         logger,
		Metrics:        metrics,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	return srv.Stop(context.Background())
}
