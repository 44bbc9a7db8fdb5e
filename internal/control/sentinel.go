// Package control wires the resilience core (classifier, orchestrator,
// aggregator, connectivity monitor) into a runnable service with an HTTP
// status surface.
package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/spf13/afero"

	"github.com/vietddude/sentinel/internal/aggregate"
	"github.com/vietddude/sentinel/internal/connectivity"
	"github.com/vietddude/sentinel/internal/core/config"
	"github.com/vietddude/sentinel/internal/export"
	"github.com/vietddude/sentinel/internal/handler"
	redisclient "github.com/vietddude/sentinel/internal/infra/redis"
	"github.com/vietddude/sentinel/internal/infra/storage/postgres"
	"github.com/vietddude/sentinel/internal/notify"
	"github.com/vietddude/sentinel/internal/retry"
)

// Sentinel is the main application struct managing the resilience core's
// lifecycle.
type Sentinel struct {
	cfg     config.AppConfig
	agg     *aggregate.Aggregator
	orch    *retry.Orchestrator
	monitor *connectivity.Monitor
	h       *handler.Handler
	writer  *export.FileWriter
	reports *postgres.ReportRepo
	redis   *redisclient.Client
	db      *postgres.DB
	server  *Server
	log     *slog.Logger
}

// New creates a Sentinel with all dependencies initialized. Redis and
// Postgres are optional: with no URLs configured the service runs fully
// in-memory and notifications go to structured logs only.
func New(cfg config.AppConfig) (*Sentinel, error) {
	log := slog.Default()

	// 1. Notification fan-out
	dispatchers := notify.Multi{notify.NewLogDispatcher(log)}

	var redisClient *redisclient.Client
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		channel := cfg.Redis.Channel
		if channel == "" {
			channel = "sentinel:notifications"
		}
		dispatchers = append(dispatchers, notify.NewRedisDispatcher(redisClient, channel, log))
	}
	dispatcher := notify.NewInstrumented(dispatchers)

	// 2. Core: aggregator, orchestrator, facade
	agg := aggregate.New()
	orch := retry.New(cfg.Retry.RetrySettings(), retry.NewAttemptStore(), dispatcher, agg, log)
	h := handler.New(agg, orch, dispatcher, log)

	// 3. Connectivity monitor
	prober, err := buildProber(cfg.Probe)
	if err != nil {
		return nil, err
	}
	monitor := connectivity.NewMonitor(cfg.Probe.MonitorSettings(), prober, dispatcher, log)

	// 4. Report archive
	var db *postgres.DB
	var reports *postgres.ReportRepo
	if cfg.Database.URL != "" {
		db, err = postgres.NewDB(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		reports = postgres.NewReportRepo(db)
	}

	writer := export.NewFileWriter(afero.NewOsFs(), cfg.Export.Dir)

	s := &Sentinel{
		cfg:     cfg,
		agg:     agg,
		orch:    orch,
		monitor: monitor,
		h:       h,
		writer:  writer,
		reports: reports,
		redis:   redisClient,
		db:      db,
		log:     log,
	}
	s.server = NewServer(s, cfg.Server.Port)
	return s, nil
}

func buildProber(cfg config.ProbeConfig) (connectivity.Prober, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	switch cfg.Kind {
	case "grpc":
		return connectivity.NewGRPCProber(cfg.Endpoint, cfg.Service)
	case "", "http":
		return connectivity.NewHTTPProber(cfg.Endpoint, cfg.Timeout.Std()), nil
	default:
		return nil, fmt.Errorf("unknown probe kind: %s", cfg.Kind)
	}
}

// Start launches the connectivity monitor and the HTTP server.
func (s *Sentinel) Start(ctx context.Context) error {
	s.monitor.Start(ctx)

	go func() {
		s.log.Info("HTTP server starting", "port", s.cfg.Server.Port)
		if err := s.server.Start(); err != nil {
			s.log.Error("HTTP server stopped", "error", err)
		}
	}()
	return nil
}

// Stop shuts everything down gracefully.
func (s *Sentinel) Stop(ctx context.Context) error {
	s.monitor.Stop()

	if err := s.server.Stop(ctx); err != nil {
		s.log.Error("Failed to stop HTTP server", "error", err)
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Error("Failed to close redis", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Error("Failed to close db", "error", err)
		}
	}
	return nil
}

// Handler returns the error-handling facade for embedding callers.
func (s *Sentinel) Handler() *handler.Handler { return s.h }

// Monitor returns the connectivity monitor.
func (s *Sentinel) Monitor() *connectivity.Monitor { return s.monitor }
