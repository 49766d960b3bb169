package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/wayfarer-labs/itinerary-planner/internal/core"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/graph"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/metrics"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/model"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/repo"
	logx "github.com/wayfarer-labs/itinerary-planner/pkg/logger"
	pkgredis "github.com/wayfarer-labs/itinerary-planner/pkg/redis"
)

// AppConfig defines all configurable parameters of the planner, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config
	HTTP  HTTPConfig

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Planner configs
	Itinerary model.ItineraryModelConfig
	Session   model.SessionConfig
}

type HTTPConfig struct {
	Addr           string        `envconfig:"HTTP_ADDR" default:":8080"`
	RequestTimeout time.Duration `envconfig:"HTTP_REQUEST_TIMEOUT" default:"90s"`
	AllowedOrigins []string      `envconfig:"HTTP_ALLOWED_ORIGINS"`
}

// app bundles the process-wide collaborators. The runner and its chat
// model client are built once and shared by every request.
type app struct {
	runner   graph.Runner
	sessions model.SessionRepository
	registry *prometheus.Registry
	rdb      *goredis.Client
}

func newApp(ctx context.Context, cfg AppConfig) (*app, error) {
	a := &app{registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(a.registry)

	var sessions model.SessionRepository
	if cfg.Redis.Enabled() {
		ttl, err := time.ParseDuration(cfg.Session.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", cfg.Session.TTL, err)
		}
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		a.rdb = rdb
		a.sessions = repo.NewRedisSessionRepository(rdb, ttl)
		sessions = a.sessions
		logx.Info().Dur("ttl", ttl).Msg("Session archive enabled")
	} else {
		logx.Info().Msg("REDIS_URL not set, session archive disabled")
	}

	runner, err := graph.BuildItineraryGraph(ctx, graph.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Itinerary,
		SessionRepo: sessions,
		Metrics:     m,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	a.runner = runner
	return a, nil
}

func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			logx.Warn().Err(err).Msg("Error closing Redis client")
		}
	}
}

func (c AppConfig) env() core.Environment {
	return core.ParseEnvironment(c.Environment)
}
