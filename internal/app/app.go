package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prizely-backend/internal/clients/redis"
	"github.com/yungbote/prizely-backend/internal/data/repos"
	"github.com/yungbote/prizely-backend/internal/http"
	"github.com/yungbote/prizely-backend/internal/observability"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

// Version is stamped at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    repos.Repos
	Services Services
	Metrics  *observability.Metrics
	Router   *gin.Engine

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if logMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log)

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := repos.New(clients.DB.DB(), log)
	serviceset, err := wireServices(log, cfg, clients, reposet, metrics)
	if err != nil {
		clients.Close(log)
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, clients, serviceset)
	router := wireRouter(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Router:       router,
		otelShutdown: otelShutdown,
	}, nil
}

// Run seeds an empty catalog when SEED_ON_START is set, starts the metrics
// collectors and serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}

	if a.Cfg.SeedOnStart {
		seeded, err := a.Services.Seeder.SeedIfEmpty(ctx, a.Services.Dataset)
		if err != nil {
			return fmt.Errorf("seed on start: %w", err)
		}
		if seeded {
			a.Services.Comparison.CatalogChanged(ctx)
		}
	}

	a.Metrics.StartDBCollector(ctx, a.Log, a.Clients.DB.DB())
	if _, noop := a.Clients.Cache.(redis.NoopCache); !noop {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Cache)
	}

	srv := http.NewServer(http.ServerConfig{
		Addr:              a.Cfg.Addr(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		ShutdownTimeout:   a.Cfg.ShutdownTimeout,
	}, a.Log, a.Router)
	return srv.Run(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	a.Clients.Close(a.Log)
	if a.Log != nil {
		a.Log.Sync()
	}
}
