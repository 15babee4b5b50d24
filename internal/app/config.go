package app

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/yungbote/prizely-backend/internal/clients/redis"
	"github.com/yungbote/prizely-backend/internal/data/db"
	"github.com/yungbote/prizely-backend/internal/observability"
	"github.com/yungbote/prizely-backend/internal/platform/envutil"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

type Config struct {
	Port    string
	LogMode string

	DB    db.Config
	Redis redis.Config
	Otel  observability.OtelConfig

	SeedOnStart bool
	SeedFile    string

	ReportLocation *time.Location
	CORSOrigins    []string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		DB:      db.ConfigFromEnv(),
		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			Key:      envutil.String("REDIS_SNAPSHOT_KEY", redis.DefaultSnapshotKey),
			TTL:      envutil.Duration("CACHE_TTL", 5*time.Minute),
		},
		Otel:            observability.OtelConfigFromEnv(),
		SeedOnStart:     envutil.Bool("SEED_ON_START", false),
		SeedFile:        envutil.String("SEED_FILE", ""),
		ReportLocation:  time.Local,
		CORSOrigins:     envutil.List("CORS_ORIGINS", nil),
		RequestTimeout:  envutil.Duration("REQUEST_TIMEOUT", 15*time.Second),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	cfg.Otel.Version = Version

	if tz := envutil.String("REPORT_TZ", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			if log != nil {
				log.Warn("invalid REPORT_TZ; using local time", "tz", tz, "error", err)
			}
		} else {
			cfg.ReportLocation = loc
		}
	}

	cfg.Port = strings.TrimPrefix(cfg.Port, ":")
	return cfg
}

func (c Config) Addr() string {
	return ":" + c.Port
}
