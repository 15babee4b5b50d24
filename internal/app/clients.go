package app

import (
	"fmt"

	"github.com/yungbote/prizely-backend/internal/clients/redis"
	"github.com/yungbote/prizely-backend/internal/data/db"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

type Clients struct {
	DB    *db.Service
	Cache redis.SnapshotCache
}

// wireClients opens and migrates the database. Redis is optional: without
// REDIS_ADDR, or when it cannot be reached, snapshots are not cached.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	dbSvc, err := db.Open(cfg.DB, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbSvc.DB()); err != nil {
		_ = dbSvc.Close()
		return Clients{}, fmt.Errorf("automigrate: %w", err)
	}
	if err := db.EnsureCatalogIndexes(dbSvc.DB()); err != nil {
		_ = dbSvc.Close()
		return Clients{}, fmt.Errorf("catalog indexes: %w", err)
	}

	var cache redis.SnapshotCache = redis.NoopCache{}
	if cfg.Redis.Addr != "" {
		c, err := redis.NewSnapshotCache(log, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable; snapshot cache disabled", "error", err)
		} else {
			cache = c
		}
	}

	return Clients{DB: dbSvc, Cache: cache}, nil
}

func (c Clients) Close(log *logger.Logger) {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Warn("close snapshot cache", "error", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn("close database", "error", err)
		}
	}
}
