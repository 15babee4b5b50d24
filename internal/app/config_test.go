package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yungbote/prizely-backend/internal/clients/redis"
	"github.com/yungbote/prizely-backend/internal/data/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "REDIS_ADDR", "CACHE_TTL", "REPORT_TZ", "CORS_ORIGINS", "SEED_ON_START"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(nil)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, db.DriverPostgres, cfg.DB.Driver)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, redis.DefaultSnapshotKey, cfg.Redis.Key)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, time.Local, cfg.ReportLocation)
	assert.Nil(t, cfg.CORSOrigins)
	assert.False(t, cfg.SeedOnStart)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CACHE_TTL", "30")
	t.Setenv("REPORT_TZ", "Asia/Karachi")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SEED_ON_START", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := LoadConfig(nil)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "Asia/Karachi", cfg.ReportLocation.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfigBadTimezoneFallsBack(t *testing.T) {
	t.Setenv("REPORT_TZ", "Mars/Olympus")
	cfg := LoadConfig(nil)
	assert.Equal(t, time.Local, cfg.ReportLocation)
}
