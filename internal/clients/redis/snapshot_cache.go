package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/prizely-backend/internal/compare"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

const DefaultSnapshotKey = "prizely:catalog:snapshot"

// SnapshotCache stores the most recent catalog snapshot between catalog writes.
//
// Every Invalidate bumps a generation counter. Callers read Generation before loading
// from the database and hand it back to Set, which drops the snapshot when a write
// was invalidated in between.
type SnapshotCache interface {
	Get(ctx context.Context) (*compare.Snapshot, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, gen int64, snap *compare.Snapshot) (bool, error)
	Invalidate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
}

type snapshotCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	key    string
	genKey string
	ttl    time.Duration
}

// NewSnapshotCache connects to Redis and verifies the connection with a ping.
func NewSnapshotCache(log *logger.Logger, cfg Config) (SnapshotCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = DefaultSnapshotKey
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &snapshotCache{
		log:    log.With("service", "RedisSnapshotCache"),
		rdb:    rdb,
		key:    key,
		genKey: key + ":gen",
		ttl:    cfg.TTL,
	}, nil
}

func (c *snapshotCache) Get(ctx context.Context) (*compare.Snapshot, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var snap compare.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.log.Warn("bad cached snapshot, dropping", "error", err)
		_ = c.rdb.Del(ctx, c.key).Err()
		return nil, false, nil
	}
	if snap.Prices == nil {
		snap.Prices = compare.PriceMap{}
	}
	return &snap, true, nil
}

func (c *snapshotCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

// Set stores snap under WATCH of the generation key. It reports false without error
// when the generation moved past gen, before or during the write.
func (c *snapshotCache) Set(ctx context.Context, gen int64, snap *compare.Snapshot) (bool, error) {
	if snap == nil {
		return false, nil
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return false, err
	}
	stored := false
	err = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, c.genKey).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		if _, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, c.key, raw, c.ttl)
			return nil
		}); err != nil {
			return err
		}
		stored = true
		return nil
	}, c.genKey)
	if errors.Is(err, goredis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis set: %w", err)
	}
	return stored, nil
}

func (c *snapshotCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	return err
}

func (c *snapshotCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *snapshotCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// NoopCache never stores anything. It is used when REDIS_ADDR is unset.
type NoopCache struct{}

func (NoopCache) Get(context.Context) (*compare.Snapshot, bool, error)        { return nil, false, nil }
func (NoopCache) Generation(context.Context) (int64, error)                   { return 0, nil }
func (NoopCache) Set(context.Context, int64, *compare.Snapshot) (bool, error) { return false, nil }
func (NoopCache) Invalidate(context.Context) error                            { return nil }
func (NoopCache) Ping(context.Context) error                                  { return nil }
func (NoopCache) Close() error                                                { return nil }
