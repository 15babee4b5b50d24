package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yungbote/prizely-backend/internal/compare"
	"github.com/yungbote/prizely-backend/internal/data/db"
	"github.com/yungbote/prizely-backend/internal/data/repos"
	"github.com/yungbote/prizely-backend/internal/data/repos/testutil"
	"github.com/yungbote/prizely-backend/internal/platform/apierr"
	"gorm.io/gorm"
)

type harness struct {
	db    *gorm.DB
	repos repos.Repos
	tx    db.TxRunner
}

func newHarness(t *testing.T) harness {
	t.Helper()
	if testutil.UsingPostgres() {
		t.Skip("service tests commit data; run against the in-memory database only")
	}
	gdb := testutil.DB(t)
	return harness{
		db:    gdb,
		repos: repos.New(gdb, testutil.Logger(t)),
		tx:    db.NewGormTxRunner(gdb),
	}
}

type countingListener struct {
	mu    sync.Mutex
	calls int
}

func (l *countingListener) CatalogChanged(context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
}

func (l *countingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type memoryCache struct {
	mu          sync.Mutex
	snap        *compare.Snapshot
	gen         int64
	gets, sets  int
	invalidated int
}

func (c *memoryCache) Get(context.Context) (*compare.Snapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.snap, c.snap != nil, nil
}

func (c *memoryCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *memoryCache) Set(_ context.Context, gen int64, s *compare.Snapshot) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false, nil
	}
	c.sets++
	c.snap = s
	return true, nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.gen++
	c.snap = nil
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }

func (c *memoryCache) Close() error { return nil }

func requireStatus(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, apierr.StatusOf(err), "error: %v", err)
	if code != "" {
		var ae *apierr.Error
		require.ErrorAs(t, err, &ae)
		require.Equal(t, code, ae.Code)
	}
}
