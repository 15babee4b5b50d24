package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	types "github.com/yungbote/prizely-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedItem(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, unit types.Unit) *types.Item {
	tb.Helper()
	it := &types.Item{
		ID:   uuid.New(),
		Name: name,
		Unit: unit,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed item: %v", err)
	}
	return it
}

func SeedMarket(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, verified bool) *types.Market {
	tb.Helper()
	m := &types.Market{
		ID:       uuid.New(),
		Name:     name,
		Verified: verified,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed market: %v", err)
	}
	return m
}

func SeedPrice(tb testing.TB, ctx context.Context, tx *gorm.DB, itemID, marketID uuid.UUID, price float64) *types.Price {
	tb.Helper()
	p := &types.Price{
		ID:       uuid.New(),
		ItemID:   itemID,
		MarketID: marketID,
		Price:    price,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed price: %v", err)
	}
	return p
}
