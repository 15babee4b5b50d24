package catalog

import (
	"context"

	"github.com/yungbote/prizely-backend/internal/compare"
	"gorm.io/gorm"
)

// Reader adapts the repositories to compare.CatalogReader. Items and markets come back
// ordered by name.
type Reader struct {
	Items   ItemRepo
	Markets MarketRepo
	Prices  PriceRepo
	Tx      *gorm.DB
}

var _ compare.CatalogReader = (*Reader)(nil)

func (r *Reader) AllItems(ctx context.Context) ([]compare.ItemRecord, error) {
	rows, err := r.Items.List(ctx, r.Tx, ItemFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]compare.ItemRecord, 0, len(rows))
	for _, it := range rows {
		out = append(out, compare.ItemRecord{
			ID:       it.ID.String(),
			ItemMeta: compare.ItemMeta{Name: it.Name, Unit: string(it.Unit), Emoji: it.Emoji},
		})
	}
	return out, nil
}

func (r *Reader) AllMarkets(ctx context.Context) ([]compare.MarketRecord, error) {
	rows, err := r.Markets.List(ctx, r.Tx, MarketFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]compare.MarketRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, compare.MarketRecord{
			ID:         m.ID.String(),
			MarketMeta: compare.MarketMeta{Name: m.Name, Rating: m.Rating, Verified: m.Verified},
		})
	}
	return out, nil
}

func (r *Reader) AllPrices(ctx context.Context) ([]compare.PriceEntry, error) {
	rows, err := r.Prices.ListRaw(ctx, r.Tx)
	if err != nil {
		return nil, err
	}
	out := make([]compare.PriceEntry, 0, len(rows))
	for _, p := range rows {
		out = append(out, compare.PriceEntry{
			ItemID:   p.ItemID.String(),
			MarketID: p.MarketID.String(),
			Price:    p.Price,
		})
	}
	return out, nil
}
