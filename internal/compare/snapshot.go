package compare

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ItemRecord, MarketRecord and PriceEntry are the read shapes the catalog store hands
// to the comparison core.
type ItemRecord struct {
	ID string
	ItemMeta
}

type MarketRecord struct {
	ID string
	MarketMeta
}

// CatalogReader is the catalog store as seen by the comparison core.
type CatalogReader interface {
	AllItems(ctx context.Context) ([]ItemRecord, error)
	AllMarkets(ctx context.Context) ([]MarketRecord, error)
	AllPrices(ctx context.Context) ([]PriceEntry, error)
}

// Snapshot is an immutable read of the whole catalog. ItemOrder and MarketOrder keep
// the order the store returned rows in.
type Snapshot struct {
	Items       map[string]ItemMeta   `json:"items"`
	Markets     map[string]MarketMeta `json:"markets"`
	Prices      PriceMap              `json:"prices"`
	ItemOrder   []string              `json:"item_order"`
	MarketOrder []string              `json:"market_order"`
}

// LoadSnapshot reads items, markets and prices concurrently and assembles a Snapshot.
func LoadSnapshot(ctx context.Context, r CatalogReader) (*Snapshot, error) {
	var (
		items   []ItemRecord
		markets []MarketRecord
		entries []PriceEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if items, err = r.AllItems(gctx); err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if markets, err = r.AllMarkets(gctx); err != nil {
			return fmt.Errorf("load markets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if entries, err = r.AllPrices(gctx); err != nil {
			return fmt.Errorf("load prices: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewSnapshot(items, markets, entries), nil
}

func NewSnapshot(items []ItemRecord, markets []MarketRecord, entries []PriceEntry) *Snapshot {
	s := &Snapshot{
		Items:       make(map[string]ItemMeta, len(items)),
		Markets:     make(map[string]MarketMeta, len(markets)),
		Prices:      NewPriceMap(entries),
		ItemOrder:   make([]string, 0, len(items)),
		MarketOrder: make([]string, 0, len(markets)),
	}
	for _, it := range items {
		s.Items[it.ID] = it.ItemMeta
		s.ItemOrder = append(s.ItemOrder, it.ID)
	}
	for _, m := range markets {
		s.Markets[m.ID] = m.MarketMeta
		s.MarketOrder = append(s.MarketOrder, m.ID)
	}
	return s
}

// Validate returns an *UnknownRefError for the first id missing from the snapshot.
func (s *Snapshot) Validate(itemIDs, marketIDs []string) error {
	for _, id := range itemIDs {
		if _, ok := s.Items[id]; !ok {
			return &UnknownRefError{Kind: "item", ID: id}
		}
	}
	for _, id := range marketIDs {
		if _, ok := s.Markets[id]; !ok {
			return &UnknownRefError{Kind: "market", ID: id}
		}
	}
	return nil
}
