package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/prizely-backend/internal/data/db"
	"github.com/yungbote/prizely-backend/internal/data/repos"
	types "github.com/yungbote/prizely-backend/internal/domain"
	"github.com/yungbote/prizely-backend/internal/platform/dbctx"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type Stats struct {
	Items   int `json:"items"`
	Markets int `json:"markets"`
	Prices  int `json:"prices"`
}

type Seeder struct {
	repos repos.Repos
	tx    db.TxRunner
	log   *logger.Logger
}

func NewSeeder(r repos.Repos, tx db.TxRunner, baseLog *logger.Logger) *Seeder {
	return &Seeder{repos: r, tx: tx, log: baseLog.With("component", "Seeder")}
}

// Run writes ds into the catalog in one transaction. Items and markets are matched by
// name (case-insensitive) and updated in place; prices are upserted per pair. With
// reset, every existing price, item and market is deleted first.
func (s *Seeder) Run(ctx context.Context, ds *Dataset, reset bool) (Stats, error) {
	var stats Stats
	if ds == nil {
		return stats, fmt.Errorf("seed: nil dataset")
	}
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if reset {
			if err := s.wipe(dbc); err != nil {
				return err
			}
		}

		marketIDs, err := s.upsertMarkets(dbc, ds.Markets)
		if err != nil {
			return err
		}
		itemIDs, err := s.upsertItems(dbc, ds.Items)
		if err != nil {
			return err
		}

		for i, it := range ds.Items {
			for j, p := range it.Prices {
				if p == nil {
					continue
				}
				if _, _, err := s.repos.Price.Upsert(dbc.Ctx, dbc.Tx, itemIDs[i], marketIDs[j], *p); err != nil {
					return fmt.Errorf("seed price %s@%s: %w", it.Name, ds.Markets[j].Name, err)
				}
				stats.Prices++
			}
		}
		stats.Items = len(itemIDs)
		stats.Markets = len(marketIDs)
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	s.log.Info("Catalog seeded", "items", stats.Items, "markets", stats.Markets, "prices", stats.Prices, "reset", reset)
	return stats, nil
}

// SeedIfEmpty runs ds only when the catalog holds no items.
func (s *Seeder) SeedIfEmpty(ctx context.Context, ds *Dataset) (bool, error) {
	n, err := s.repos.Item.Count(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("count items: %w", err)
	}
	if n > 0 {
		s.log.Debug("Catalog not empty, skipping seed", "items", n)
		return false, nil
	}
	if _, err := s.Run(ctx, ds, false); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Seeder) wipe(dbc dbctx.Context) error {
	if err := s.repos.Price.DeleteAll(dbc.Ctx, dbc.Tx); err != nil {
		return fmt.Errorf("wipe prices: %w", err)
	}
	if err := s.repos.Item.DeleteAll(dbc.Ctx, dbc.Tx); err != nil {
		return fmt.Errorf("wipe items: %w", err)
	}
	if err := s.repos.Market.DeleteAll(dbc.Ctx, dbc.Tx); err != nil {
		return fmt.Errorf("wipe markets: %w", err)
	}
	return nil
}

func (s *Seeder) upsertMarkets(dbc dbctx.Context, defs []MarketSpec) ([]uuid.UUID, error) {
	names := make([]string, 0, len(defs))
	for _, m := range defs {
		names = append(names, m.Name)
	}
	existing, err := s.repos.Market.GetByNames(dbc.Ctx, dbc.Tx, names)
	if err != nil {
		return nil, fmt.Errorf("lookup markets: %w", err)
	}
	byName := make(map[string]*types.Market, len(existing))
	for _, m := range existing {
		byName[strings.ToLower(m.Name)] = m
	}

	ids := make([]uuid.UUID, len(defs))
	for i, def := range defs {
		if cur, ok := byName[strings.ToLower(strings.TrimSpace(def.Name))]; ok {
			if err := s.repos.Market.Update(dbc.Ctx, dbc.Tx, cur.ID, map[string]any{
				"rating":   def.Rating,
				"verified": def.Verified,
			}); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("update market %s: %w", def.Name, err)
			}
			ids[i] = cur.ID
			continue
		}
		created, err := s.repos.Market.Create(dbc.Ctx, dbc.Tx, []*types.Market{{
			Name:     strings.TrimSpace(def.Name),
			Rating:   def.Rating,
			Verified: def.Verified,
		}})
		if err != nil {
			return nil, fmt.Errorf("create market %s: %w", def.Name, err)
		}
		ids[i] = created[0].ID
	}
	return ids, nil
}

func (s *Seeder) upsertItems(dbc dbctx.Context, defs []ItemSpec) ([]uuid.UUID, error) {
	names := make([]string, 0, len(defs))
	for _, it := range defs {
		names = append(names, it.Name)
	}
	existing, err := s.repos.Item.GetByNames(dbc.Ctx, dbc.Tx, names)
	if err != nil {
		return nil, fmt.Errorf("lookup items: %w", err)
	}
	byName := make(map[string]*types.Item, len(existing))
	for _, it := range existing {
		byName[strings.ToLower(it.Name)] = it
	}

	ids := make([]uuid.UUID, len(defs))
	for i, def := range defs {
		var emoji *string
		if def.Emoji != "" {
			e := def.Emoji
			emoji = &e
		}
		if cur, ok := byName[strings.ToLower(strings.TrimSpace(def.Name))]; ok {
			if err := s.repos.Item.Update(dbc.Ctx, dbc.Tx, cur.ID, map[string]any{
				"unit":  def.Unit,
				"emoji": emoji,
			}); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("update item %s: %w", def.Name, err)
			}
			ids[i] = cur.ID
			continue
		}
		created, err := s.repos.Item.Create(dbc.Ctx, dbc.Tx, []*types.Item{{
			Name:  strings.TrimSpace(def.Name),
			Unit:  types.Unit(def.Unit),
			Emoji: emoji,
		}})
		if err != nil {
			return nil, fmt.Errorf("create item %s: %w", def.Name, err)
		}
		ids[i] = created[0].ID
	}
	return ids, nil
}
