package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/prizely-backend/internal/data/db"
	"github.com/yungbote/prizely-backend/internal/data/repos"
	types "github.com/yungbote/prizely-backend/internal/domain"
	"github.com/yungbote/prizely-backend/internal/domain/catalog"
	"github.com/yungbote/prizely-backend/internal/observability"
	"github.com/yungbote/prizely-backend/internal/platform/apierr"
	"github.com/yungbote/prizely-backend/internal/platform/ctxutil"
	"github.com/yungbote/prizely-backend/internal/platform/dbctx"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ItemInput struct {
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Emoji *string `json:"emoji"`
}

// ItemPatch updates only the fields that are set. An empty Emoji clears it.
type ItemPatch struct {
	Name  *string `json:"name"`
	Unit  *string `json:"unit"`
	Emoji *string `json:"emoji"`
}

type MarketInput struct {
	Name     string   `json:"name"`
	Rating   *float64 `json:"rating"`
	Verified *bool    `json:"verified"`
}

// MarketPatch keeps the name when Name is nil. Rating and Verified are always
// replaced: nil stores no rating and not verified.
type MarketPatch struct {
	Name     *string  `json:"name"`
	Rating   *float64 `json:"rating"`
	Verified *bool    `json:"verified"`
}

type PriceInput struct {
	ItemID   string   `json:"itemId"`
	MarketID string   `json:"marketId"`
	Price    *float64 `json:"price"`
}

type PriceQuery struct {
	ItemID   string
	MarketID string
}

// CatalogListener is told about every committed catalog write.
type CatalogListener interface {
	CatalogChanged(ctx context.Context)
}

type CatalogService interface {
	ListItems(ctx context.Context, q string, withPrices bool) ([]*types.Item, error)
	GetItem(ctx context.Context, id string, withPrices bool) (*types.Item, error)
	CreateItem(ctx context.Context, in ItemInput) (*types.Item, error)
	UpdateItem(ctx context.Context, id string, in ItemPatch) (*types.Item, error)
	DeleteItem(ctx context.Context, id string) error

	ListMarkets(ctx context.Context, q string, verifiedOnly bool) ([]*types.Market, error)
	GetMarket(ctx context.Context, id string) (*types.Market, error)
	CreateMarket(ctx context.Context, in MarketInput) (*types.Market, error)
	UpdateMarket(ctx context.Context, id string, in MarketPatch) (*types.Market, error)
	DeleteMarket(ctx context.Context, id string) error

	ListPrices(ctx context.Context, q PriceQuery) ([]*types.Price, error)
	GetPrice(ctx context.Context, id string) (*types.Price, error)
	UpsertPrice(ctx context.Context, in PriceInput) (*types.Price, bool, error)
	UpdatePrice(ctx context.Context, id string, price *float64) (*types.Price, error)
	DeletePrice(ctx context.Context, id string) error
}

type catalogService struct {
	log      *logger.Logger
	repos    repos.Repos
	tx       db.TxRunner
	listener CatalogListener
	metrics  *observability.Metrics
}

func NewCatalogService(log *logger.Logger, r repos.Repos, tx db.TxRunner, listener CatalogListener, metrics *observability.Metrics) CatalogService {
	return &catalogService{
		log:      log.With("service", "CatalogService"),
		repos:    r,
		tx:       tx,
		listener: listener,
		metrics:  metrics,
	}
}

func (s *catalogService) changed(ctx context.Context, entity, op string) {
	s.metrics.IncCatalogWrite(entity, op)
	if s.listener != nil {
		s.listener.CatalogChanged(ctx)
	}
}

// ---- items ----

func (s *catalogService) ListItems(ctx context.Context, q string, withPrices bool) ([]*types.Item, error) {
	items, err := s.repos.Item.List(ctx, nil, repos.ItemFilter{Query: q, WithPrices: withPrices})
	if err != nil {
		return nil, storeError("item", err)
	}
	return items, nil
}

func (s *catalogService) GetItem(ctx context.Context, id string, withPrices bool) (*types.Item, error) {
	itemID, err := pathID("item", id)
	if err != nil {
		return nil, err
	}
	item, err := s.repos.Item.GetByID(ctx, nil, itemID, withPrices)
	if err != nil {
		return nil, storeError("item", err)
	}
	return item, nil
}

func (s *catalogService) CreateItem(ctx context.Context, in ItemInput) (*types.Item, error) {
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.Unit)
	if name == "" || unit == "" {
		return nil, apierr.BadRequest("invalid_item", "Name and unit are required")
	}
	if !catalog.ValidUnit(unit) {
		return nil, apierr.BadRequest("invalid_unit", "unknown unit %q", unit)
	}
	created, err := s.repos.Item.Create(ctx, nil, []*types.Item{{
		Name:  name,
		Unit:  types.Unit(unit),
		Emoji: normalizeEmoji(in.Emoji),
	}})
	if err != nil {
		return nil, storeError("item", err)
	}
	s.log.Info("Item created", append(ctxutil.LogFields(ctx), "item_id", created[0].ID, "name", name)...)
	s.changed(ctx, "item", "create")
	return created[0], nil
}

func (s *catalogService) UpdateItem(ctx context.Context, id string, in ItemPatch) (*types.Item, error) {
	itemID, err := pathID("item", id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apierr.BadRequest("invalid_item", "Name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Unit != nil {
		unit := strings.TrimSpace(*in.Unit)
		if !catalog.ValidUnit(unit) {
			return nil, apierr.BadRequest("invalid_unit", "unknown unit %q", unit)
		}
		updates["unit"] = unit
	}
	if in.Emoji != nil {
		updates["emoji"] = normalizeEmoji(in.Emoji)
	}
	if len(updates) > 0 {
		if err := s.repos.Item.Update(ctx, nil, itemID, updates); err != nil {
			return nil, storeError("item", err)
		}
	}
	item, err := s.repos.Item.GetByID(ctx, nil, itemID, false)
	if err != nil {
		return nil, storeError("item", err)
	}
	if len(updates) > 0 {
		s.changed(ctx, "item", "update")
	}
	return item, nil
}

// DeleteItem removes the item and all of its prices in one transaction.
func (s *catalogService) DeleteItem(ctx context.Context, id string) error {
	itemID, err := pathID("item", id)
	if err != nil {
		return err
	}
	var removedPrices int64
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		n, err := s.repos.Price.DeleteByItemIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{itemID})
		if err != nil {
			return err
		}
		removedPrices = n
		deleted, err := s.repos.Item.DeleteByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{itemID})
		if err != nil {
			return err
		}
		if deleted == 0 {
			return apierr.NotFound("item_not_found", "Item not found")
		}
		return nil
	})
	if err != nil {
		return storeError("item", err)
	}
	s.log.Info("Item deleted", append(ctxutil.LogFields(ctx), "item_id", itemID, "prices_removed", removedPrices)...)
	s.changed(ctx, "item", "delete")
	return nil
}

// ---- markets ----

func (s *catalogService) ListMarkets(ctx context.Context, q string, verifiedOnly bool) ([]*types.Market, error) {
	markets, err := s.repos.Market.List(ctx, nil, repos.MarketFilter{Query: q, VerifiedOnly: verifiedOnly})
	if err != nil {
		return nil, storeError("market", err)
	}
	return markets, nil
}

func (s *catalogService) GetMarket(ctx context.Context, id string) (*types.Market, error) {
	marketID, err := pathID("market", id)
	if err != nil {
		return nil, err
	}
	m, err := s.repos.Market.GetByID(ctx, nil, marketID)
	if err != nil {
		return nil, storeError("market", err)
	}
	return m, nil
}

func (s *catalogService) CreateMarket(ctx context.Context, in MarketInput) (*types.Market, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.BadRequest("invalid_market", "Name is required")
	}
	if !catalog.ValidRating(in.Rating) {
		return nil, apierr.BadRequest("invalid_rating", "rating must be between %v and %v", catalog.MinRating, catalog.MaxRating)
	}
	created, err := s.repos.Market.Create(ctx, nil, []*types.Market{{
		Name:     name,
		Rating:   in.Rating,
		Verified: in.Verified != nil && *in.Verified,
	}})
	if err != nil {
		return nil, storeError("market", err)
	}
	s.log.Info("Market created", append(ctxutil.LogFields(ctx), "market_id", created[0].ID, "name", name)...)
	s.changed(ctx, "market", "create")
	return created[0], nil
}

func (s *catalogService) UpdateMarket(ctx context.Context, id string, in MarketPatch) (*types.Market, error) {
	marketID, err := pathID("market", id)
	if err != nil {
		return nil, err
	}
	if !catalog.ValidRating(in.Rating) {
		return nil, apierr.BadRequest("invalid_rating", "rating must be between %v and %v", catalog.MinRating, catalog.MaxRating)
	}
	updates := map[string]any{
		"rating":   in.Rating,
		"verified": in.Verified != nil && *in.Verified,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apierr.BadRequest("invalid_market", "Name cannot be empty")
		}
		updates["name"] = name
	}
	if err := s.repos.Market.Update(ctx, nil, marketID, updates); err != nil {
		return nil, storeError("market", err)
	}
	m, err := s.repos.Market.GetByID(ctx, nil, marketID)
	if err != nil {
		return nil, storeError("market", err)
	}
	s.changed(ctx, "market", "update")
	return m, nil
}

// DeleteMarket removes the market and all of its prices in one transaction.
func (s *catalogService) DeleteMarket(ctx context.Context, id string) error {
	marketID, err := pathID("market", id)
	if err != nil {
		return err
	}
	var removedPrices int64
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		n, err := s.repos.Price.DeleteByMarketIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{marketID})
		if err != nil {
			return err
		}
		removedPrices = n
		deleted, err := s.repos.Market.DeleteByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{marketID})
		if err != nil {
			return err
		}
		if deleted == 0 {
			return apierr.NotFound("market_not_found", "Market not found")
		}
		return nil
	})
	if err != nil {
		return storeError("market", err)
	}
	s.log.Info("Market deleted", append(ctxutil.LogFields(ctx), "market_id", marketID, "prices_removed", removedPrices)...)
	s.changed(ctx, "market", "delete")
	return nil
}

// ---- prices ----

func (s *catalogService) ListPrices(ctx context.Context, q PriceQuery) ([]*types.Price, error) {
	var filter repos.PriceFilter
	if q.ItemID != "" {
		id, err := bodyID("itemId", q.ItemID)
		if err != nil {
			return nil, err
		}
		filter.ItemIDs = []uuid.UUID{id}
	}
	if q.MarketID != "" {
		id, err := bodyID("marketId", q.MarketID)
		if err != nil {
			return nil, err
		}
		filter.MarketIDs = []uuid.UUID{id}
	}
	prices, err := s.repos.Price.List(ctx, nil, filter)
	if err != nil {
		return nil, storeError("price", err)
	}
	return prices, nil
}

func (s *catalogService) GetPrice(ctx context.Context, id string) (*types.Price, error) {
	priceID, err := pathID("price", id)
	if err != nil {
		return nil, err
	}
	p, err := s.repos.Price.GetByID(ctx, nil, priceID)
	if err != nil {
		return nil, storeError("price", err)
	}
	return p, nil
}

// UpsertPrice creates the price for the pair or updates the existing one. The bool
// reports whether a row was created.
func (s *catalogService) UpsertPrice(ctx context.Context, in PriceInput) (*types.Price, bool, error) {
	if strings.TrimSpace(in.ItemID) == "" || strings.TrimSpace(in.MarketID) == "" || in.Price == nil {
		return nil, false, apierr.BadRequest("invalid_price", "itemId, marketId, and price are required")
	}
	if !catalog.ValidPrice(*in.Price) {
		return nil, false, apierr.BadRequest("invalid_price", "price must be a non-negative number")
	}
	itemID, err := bodyID("itemId", in.ItemID)
	if err != nil {
		return nil, false, err
	}
	marketID, err := bodyID("marketId", in.MarketID)
	if err != nil {
		return nil, false, err
	}

	var (
		out     *types.Price
		created bool
	)
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := s.repos.Item.GetByID(dbc.Ctx, dbc.Tx, itemID, false); err != nil {
			return referenceError(err)
		}
		if _, err := s.repos.Market.GetByID(dbc.Ctx, dbc.Tx, marketID); err != nil {
			return referenceError(err)
		}
		var err error
		out, created, err = s.repos.Price.Upsert(dbc.Ctx, dbc.Tx, itemID, marketID, *in.Price)
		return err
	})
	if err != nil {
		return nil, false, storeError("price", err)
	}
	op := "update"
	if created {
		op = "create"
	}
	s.changed(ctx, "price", op)
	return out, created, nil
}

func (s *catalogService) UpdatePrice(ctx context.Context, id string, price *float64) (*types.Price, error) {
	priceID, err := pathID("price", id)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, apierr.BadRequest("invalid_price", "Price is required")
	}
	if !catalog.ValidPrice(*price) {
		return nil, apierr.BadRequest("invalid_price", "price must be a non-negative number")
	}
	if err := s.repos.Price.UpdatePrice(ctx, nil, priceID, *price); err != nil {
		return nil, storeError("price", err)
	}
	p, err := s.repos.Price.GetByID(ctx, nil, priceID)
	if err != nil {
		return nil, storeError("price", err)
	}
	s.changed(ctx, "price", "update")
	return p, nil
}

func (s *catalogService) DeletePrice(ctx context.Context, id string) error {
	priceID, err := pathID("price", id)
	if err != nil {
		return err
	}
	n, err := s.repos.Price.DeleteByIDs(ctx, nil, []uuid.UUID{priceID})
	if err != nil {
		return storeError("price", err)
	}
	if n == 0 {
		return apierr.NotFound("price_not_found", "Price not found")
	}
	s.changed(ctx, "price", "delete")
	return nil
}

// pathID parses an id from the URL. Ids that cannot exist are reported as not found.
func pathID(entity, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apierr.NotFound(entity+"_not_found", "%s not found", titled(entity))
	}
	return id, nil
}

func bodyID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apierr.BadRequest("invalid_reference", "Invalid %s", field)
	}
	return id, nil
}

func referenceError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.BadRequest("invalid_reference", "Invalid itemId or marketId")
	}
	return err
}

func normalizeEmoji(e *string) *string {
	if e == nil {
		return nil
	}
	v := strings.TrimSpace(*e)
	if v == "" {
		return nil
	}
	return &v
}
