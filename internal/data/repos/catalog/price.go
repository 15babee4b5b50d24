package catalog

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/prizely-backend/internal/domain"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PriceRepo interface {
	// Upsert writes the price for (itemID, marketID) and reports whether a new row was created.
	Upsert(ctx context.Context, tx *gorm.DB, itemID, marketID uuid.UUID, price float64) (*types.Price, bool, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Price, error)
	GetByPair(ctx context.Context, tx *gorm.DB, itemID, marketID uuid.UUID) (*types.Price, error)
	List(ctx context.Context, tx *gorm.DB, filter PriceFilter) ([]*types.Price, error)
	ListRaw(ctx context.Context, tx *gorm.DB) ([]*types.Price, error)
	UpdatePrice(ctx context.Context, tx *gorm.DB, id uuid.UUID, price float64) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
	DeleteByItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) (int64, error)
	DeleteByMarketIDs(ctx context.Context, tx *gorm.DB, marketIDs []uuid.UUID) (int64, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type priceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPriceRepo(db *gorm.DB, baseLog *logger.Logger) PriceRepo {
	repoLog := baseLog.With("repo", "PriceRepo")
	return &priceRepo{db: db, log: repoLog}
}

func (r *priceRepo) Upsert(ctx context.Context, tx *gorm.DB, itemID, marketID uuid.UUID, price float64) (*types.Price, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	created := false
	_, err := r.GetByPair(ctx, transaction, itemID, marketID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created = true
	case err != nil:
		return nil, false, err
	}

	row := &types.Price{
		ItemID:    itemID,
		MarketID:  marketID,
		Price:     price,
		UpdatedAt: time.Now().UTC(),
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "market_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, false, err
	}

	out, err := r.GetByPair(ctx, transaction, itemID, marketID)
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

func (r *priceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Price, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var p types.Price
	if err := transaction.WithContext(ctx).
		Preload("Item").
		Preload("Market").
		Where("id = ?", id).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *priceRepo) GetByPair(ctx context.Context, tx *gorm.DB, itemID, marketID uuid.UUID) (*types.Price, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var p types.Price
	if err := transaction.WithContext(ctx).
		Preload("Item").
		Preload("Market").
		Where("item_id = ? AND market_id = ?", itemID, marketID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns prices with Item and Market preloaded, ordered by item name then market name.
func (r *priceRepo) List(ctx context.Context, tx *gorm.DB, filter PriceFilter) ([]*types.Price, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.Price{}).
		Preload("Item").
		Preload("Market")
	if len(filter.ItemIDs) > 0 {
		q = q.Where("item_id IN ?", filter.ItemIDs)
	}
	if len(filter.MarketIDs) > 0 {
		q = q.Where("market_id IN ?", filter.MarketIDs)
	}

	var results []*types.Price
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if an, bn := itemName(a.Item), itemName(b.Item); an != bn {
			return an < bn
		}
		return marketName(a.Market) < marketName(b.Market)
	})
	return results, nil
}

// ListRaw returns every price row without relations.
func (r *priceRepo) ListRaw(ctx context.Context, tx *gorm.DB) ([]*types.Price, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Price
	if err := transaction.WithContext(ctx).
		Select("id", "item_id", "market_id", "price").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *priceRepo) UpdatePrice(ctx context.Context, tx *gorm.DB, id uuid.UUID, price float64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Price{}).
		Where("id = ?", id).
		Update("price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *priceRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, tx, "id IN ?", ids)
}

func (r *priceRepo) DeleteByItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, tx, "item_id IN ?", itemIDs)
}

func (r *priceRepo) DeleteByMarketIDs(ctx context.Context, tx *gorm.DB, marketIDs []uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, tx, "market_id IN ?", marketIDs)
}

func (r *priceRepo) deleteWhere(ctx context.Context, tx *gorm.DB, cond string, ids []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where(cond, ids).
		Delete(&types.Price{})
	return res.RowsAffected, res.Error
}

func (r *priceRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Price{}).Error
}

func (r *priceRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Price{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func itemName(it *types.Item) string {
	if it == nil {
		return ""
	}
	return it.Name
}

func marketName(m *types.Market) string {
	if m == nil {
		return ""
	}
	return m.Name
}
