package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	types "github.com/yungbote/prizely-backend/internal/domain"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.Item) ([]*types.Item, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, withPrices bool) (*types.Item, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Item, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Item, error)
	List(ctx context.Context, tx *gorm.DB, filter ItemFilter) ([]*types.Item, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	repoLog := baseLog.With("repo", "ItemRepo")
	return &itemRepo{db: db, log: repoLog}
}

func (r *itemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.Item) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(items) == 0 {
		return []*types.Item{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, withPrices bool) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx)
	if withPrices {
		q = q.Preload("Prices.Market")
	}
	var item types.Item
	if err := q.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Item
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Item
	if len(names) == 0 {
		return results, nil
	}

	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(n)))
	}
	if err := transaction.WithContext(ctx).
		Where("LOWER(name) IN ?", lowered).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemRepo) List(ctx context.Context, tx *gorm.DB, filter ItemFilter) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Model(&types.Item{})
	if strings.TrimSpace(filter.Query) != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Query))
	}
	if filter.WithPrices {
		q = q.Preload("Prices.Market")
	}

	var results []*types.Item
	if err := q.Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Item{})
	return res.RowsAffected, res.Error
}

func (r *itemRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Item{}).Error
}

func (r *itemRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
