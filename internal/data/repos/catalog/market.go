package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	types "github.com/yungbote/prizely-backend/internal/domain"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type MarketRepo interface {
	Create(ctx context.Context, tx *gorm.DB, markets []*types.Market) ([]*types.Market, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Market, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Market, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Market, error)
	List(ctx context.Context, tx *gorm.DB, filter MarketFilter) ([]*types.Market, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type marketRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMarketRepo(db *gorm.DB, baseLog *logger.Logger) MarketRepo {
	repoLog := baseLog.With("repo", "MarketRepo")
	return &marketRepo{db: db, log: repoLog}
}

func (r *marketRepo) Create(ctx context.Context, tx *gorm.DB, markets []*types.Market) ([]*types.Market, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(markets) == 0 {
		return []*types.Market{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&markets).Error; err != nil {
		return nil, err
	}
	return markets, nil
}

func (r *marketRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Market, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var m types.Market
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *marketRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Market, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Market
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

func (r *marketRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Market, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Market
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

func (r *marketRepo) List(ctx context.Context, tx *gorm.DB, filter MarketFilter) ([]*types.Market, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Model(&types.Market{})
	if strings.TrimSpace(filter.Query) != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Query))
	}
	if filter.VerifiedOnly {
		q = q.Where("verified = ?", true)
	}

	var results []*types.Market
	if err := q.Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *marketRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Market{}).
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

func (r *marketRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Market{})
	return res.RowsAffected, res.Error
}

func (r *marketRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Market{}).Error
}

func (r *marketRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Market{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
