package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/types"
	"gorm.io/gorm"
)

type BrandProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.BrandProfile) ([]*types.BrandProfile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, profileIDs []uuid.UUID) ([]*types.BrandProfile, error)
}

type brandProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBrandProfileRepo(db *gorm.DB, baseLog *logger.Logger) BrandProfileRepo {
	repoLog := baseLog.With("repo", "BrandProfileRepo")
	return &brandProfileRepo{db: db, log: repoLog}
}

func (bpr *brandProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.BrandProfile) ([]*types.BrandProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = bpr.db
	}

	if len(profiles) == 0 {
		return []*types.BrandProfile{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (bpr *brandProfileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, profileIDs []uuid.UUID) ([]*types.BrandProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = bpr.db
	}

	var results []*types.BrandProfile
	if len(profileIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", profileIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
