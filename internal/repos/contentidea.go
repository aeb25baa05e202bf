package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/types"
	"gorm.io/gorm"
)

type ContentIdeaRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ideas []*types.ContentIdea) ([]*types.ContentIdea, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ideaIDs []uuid.UUID) ([]*types.ContentIdea, error)
	ListExtracted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, brandProfileID *uuid.UUID, limit int) ([]*types.ContentIdea, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID, status string) error
	StampScoring(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID, composite float64, fingerprint string, surfacedAt time.Time) error
}

type contentIdeaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentIdeaRepo(db *gorm.DB, baseLog *logger.Logger) ContentIdeaRepo {
	repoLog := baseLog.With("repo", "ContentIdeaRepo")
	return &contentIdeaRepo{db: db, log: repoLog}
}

func (cir *contentIdeaRepo) Create(ctx context.Context, tx *gorm.DB, ideas []*types.ContentIdea) ([]*types.ContentIdea, error) {
	transaction := tx
	if transaction == nil {
		transaction = cir.db
	}

	if len(ideas) == 0 {
		return []*types.ContentIdea{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&ideas).Error; err != nil {
		return nil, err
	}

	return ideas, nil
}

func (cir *contentIdeaRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ideaIDs []uuid.UUID) ([]*types.ContentIdea, error) {
	transaction := tx
	if transaction == nil {
		transaction = cir.db
	}

	var results []*types.ContentIdea
	if len(ideaIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ideaIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cir *contentIdeaRepo) ListExtracted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, brandProfileID *uuid.UUID, limit int) ([]*types.ContentIdea, error) {
	transaction := tx
	if transaction == nil {
		transaction = cir.db
	}

	query := transaction.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, types.IdeaStatusExtracted).
		Order("created_at DESC")
	if brandProfileID != nil {
		query = query.Where("brand_profile_id = ?", *brandProfileID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []*types.ContentIdea
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cir *contentIdeaRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = cir.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ContentIdea{}).
		Where("id = ?", ideaID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (cir *contentIdeaRepo) StampScoring(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID, composite float64, fingerprint string, surfacedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cir.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ContentIdea{}).
		Where("id = ?", ideaID).
		Updates(map[string]interface{}{
			"composite_score":  composite,
			"fingerprint":      fingerprint,
			"last_surfaced_at": surfacedAt,
			"updated_at":       time.Now(),
		}).Error
}
