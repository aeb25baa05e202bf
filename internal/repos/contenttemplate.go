package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/types"
	"gorm.io/gorm"
)

type ContentTemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, templates []*types.ContentTemplate) ([]*types.ContentTemplate, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ContentTemplate, error)
}

type contentTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentTemplateRepo(db *gorm.DB, baseLog *logger.Logger) ContentTemplateRepo {
	repoLog := baseLog.With("repo", "ContentTemplateRepo")
	return &contentTemplateRepo{db: db, log: repoLog}
}

func (ctr *contentTemplateRepo) Create(ctx context.Context, tx *gorm.DB, templates []*types.ContentTemplate) ([]*types.ContentTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = ctr.db
	}

	if len(templates) == 0 {
		return []*types.ContentTemplate{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

func (ctr *contentTemplateRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ContentTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = ctr.db
	}

	var results []*types.ContentTemplate
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
