package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/types"
	"gorm.io/gorm"
)

type PostingSlotRepo interface {
	Create(ctx context.Context, tx *gorm.DB, slots []*types.PostingSlot) ([]*types.PostingSlot, error)
	ListActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PostingSlot, error)
}

type postingSlotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostingSlotRepo(db *gorm.DB, baseLog *logger.Logger) PostingSlotRepo {
	repoLog := baseLog.With("repo", "PostingSlotRepo")
	return &postingSlotRepo{db: db, log: repoLog}
}

func (psr *postingSlotRepo) Create(ctx context.Context, tx *gorm.DB, slots []*types.PostingSlot) ([]*types.PostingSlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = psr.db
	}

	if len(slots) == 0 {
		return []*types.PostingSlot{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (psr *postingSlotRepo) ListActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PostingSlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = psr.db
	}

	var results []*types.PostingSlot
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("slot_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
