package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/types"
	"gorm.io/gorm"
)

type PipelinePostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, posts []*types.PipelinePost) ([]*types.PipelinePost, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, postIDs []uuid.UUID) ([]*types.PipelinePost, error)
	RecentIdeaTitles(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]string, error)
	CategoryCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (map[string]int, error)
	ScheduledInstants(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]time.Time, error)
	ListBuffered(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PipelinePost, error)
	BufferSize(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, postID uuid.UUID, fields map[string]interface{}) error
	DecrementBufferPositionsAfter(ctx context.Context, tx *gorm.DB, userID uuid.UUID, position int) error
}

type pipelinePostRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPipelinePostRepo(db *gorm.DB, baseLog *logger.Logger) PipelinePostRepo {
	repoLog := baseLog.With("repo", "PipelinePostRepo")
	return &pipelinePostRepo{db: db, log: repoLog}
}

func (ppr *pipelinePostRepo) Create(ctx context.Context, tx *gorm.DB, posts []*types.PipelinePost) ([]*types.PipelinePost, error) {
	transaction := tx
	if transaction == nil {
		transaction = ppr.db
	}

	if len(posts) == 0 {
		return []*types.PipelinePost{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

func (ppr *pipelinePostRepo) GetByIDs(ctx context.Context, tx *gorm.DB, postIDs []uuid.UUID) ([]*types.PipelinePost, error) {
	transaction := tx
	if transaction == nil {
		transaction = ppr.db
	}

	var results []*types.PipelinePost
	if len(postIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", postIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ppr *pipelinePostRepo) RecentIdeaTitles(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = ppr.db
	}

	var titles []string
	if err := transaction.WithContext(ctx).
		Model(&types.PipelinePost{}).
		Joins("JOIN content_idea ON content_idea.id = pipeline_post.content_idea_id").
		Where("pipeline_post.user_id = ? AND pipeline_post.created_at > ?", userID, since).
		Pluck("content_idea.title", &titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

func (ppr *pipelinePostRepo) CategoryCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (map[string]int, error) {
	transaction := tx
	if transaction == nil {
		transaction = ppr.db
	}

	type row struct {
		Category string
		Total    int
	}
	var rows []row
	if err := transaction.WithContext(ctx).
		Model(&types.PipelinePost{}).
		Select("content_idea.category AS category, COUNT(*) AS total").
		Joins("JOIN content_idea ON content_idea.id = pipeline_post.content_idea_id").
		Where("pipeline_post.user_id = ? AND pipeline_post.created_at > ?", userID, since).
		Group("content_idea.category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(types.CategoryOrder))
	for _, category := range types.CategoryOrder {
		counts[category] = 0
	}
	for _, r := range rows {
		if r.Category == "" {
			continue
		}
		counts[r.Category] = r.Total
	}
	return counts, nil
}

func (ppr *pipelinePostRepo) ScheduledInstants(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]time.Time, error) {
	transaction := tx
	if transaction == nil {
		transaction = ppr.db
	}

	var instants []time.Time
	if err := transaction.WithContext(ctx).
		Model(&types.PipelinePost{}).
		Where("user_id = ? AND scheduled_at IS NOT NULL", userID).
		Pluck("scheduled_at", &instants).Error; err != nil {
		return nil, err
	}
	return instants, nil
}

func (ppr *pipelinePostRepo) ListBuffered(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PipelinePost, error) {
	transaction := tx
	if transaction == nil {
		transaction = ppr.db
	}

	var results []*types.PipelinePost
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND is_buffer = ?", userID, true).
		Order("buffer_position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ppr *pipelinePostRepo) BufferSize(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = ppr.db
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.PipelinePost{}).
		Where("user_id = ? AND is_buffer = ?", userID, true).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (ppr *pipelinePostRepo) UpdateFields(ctx context.Context, tx *gorm.DB, postID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = ppr.db
	}

	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	return transaction.WithContext(ctx).
		Model(&types.PipelinePost{}).
		Where("id = ?", postID).
		Updates(fields).Error
}

// DecrementBufferPositionsAfter compacts the buffer in a single UPDATE so the
// dense ordering survives concurrent approve/reject calls.
func (ppr *pipelinePostRepo) DecrementBufferPositionsAfter(ctx context.Context, tx *gorm.DB, userID uuid.UUID, position int) error {
	transaction := tx
	if transaction == nil {
		transaction = ppr.db
	}

	return transaction.WithContext(ctx).
		Exec(`UPDATE pipeline_post
          SET buffer_position = buffer_position - 1
          WHERE user_id = ? AND is_buffer = ? AND buffer_position > ?`,
			userID, true, position).Error
}
