package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PostStatusReviewing = "reviewing"
	PostStatusApproved  = "approved"
	PostStatusScheduled = "scheduled"
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

type PipelinePost struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ContentIdeaID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"content_idea_id"`
	ContentIdea    *ContentIdea   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentIdeaID;references:ID" json:"content_idea,omitempty"`
	DraftContent   string         `gorm:"column:draft_content" json:"draft_content"`
	FinalContent   string         `gorm:"column:final_content" json:"final_content"`
	CTAWord        string         `gorm:"column:cta_word" json:"cta_word"`
	DMTemplate     string         `gorm:"column:dm_template" json:"dm_template"`
	Variations     datatypes.JSON `gorm:"column:variations;type:jsonb" json:"variations"`
	HookScore      *float64       `gorm:"column:hook_score" json:"hook_score,omitempty"`
	Status         string         `gorm:"column:status;not null;default:'reviewing';index" json:"status"`
	ScheduledAt    *time.Time     `gorm:"column:scheduled_at;index" json:"scheduled_at,omitempty"`
	IsBuffer       bool           `gorm:"column:is_buffer;not null;default:false;index" json:"is_buffer"`
	BufferPosition *int           `gorm:"column:buffer_position" json:"buffer_position,omitempty"`
	AutoPublishAt  *time.Time     `gorm:"column:auto_publish_at" json:"auto_publish_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PipelinePost) TableName() string { return "pipeline_post" }
