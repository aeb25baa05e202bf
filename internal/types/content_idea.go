package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	IdeaStatusExtracted = "extracted"
	IdeaStatusWriting   = "writing"
	IdeaStatusWritten   = "written"
)

type ContentIdea struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	BrandProfileID *uuid.UUID     `gorm:"type:uuid;index" json:"brand_profile_id,omitempty"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	CoreInsight    string         `gorm:"column:core_insight" json:"core_insight"`
	SupportingInfo string         `gorm:"column:supporting_info" json:"supporting_info"`
	WhyPostWorthy  string         `gorm:"column:why_post_worthy" json:"why_post_worthy"`
	Hook           string         `gorm:"column:hook" json:"hook"`
	KeyPoints      datatypes.JSON `gorm:"column:key_points;type:jsonb" json:"key_points"`
	TargetAudience string         `gorm:"column:target_audience" json:"target_audience"`
	ContentType    string         `gorm:"column:content_type" json:"content_type"`
	Category       string         `gorm:"column:category;index" json:"category"`
	RelevanceScore *float64       `gorm:"column:relevance_score" json:"relevance_score,omitempty"`
	Ready          bool           `gorm:"column:ready;not null;default:false" json:"ready"`
	Status         string         `gorm:"column:status;not null;default:'extracted';index" json:"status"`
	CompositeScore float64        `gorm:"column:composite_score;not null;default:0" json:"composite_score"`
	Fingerprint    string         `gorm:"column:fingerprint;index" json:"fingerprint"`
	LastSurfacedAt *time.Time     `gorm:"column:last_surfaced_at" json:"last_surfaced_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentIdea) TableName() string { return "content_idea" }
