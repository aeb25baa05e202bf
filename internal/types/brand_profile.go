package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BrandProfile is a sub-profile a user posts under. VoiceProfile is an opaque
// JSON blob handed to the writer unchanged.
type BrandProfile struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	AuthorName   string         `gorm:"column:author_name" json:"author_name"`
	AuthorTitle  string         `gorm:"column:author_title" json:"author_title"`
	VoiceProfile datatypes.JSON `gorm:"column:voice_profile;type:jsonb" json:"voice_profile"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (BrandProfile) TableName() string { return "brand_profile" }
