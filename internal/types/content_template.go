package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentTemplate struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Structure string         `gorm:"column:structure" json:"structure"`
	Category  string         `gorm:"column:category" json:"category"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentTemplate) TableName() string { return "content_template" }

// ComposedText is what gets embedded when matching ideas to templates.
func (t ContentTemplate) ComposedText() string {
	if t.Structure == "" {
		return t.Name
	}
	return t.Name + "\n" + t.Structure
}
