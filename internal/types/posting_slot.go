package types

import (
	"time"

	"github.com/google/uuid"
)

// PostingSlot is a recurring wall-clock publish time. DayOfWeek follows
// time.Weekday numbering (0 = Sunday); nil means the slot repeats every day.
// TimeOfDay is "HH:MM" in the slot's own IANA timezone.
type PostingSlot struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SlotNumber int       `gorm:"column:slot_number;not null" json:"slot_number"`
	TimeOfDay  string    `gorm:"column:time_of_day;not null" json:"time_of_day"`
	DayOfWeek  *int      `gorm:"column:day_of_week" json:"day_of_week,omitempty"`
	Timezone   string    `gorm:"column:timezone;not null;default:'UTC'" json:"timezone"`
	Active     bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (PostingSlot) TableName() string { return "posting_slot" }

// HourMinute parses TimeOfDay. Malformed values fall back to 09:00.
func (s PostingSlot) HourMinute() (int, int) {
	t, err := time.Parse("15:04", s.TimeOfDay)
	if err != nil {
		return 9, 0
	}
	return t.Hour(), t.Minute()
}
