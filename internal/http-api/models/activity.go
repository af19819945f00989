package models

import "time"

// Activity is an append-only audit row. Nothing updates or deletes it.
type Activity struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	Event       string    `gorm:"size:191;not null;index" json:"event"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Activity) TableName() string {
	return "activities"
}
