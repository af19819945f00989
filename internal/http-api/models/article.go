package models

import "time"

const (
	ArticleDraft     uint8 = 0
	ArticlePublished uint8 = 1
)

// Article stores categories and tags as comma-joined strings.
type Article struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint64    `gorm:"not null;index" json:"user_id"`
	Image        *string   `gorm:"size:255" json:"image"`
	Title        string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Slug         string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description  string    `gorm:"size:255;not null" json:"description"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Categories   string    `gorm:"type:text" json:"categories"`
	Tags         string    `gorm:"type:text" json:"tags"`
	TotalViewer  uint      `gorm:"default:0;index" json:"total_viewer"`
	TotalComment uint      `gorm:"default:0;index" json:"total_comment"`
	Status       uint8     `gorm:"default:0;index" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}

func (Article) TableName() string {
	return "articles"
}
