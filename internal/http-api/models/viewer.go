package models

import "time"

// Viewer marks that a user has opened an article. One row per (user, article).
type Viewer struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_viewers_user_article" json:"user_id"`
	ArticleID uint64    `gorm:"not null;uniqueIndex:idx_viewers_user_article;index" json:"article_id"`
	Status    uint8     `gorm:"default:0" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Viewer) TableName() string {
	return "viewers"
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Article{},
		&Comment{},
		&Notification{},
		&Activity{},
		&Viewer{},
	}
}
