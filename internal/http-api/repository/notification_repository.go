package repository

import (
	"context"
	"fmt"

	"blogapi/internal/http-api/models"

	"gorm.io/gorm"
)

var notificationSortColumns = map[string]bool{
	"id":         true,
	"subject":    true,
	"created_at": true,
	"updated_at": true,
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uint64, q ListQuery) ([]models.Notification, int64, error)
	GetOwned(ctx context.Context, id, userID uint64) (*models.Notification, error)
	Delete(ctx context.Context, id uint64) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint64, q ListQuery) ([]models.Notification, int64, error) {
	q = q.Normalize()
	base := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("notifications.user_id = ?", userID).
		Scopes(searchScope(q.Search, "notifications.subject", "notifications.message"))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	var list []models.Notification
	err := base.Session(&gorm.Session{}).
		Order(orderClause("notifications", notificationSortColumns, q)).
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return list, total, nil
}

func (r *notificationRepository) GetOwned(ctx context.Context, id, userID uint64) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Notification{}, id).Error; err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
