package repository

import (
	"context"
	"fmt"

	"blogapi/internal/http-api/models"

	"gorm.io/gorm"
)

var activitySortColumns = map[string]bool{
	"id":          true,
	"event":       true,
	"description": true,
	"created_at":  true,
	"updated_at":  true,
}

type ActivityRepository interface {
	Create(ctx context.Context, a *models.Activity) error
	ListByUser(ctx context.Context, userID uint64, q ListQuery) ([]models.Activity, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, a *models.Activity) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID uint64, q ListQuery) ([]models.Activity, int64, error) {
	q = q.Normalize()
	base := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("activities.user_id = ?", userID).
		Scopes(searchScope(q.Search, "activities.event", "activities.description"))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count activities: %w", err)
	}

	var list []models.Activity
	err := base.Session(&gorm.Session{}).
		Order(orderClause("activities", activitySortColumns, q)).
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}
	return list, total, nil
}
