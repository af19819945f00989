package repository

import (
	"context"
	"fmt"

	"blogapi/internal/http-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	ListByArticle(ctx context.Context, articleID uint64) ([]models.Comment, error)
	GetByID(ctx context.Context, id uint64) (*models.Comment, error)
	GetOwned(ctx context.Context, id, userID uint64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	DeleteWithReplies(ctx context.Context, id uint64) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListByArticle returns every comment of the article with its author, newest first.
func (r *commentRepository) ListByArticle(ctx context.Context, articleID uint64) ([]models.Comment, error) {
	var list []models.Comment
	err := r.db.WithContext(ctx).
		Joins("User").
		Where("comments.article_id = ?", articleID).
		Order("comments.id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return list, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint64) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) GetOwned(ctx context.Context, id, userID uint64) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) Create(ctx context.Context, c *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(c).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// DeleteWithReplies removes the comment and every reply below it.
// Returns the number of deleted rows.
func (r *commentRepository) DeleteWithReplies(ctx context.Context, id uint64) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uint64{id}
		frontier := []uint64{id}
		seen := map[uint64]bool{id: true}
		for len(frontier) > 0 {
			var children []uint64
			if err := tx.Model(&models.Comment{}).
				Where("parent_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			frontier = frontier[:0]
			for _, c := range children {
				if seen[c] {
					continue
				}
				seen[c] = true
				ids = append(ids, c)
				frontier = append(frontier, c)
			}
		}

		res := tx.Where("id IN ?", ids).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete comment %d: %w", id, err)
	}
	return deleted, nil
}
