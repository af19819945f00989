package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogapi/internal/http-api/models"

	"gorm.io/gorm"
)

var articleSortColumns = map[string]bool{
	"id":            true,
	"title":         true,
	"slug":          true,
	"description":   true,
	"status":        true,
	"total_viewer":  true,
	"total_comment": true,
	"created_at":    true,
	"updated_at":    true,
}

// ArticleFilter narrows an article list.
type ArticleFilter struct {
	PublishedOnly bool
	UserID        *uint64
}

type ArticleRepository interface {
	List(ctx context.Context, filter ArticleFilter, q ListQuery) ([]models.Article, int64, error)
	GetByID(ctx context.Context, id uint64) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	TitleTaken(ctx context.Context, title string, exceptID uint64) (bool, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint64) error
	RecordView(ctx context.Context, articleID, userID uint64) (bool, error)
	RefreshCommentCount(ctx context.Context, articleID uint64) (int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// List returns one page of articles joined with their authors, plus the
// number of rows matching the same filter and search.
func (r *articleRepository) List(ctx context.Context, filter ArticleFilter, q ListQuery) ([]models.Article, int64, error) {
	q = q.Normalize()

	scope := func(db *gorm.DB) *gorm.DB {
		if filter.PublishedOnly {
			db = db.Where("articles.status = ?", models.ArticlePublished)
		}
		if filter.UserID != nil {
			db = db.Where("articles.user_id = ?", *filter.UserID)
		}
		return db.Scopes(searchScope(q.Search,
			"articles.title",
			"articles.description",
			"articles.content",
			"articles.categories",
			"articles.tags",
		))
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Article{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	var list []models.Article
	err := r.db.WithContext(ctx).
		Joins("User").
		Scopes(scope).
		Order(orderClause("articles", articleSortColumns, q)).
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	return list, total, nil
}

func (r *articleRepository) GetByID(ctx context.Context, id uint64) (*models.Article, error) {
	var a models.Article
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var a models.Article
	if err := r.db.WithContext(ctx).Joins("User").Where("articles.slug = ?", slug).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// TitleTaken reports whether an article other than exceptID already uses title.
// Comparison is exact; pass 0 on create.
func (r *articleRepository) TitleTaken(ctx context.Context, title string, exceptID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).
		Where("title = ? AND id <> ?", title, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *articleRepository) Create(ctx context.Context, a *models.Article) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(a).Error; err != nil {
		return fmt.Errorf("create article: %w", translate(err))
	}
	return nil
}

func (r *articleRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update article: %w", translate(err))
	}
	return nil
}

// Delete removes the article together with its comments and viewer rows.
func (r *articleRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete article comments: %w", err)
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Viewer{}).Error; err != nil {
			return fmt.Errorf("delete article viewers: %w", err)
		}
		if err := tx.Delete(&models.Article{}, id).Error; err != nil {
			return fmt.Errorf("delete article: %w", err)
		}
		return nil
	})
}

// RecordView inserts the viewer row for (user, article) and bumps total_viewer.
// It returns false when the user had already viewed the article.
func (r *articleRepository) RecordView(ctx context.Context, articleID, userID uint64) (bool, error) {
	first := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Viewer{}).
			Where("article_id = ? AND user_id = ?", articleID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		viewer := &models.Viewer{ArticleID: articleID, UserID: userID}
		if err := tx.Create(viewer).Error; err != nil {
			return translate(err)
		}

		if err := tx.Model(&models.Article{}).
			Where("id = ?", articleID).
			UpdateColumns(map[string]interface{}{
				"total_viewer": gorm.Expr("total_viewer + ?", 1),
				"updated_at":   time.Now(),
			}).Error; err != nil {
			return err
		}
		first = true
		return nil
	})
	if errors.Is(err, ErrDuplicateKey) {
		// a concurrent request recorded the same view first
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("record view: %w", err)
	}
	return first, nil
}

// RefreshCommentCount stores the live number of comments on the article.
func (r *articleRepository) RefreshCommentCount(ctx context.Context, articleID uint64) (int64, error) {
	var total int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Comment{}).Where("article_id = ?", articleID).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	err := db.Model(&models.Article{}).
		Where("id = ?", articleID).
		UpdateColumns(map[string]interface{}{
			"total_comment": total,
			"updated_at":    time.Now(),
		}).Error
	if err != nil {
		return 0, fmt.Errorf("update comment count: %w", err)
	}
	return total, nil
}
