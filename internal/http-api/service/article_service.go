package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"

	"github.com/Pallinder/go-randomdata"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	msgArticleNotFound     = "Article with id %d was not found.!!"
	msgArticleSlugNotFound = "Article with slug %s was not found.!!"
	msgArticleTitleTaken   = "Article with title %s already exists. Please try with another one."

	DefaultWords = 10
	MaxWords     = 100
)

type ArticleService interface {
	ListPublished(ctx context.Context, q repository.ListQuery) (*dto.ArticleListResponse, error)
	ListByUser(ctx context.Context, userID uint64, q repository.ListQuery) (*dto.ArticleListResponse, error)
	Create(ctx context.Context, userID uint64, req dto.ArticleRequest) (*dto.ArticleDetail, error)
	Read(ctx context.Context, userID uint64, slug string) (*dto.ArticleDetail, error)
	Update(ctx context.Context, userID, articleID uint64, req dto.ArticleRequest) (*dto.ArticleDetail, error)
	Delete(ctx context.Context, userID, articleID uint64) error
	UploadImage(ctx context.Context, userID, articleID uint64, upload Upload) (string, error)
	Words(ctx context.Context, max int) []string
}

type articleService struct {
	articles repository.ArticleRepository
	users    repository.UserRepository
	store    FileStore
	recorder Recorder
}

func NewArticleService(
	articles repository.ArticleRepository,
	users repository.UserRepository,
	store FileStore,
	recorder Recorder,
) ArticleService {
	return &articleService{
		articles: articles,
		users:    users,
		store:    store,
		recorder: recorder,
	}
}

func (s *articleService) ListPublished(ctx context.Context, q repository.ListQuery) (*dto.ArticleListResponse, error) {
	list, total, err := s.articles.List(ctx, repository.ArticleFilter{PublishedOnly: true}, q)
	if err != nil {
		return nil, internalError(err)
	}
	return dto.NewArticleListResponse(list, total), nil
}

func (s *articleService) ListByUser(ctx context.Context, userID uint64, q repository.ListQuery) (*dto.ArticleListResponse, error) {
	list, total, err := s.articles.List(ctx, repository.ArticleFilter{UserID: &userID}, q)
	if err != nil {
		return nil, internalError(err)
	}
	return dto.NewArticleListResponse(list, total), nil
}

func (s *articleService) Create(ctx context.Context, userID uint64, req dto.ArticleRequest) (*dto.ArticleDetail, error) {
	title := strings.TrimSpace(req.Title)
	taken := conflictError(msgArticleTitleTaken, title)

	exists, err := s.articles.TitleTaken(ctx, title, 0)
	if err != nil {
		return nil, internalError(err)
	}
	if exists {
		return nil, taken
	}

	article := &models.Article{
		UserID:      userID,
		Title:       title,
		Slug:        slug.Make(title),
		Description: req.Description,
		Content:     req.Content,
		Categories:  dto.JoinList(req.Categories),
		Tags:        dto.JoinList(req.Tags),
		Status:      req.Status,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, taken
		}
		return nil, internalError(err)
	}

	s.recorder.Record(ctx, userID, "Create New Article", "A new article with title "+title+" has been created.")

	created, err := s.articles.GetBySlug(ctx, article.Slug)
	if err != nil {
		return nil, internalError(err)
	}
	return dto.FromModelToArticleDetail(created), nil
}

// Read returns the article and counts the caller's first view of it.
func (s *articleService) Read(ctx context.Context, userID uint64, articleSlug string) (*dto.ArticleDetail, error) {
	article, err := s.articles.GetBySlug(ctx, articleSlug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError(msgArticleSlugNotFound, articleSlug)
		}
		return nil, internalError(err)
	}

	first, err := s.articles.RecordView(ctx, article.ID, userID)
	if err != nil {
		return nil, internalError(err)
	}
	if first {
		article.TotalViewer++
		viewer := s.displayName(ctx, userID)
		s.recorder.Record(ctx, userID, "Read Article",
			"The user "+viewer+" view to your article with title "+article.Title+".")
	}

	return dto.FromModelToArticleDetail(article), nil
}

// displayName is the e-mail address of the user, or "unknown" when it cannot be loaded.
func (s *articleService) displayName(ctx context.Context, userID uint64) string {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "unknown"
	}
	return user.Email
}

// owned loads an article the caller may modify. Someone else's article is reported as missing.
func (s *articleService) owned(ctx context.Context, userID, articleID uint64) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError(msgArticleNotFound, articleID)
		}
		return nil, internalError(err)
	}
	if article.UserID != userID {
		return nil, notFoundError(msgArticleNotFound, articleID)
	}
	return article, nil
}

func (s *articleService) Update(ctx context.Context, userID, articleID uint64, req dto.ArticleRequest) (*dto.ArticleDetail, error) {
	if _, err := s.owned(ctx, userID, articleID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	taken := conflictError(msgArticleTitleTaken, title)

	exists, err := s.articles.TitleTaken(ctx, title, articleID)
	if err != nil {
		return nil, internalError(err)
	}
	if exists {
		return nil, taken
	}

	newSlug := slug.Make(title)
	err = s.articles.Update(ctx, articleID, map[string]interface{}{
		"title":       title,
		"slug":        newSlug,
		"description": req.Description,
		"content":     req.Content,
		"categories":  dto.JoinList(req.Categories),
		"tags":        dto.JoinList(req.Tags),
		"status":      req.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, taken
		}
		return nil, internalError(err)
	}

	s.recorder.Record(ctx, userID, "Edit Article", "An article with title "+title+" has been modified.")

	updated, err := s.articles.GetBySlug(ctx, newSlug)
	if err != nil {
		return nil, internalError(err)
	}
	return dto.FromModelToArticleDetail(updated), nil
}

func (s *articleService) Delete(ctx context.Context, userID, articleID uint64) error {
	article, err := s.owned(ctx, userID, articleID)
	if err != nil {
		return err
	}

	if err := s.articles.Delete(ctx, article.ID); err != nil {
		return internalError(err)
	}
	if article.Image != nil {
		_ = s.store.Remove(ctx, *article.Image)
	}

	s.recorder.Record(ctx, userID, "Delete article", "An article with title "+article.Title+" has been deleted.")
	return nil
}

func (s *articleService) UploadImage(ctx context.Context, userID, articleID uint64, upload Upload) (string, error) {
	article, err := s.owned(ctx, userID, articleID)
	if err != nil {
		return "", err
	}

	image, err := replaceImage(ctx, s.store, upload, article.Image, func(stored string) error {
		return s.articles.Update(ctx, article.ID, map[string]interface{}{"image": stored})
	})
	if err != nil {
		return "", err
	}

	s.recorder.Record(ctx, userID, "Upload Article Image", "Upload new user article image")
	return image, nil
}

// Words returns max random two-word phrases in title case, sorted.
func (s *articleService) Words(_ context.Context, max int) []string {
	if max < 1 {
		max = DefaultWords
	}
	if max > MaxWords {
		max = MaxWords
	}

	title := cases.Title(language.English)
	words := make([]string, 0, max)
	for i := 0; i < max; i++ {
		words = append(words, title.String(randomdata.Adjective()+" "+randomdata.Noun()))
	}
	sort.Strings(words)
	return words
}
