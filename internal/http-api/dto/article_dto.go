package dto

import (
	"strings"
	"time"

	"blogapi/internal/http-api/models"
)

// ArticleRequest is the body of both create and update.
type ArticleRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"required,max=255"`
	Content     string   `json:"content" binding:"required"`
	Status      uint8    `json:"status" binding:"oneof=0 1"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
}

// AuthorSummary is the author block of list items.
type AuthorSummary struct {
	Image     *string `json:"image"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Gender    *string `json:"gender"`
}

// AuthorDetail adds the social profile shown on the article page.
type AuthorDetail struct {
	AuthorSummary
	Facebook  *string `json:"facebook"`
	Instagram *string `json:"instagram"`
	Twitter   *string `json:"twitter"`
	LinkedIn  *string `json:"linked_in"`
	AboutMe   *string `json:"about_me"`
}

type ArticleSummary struct {
	ID           uint64        `json:"id"`
	Image        *string       `json:"image"`
	Title        string        `json:"title"`
	Slug         string        `json:"slug"`
	Description  string        `json:"description"`
	Categories   []string      `json:"categories"`
	Tags         []string      `json:"tags"`
	TotalViewer  uint          `json:"total_viewer"`
	TotalComment uint          `json:"total_comment"`
	Status       uint8         `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	User         AuthorSummary `json:"user"`
}

type ArticleDetail struct {
	ID           uint64       `json:"id"`
	UserID       uint64       `json:"user_id"`
	Image        *string      `json:"image"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description"`
	Content      string       `json:"content"`
	Categories   []string     `json:"categories"`
	Tags         []string     `json:"tags"`
	TotalViewer  uint         `json:"total_viewer"`
	TotalComment uint         `json:"total_comment"`
	Status       uint8        `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	User         AuthorDetail `json:"user"`
}

// ArticleListResponse is the {total, list} envelope of article lists.
type ArticleListResponse struct {
	Total int64            `json:"total"`
	List  []ArticleSummary `json:"list"`
}

type ArticleReadResponse struct {
	Message string         `json:"message"`
	Data    *ArticleDetail `json:"data"`
}

func authorSummary(u *models.User) AuthorSummary {
	return AuthorSummary{
		Image:     u.Image,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
	}
}

func FromModelToArticleSummary(a *models.Article) ArticleSummary {
	return ArticleSummary{
		ID:           a.ID,
		Image:        a.Image,
		Title:        a.Title,
		Slug:         a.Slug,
		Description:  a.Description,
		Categories:   SplitList(a.Categories),
		Tags:         SplitList(a.Tags),
		TotalViewer:  a.TotalViewer,
		TotalComment: a.TotalComment,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		User:         authorSummary(&a.User),
	}
}

func FromModelToArticleDetail(a *models.Article) *ArticleDetail {
	return &ArticleDetail{
		ID:           a.ID,
		UserID:       a.UserID,
		Image:        a.Image,
		Title:        a.Title,
		Slug:         a.Slug,
		Description:  a.Description,
		Content:      a.Content,
		Categories:   SplitList(a.Categories),
		Tags:         SplitList(a.Tags),
		TotalViewer:  a.TotalViewer,
		TotalComment: a.TotalComment,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		User: AuthorDetail{
			AuthorSummary: authorSummary(&a.User),
			Facebook:      a.User.Facebook,
			Instagram:     a.User.Instagram,
			Twitter:       a.User.Twitter,
			LinkedIn:      a.User.LinkedIn,
			AboutMe:       a.User.AboutMe,
		},
	}
}

func NewArticleListResponse(list []models.Article, total int64) *ArticleListResponse {
	items := make([]ArticleSummary, 0, len(list))
	for i := range list {
		items = append(items, FromModelToArticleSummary(&list[i]))
	}
	return &ArticleListResponse{Total: total, List: items}
}

// JoinList stores a list as a comma-joined column. Blank entries are dropped.
func JoinList(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ",")
}

// SplitList is the inverse of JoinList. An empty column yields an empty, non-nil slice.
func SplitList(column string) []string {
	out := []string{}
	for _, v := range strings.Split(column, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
