package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"blogapi/internal/http-api/models"
)

type RepositorySuite struct {
	suite.Suite
	ctx           context.Context
	db            *gorm.DB
	users         UserRepository
	articles      ArticleRepository
	comments      CommentRepository
	notifications NotificationRepository
	activities    ActivityRepository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(models.All()...))

	s.ctx = context.Background()
	s.db = db
	s.users = NewUserRepository(db)
	s.articles = NewArticleRepository(db)
	s.comments = NewCommentRepository(db)
	s.notifications = NewNotificationRepository(db)
	s.activities = NewActivityRepository(db)
}

func (s *RepositorySuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *RepositorySuite) createUser(email string) *models.User {
	first := "First " + email
	u := &models.User{Email: email, Password: "hash", FirstName: &first, Confirmed: 1}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *RepositorySuite) createArticle(userID uint64, title string, status uint8) *models.Article {
	a := &models.Article{
		UserID:      userID,
		Title:       title,
		Slug:        fmt.Sprintf("slug-%s", title),
		Description: "about " + title,
		Content:     "content of " + title,
		Categories:  "news,tech",
		Tags:        "backend",
		Status:      status,
	}
	s.Require().NoError(s.articles.Create(s.ctx, a))
	return a
}

func (s *RepositorySuite) createComment(articleID, userID uint64, parent *uint64) *models.Comment {
	c := &models.Comment{ArticleID: articleID, UserID: userID, ParentID: parent, Message: "hello"}
	s.Require().NoError(s.comments.Create(s.ctx, c))
	return c
}

func (s *RepositorySuite) TestUser_DuplicateEmail() {
	s.createUser("a@example.com")

	err := s.users.Create(s.ctx, &models.User{Email: "a@example.com", Password: "x"})

	s.True(errors.Is(err, ErrDuplicateKey))
}

func (s *RepositorySuite) TestUser_TakenByOther() {
	a := s.createUser("a@example.com")
	b := s.createUser("b@example.com")
	phone := "0800"
	s.Require().NoError(s.users.Update(s.ctx, a.ID, map[string]interface{}{"phone": phone}))

	taken, err := s.users.EmailTakenByOther(s.ctx, "a@example.com", a.ID)
	s.NoError(err)
	s.False(taken, "own address is not taken")

	taken, err = s.users.EmailTakenByOther(s.ctx, "a@example.com", b.ID)
	s.NoError(err)
	s.True(taken)

	taken, err = s.users.PhoneTakenByOther(s.ctx, phone, b.ID)
	s.NoError(err)
	s.True(taken)
}

func (s *RepositorySuite) TestUser_FindUnconfirmedByToken() {
	token := "tok-1"
	u := &models.User{Email: "c@example.com", Password: "x", ConfirmToken: &token}
	s.Require().NoError(s.users.Create(s.ctx, u))

	found, err := s.users.FindUnconfirmedByToken(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)

	s.Require().NoError(s.users.Update(s.ctx, u.ID, map[string]interface{}{"confirmed": 1, "confirm_token": nil}))
	_, err = s.users.FindUnconfirmedByToken(s.ctx, token)
	s.True(IsNotFound(err))
}

func (s *RepositorySuite) TestArticle_ListPublishedWithSearch() {
	u := s.createUser("a@example.com")
	s.createArticle(u.ID, "Go Generics", models.ArticlePublished)
	s.createArticle(u.ID, "Rust Traits", models.ArticlePublished)
	s.createArticle(u.ID, "Go Draft", models.ArticleDraft)

	list, total, err := s.articles.List(s.ctx, ArticleFilter{PublishedOnly: true}, ListQuery{Search: "go"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(list, 1)
	s.Equal("Go Generics", list[0].Title)
	s.Equal("a@example.com", list[0].User.Email, "author is joined")

	list, total, err = s.articles.List(s.ctx, ArticleFilter{PublishedOnly: true}, ListQuery{Desc: true})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal("Rust Traits", list[0].Title, "newest first")
}

func (s *RepositorySuite) TestArticle_ListPagingAndSort() {
	u := s.createUser("a@example.com")
	for _, title := range []string{"c", "a", "b"} {
		s.createArticle(u.ID, title, models.ArticlePublished)
	}

	list, total, err := s.articles.List(s.ctx, ArticleFilter{}, ListQuery{Page: 1, Limit: 2, OrderBy: "articles.title"})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(list, 2)
	s.Equal("a", list[0].Title)
	s.Equal("b", list[1].Title)

	list, _, err = s.articles.List(s.ctx, ArticleFilter{}, ListQuery{Page: 2, Limit: 2, OrderBy: "title"})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("c", list[0].Title)

	// unknown columns fall back to id instead of reaching SQL
	_, _, err = s.articles.List(s.ctx, ArticleFilter{}, ListQuery{OrderBy: "title; DROP TABLE articles"})
	s.NoError(err)
}

func (s *RepositorySuite) TestArticle_ListByUser() {
	a := s.createUser("a@example.com")
	b := s.createUser("b@example.com")
	s.createArticle(a.ID, "mine", models.ArticleDraft)
	s.createArticle(b.ID, "theirs", models.ArticlePublished)

	list, total, err := s.articles.List(s.ctx, ArticleFilter{UserID: &a.ID}, ListQuery{})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("mine", list[0].Title)
}

func (s *RepositorySuite) TestArticle_TitleTaken() {
	u := s.createUser("a@example.com")
	a := s.createArticle(u.ID, "Hello", models.ArticlePublished)

	taken, err := s.articles.TitleTaken(s.ctx, "Hello", 0)
	s.NoError(err)
	s.True(taken)

	taken, err = s.articles.TitleTaken(s.ctx, "Hello", a.ID)
	s.NoError(err)
	s.False(taken)

	err = s.articles.Create(s.ctx, &models.Article{UserID: u.ID, Title: "Hello", Slug: "other", Description: "d", Content: "c"})
	s.True(errors.Is(err, ErrDuplicateKey))
}

func (s *RepositorySuite) TestArticle_RecordViewOnce() {
	u := s.createUser("a@example.com")
	v := s.createUser("v@example.com")
	a := s.createArticle(u.ID, "Hello", models.ArticlePublished)

	first, err := s.articles.RecordView(s.ctx, a.ID, v.ID)
	s.Require().NoError(err)
	s.True(first)

	for i := 0; i < 3; i++ {
		first, err = s.articles.RecordView(s.ctx, a.ID, v.ID)
		s.Require().NoError(err)
		s.False(first)
	}

	got, err := s.articles.GetByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(uint(1), got.TotalViewer)

	var viewers int64
	s.db.Model(&models.Viewer{}).Where("article_id = ?", a.ID).Count(&viewers)
	s.Equal(int64(1), viewers)
}

func (s *RepositorySuite) TestArticle_RefreshCommentCount() {
	u := s.createUser("a@example.com")
	a := s.createArticle(u.ID, "Hello", models.ArticlePublished)
	c := s.createComment(a.ID, u.ID, nil)
	s.createComment(a.ID, u.ID, &c.ID)

	total, err := s.articles.RefreshCommentCount(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	got, err := s.articles.GetByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(uint(2), got.TotalComment)
}

func (s *RepositorySuite) TestArticle_DeleteRemovesDependents() {
	u := s.createUser("a@example.com")
	a := s.createArticle(u.ID, "Hello", models.ArticlePublished)
	keep := s.createArticle(u.ID, "Keep", models.ArticlePublished)
	s.createComment(a.ID, u.ID, nil)
	s.createComment(keep.ID, u.ID, nil)
	_, err := s.articles.RecordView(s.ctx, a.ID, u.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.articles.Delete(s.ctx, a.ID))

	_, err = s.articles.GetByID(s.ctx, a.ID)
	s.True(IsNotFound(err))

	var comments, viewers int64
	s.db.Model(&models.Comment{}).Count(&comments)
	s.db.Model(&models.Viewer{}).Count(&viewers)
	s.Equal(int64(1), comments)
	s.Equal(int64(0), viewers)
}

func (s *RepositorySuite) TestComment_ListByArticleNewestFirst() {
	u := s.createUser("a@example.com")
	a := s.createArticle(u.ID, "Hello", models.ArticlePublished)
	first := s.createComment(a.ID, u.ID, nil)
	second := s.createComment(a.ID, u.ID, &first.ID)

	list, err := s.comments.ListByArticle(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal("a@example.com", list[0].User.Email)
}

func (s *RepositorySuite) TestComment_DeleteWithReplies() {
	u := s.createUser("a@example.com")
	a := s.createArticle(u.ID, "Hello", models.ArticlePublished)
	root := s.createComment(a.ID, u.ID, nil)
	reply := s.createComment(a.ID, u.ID, &root.ID)
	s.createComment(a.ID, u.ID, &reply.ID)
	other := s.createComment(a.ID, u.ID, nil)

	deleted, err := s.comments.DeleteWithReplies(s.ctx, root.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), deleted)

	list, err := s.comments.ListByArticle(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(other.ID, list[0].ID)
}

func (s *RepositorySuite) TestComment_GetOwned() {
	a := s.createUser("a@example.com")
	b := s.createUser("b@example.com")
	art := s.createArticle(a.ID, "Hello", models.ArticlePublished)
	c := s.createComment(art.ID, a.ID, nil)

	_, err := s.comments.GetOwned(s.ctx, c.ID, b.ID)
	s.True(IsNotFound(err))

	got, err := s.comments.GetOwned(s.ctx, c.ID, a.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, got.ID)
}

func (s *RepositorySuite) TestNotification_ScopedToOwner() {
	a := s.createUser("a@example.com")
	b := s.createUser("b@example.com")
	for _, subject := range []string{"Create comment to article", "Reply comment to article"} {
		s.Require().NoError(s.notifications.Create(s.ctx, &models.Notification{UserID: a.ID, Subject: subject, Message: "m"}))
	}
	s.Require().NoError(s.notifications.Create(s.ctx, &models.Notification{UserID: b.ID, Subject: "other", Message: "m"}))

	list, total, err := s.notifications.ListByUser(s.ctx, a.ID, ListQuery{Search: "reply"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("Reply comment to article", list[0].Subject)

	_, err = s.notifications.GetOwned(s.ctx, list[0].ID, b.ID)
	s.True(IsNotFound(err))
}

func (s *RepositorySuite) TestActivity_ListByUser() {
	u := s.createUser("a@example.com")
	s.Require().NoError(s.activities.Create(s.ctx, &models.Activity{UserID: u.ID, Event: "Sign Up", Description: "Register new user account"}))
	s.Require().NoError(s.activities.Create(s.ctx, &models.Activity{UserID: u.ID, Event: "Sign In", Description: "Sign in to application"}))

	list, total, err := s.activities.ListByUser(s.ctx, u.ID, ListQuery{Desc: true})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal("Sign In", list[0].Event)

	_, total, err = s.activities.ListByUser(s.ctx, u.ID, ListQuery{Search: "REGISTER"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
}
