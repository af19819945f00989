package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"blogapi/database"
	"blogapi/internal/config"
	"blogapi/internal/http-api/middleware"
	"blogapi/internal/http-api/repository"
	"blogapi/internal/http-api/router"
	"blogapi/internal/http-api/service"
	"blogapi/internal/queue"
)

const password = "Secret@123"

// APISuite drives the full engine against an in-memory database.
type APISuite struct {
	suite.Suite
	cfg    *config.Config
	engine *gin.Engine
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.cfg = &config.Config{
		GoEnv:                   "test",
		DBDriver:                "sqlite",
		DatabaseURL:             ":memory:",
		DBMaxOpenConns:          1,
		DBMaxIdleConns:          1,
		JWTSecret:               strings.Repeat("s", 32),
		JWTExpiry:               time.Hour,
		RateLimitEnabled:        true,
		RateLimitCapacity:       50,
		RateLimitRefillInterval: time.Second,
		RateLimitTTL:            time.Minute,
		LogLevel:                "error",
		CORSOrigins:             []string{"*"},
		UploadDir:               s.T().TempDir(),
		UploadMaxSize:           1 << 20,
		NotifyRecipient:         config.RecipientOwner,
	}
	s.engine = s.newEngine(middleware.NewLocalLimiter(s.cfg.RateLimitCapacity, s.cfg.RateLimitRefillInterval, s.cfg.RateLimitTTL))
}

func (s *APISuite) newEngine(limiter middleware.Limiter) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(s.cfg, logger)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = database.Close(db) })
	s.Require().NoError(database.Migrate(db, logger))

	store, err := service.NewLocalStore(s.cfg.UploadDir, s.cfg.UploadMaxSize)
	s.Require().NoError(err)

	users := repository.NewUserRepository(db)
	articles := repository.NewArticleRepository(db)
	comments := repository.NewCommentRepository(db)
	notifications := repository.NewNotificationRepository(db)
	activities := repository.NewActivityRepository(db)
	recorder := service.NewRecorder(activities, notifications, queue.NopPublisher{}, logger)
	tokens := service.NewTokenIssuer(s.cfg.JWTSecret, s.cfg.JWTExpiry)

	return router.New(router.Services{
		Auth:         service.NewAuthService(users, tokens, recorder, false),
		Account:      service.NewAccountService(users, activities, tokens, store, recorder),
		Article:      service.NewArticleService(articles, users, store, recorder),
		Comment:      service.NewCommentService(comments, articles, recorder, s.cfg.NotifyRecipient),
		Notification: service.NewNotificationService(notifications, recorder),
	}, router.Options{Config: s.cfg, Logger: logger, Limiter: limiter})
}

func (s *APISuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	out := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (s *APISuite) signUp(email string) string {
	w, _ := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": password, "password_confirm": password,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, body := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return body["access_token"].(string)
}

func (s *APISuite) TestHealth() {
	w, body := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("ok", body["status"])
}

func (s *APISuite) TestProtectedRoutesRequireToken() {
	for _, path := range []string{"/api/account/detail", "/api/article/user", "/api/notification/list"} {
		w, _ := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusUnauthorized, w.Code, path)
	}
	w, _ := s.do(http.MethodGet, "/api/account/detail", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestArticleCommentFlow() {
	author := s.signUp("author@example.com")
	reader := s.signUp("reader@example.com")

	w, created := s.do(http.MethodPost, "/api/article/create", author, map[string]interface{}{
		"title": "Hello World", "description": "first", "content": "body",
		"status": 1, "categories": []string{"news"}, "tags": []string{"go"},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("hello-world", created["slug"])
	articleID := uint64(created["id"].(float64))

	w, list := s.do(http.MethodGet, "/api/article/list?search=hello", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(float64(1), list["total"])

	w, read := s.do(http.MethodGet, "/api/article/read/hello-world", reader, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(float64(1), read["data"].(map[string]interface{})["total_viewer"])

	commentPath := fmt.Sprintf("/api/comment/create/%d", articleID)
	w, root := s.do(http.MethodPost, commentPath, reader, map[string]interface{}{"comment": "great post"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	rootID := root["id"].(float64)

	w, _ = s.do(http.MethodPost, commentPath, author, map[string]interface{}{"comment": "thanks", "parent_id": rootID})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, tree := s.do(http.MethodGet, fmt.Sprintf("/api/comment/list/%d", articleID), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	roots := tree["data"].([]interface{})
	s.Require().Len(roots, 1)
	children := roots[0].(map[string]interface{})["children"].([]interface{})
	s.Len(children, 1)

	w, read = s.do(http.MethodGet, "/api/article/read/hello-world", reader, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	data := read["data"].(map[string]interface{})
	s.Equal(float64(2), data["total_comment"])
	s.Equal(float64(1), data["total_viewer"])

	// only the reader's comment notifies the author
	w, inbox := s.do(http.MethodGet, "/api/notification/list", author, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(float64(1), inbox["total"])

	w, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/comment/remove/%d", int(rootID)), author, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/comment/remove/%d", int(rootID)), reader, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w, tree = s.do(http.MethodGet, fmt.Sprintf("/api/comment/list/%d", articleID), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Empty(tree["data"])
}

func (s *APISuite) TestAuthRateLimit() {
	s.cfg.RateLimitCapacity = 2
	s.engine = s.newEngine(middleware.NewLocalLimiter(2, time.Hour, time.Hour))

	creds := map[string]string{"email": "nobody@example.com", "password": password}
	for i := 0; i < 2; i++ {
		w, _ := s.do(http.MethodPost, "/api/auth/login", "", creds)
		s.Equal(http.StatusUnauthorized, w.Code)
	}
	w, body := s.do(http.MethodPost, "/api/auth/login", "", creds)
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.Equal("rate_limited", body["kind"])
	s.NotEmpty(w.Header().Get("Retry-After"))
}
