package database

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogapi/internal/config"
	"blogapi/internal/http-api/models"
	"blogapi/internal/middleware/auth"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver:       "sqlite",
		DatabaseURL:    ":memory:",
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
		LogLevel:       "error",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := Open(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db, logger))
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	db := openMemory(t)

	res, err := Seed(context.Background(), db, SeedOptions{Users: 3, ArticlesPerUser: 2, CommentsPerPost: 4})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Users)
	assert.Equal(t, 6, res.Articles)
	assert.Equal(t, 24, res.Comments)
	assert.Len(t, res.Emails, 3)

	var articles []models.Article
	require.NoError(t, db.Find(&articles).Error)
	require.Len(t, articles, 6)
	for _, a := range articles {
		var live int64
		require.NoError(t, db.Model(&models.Comment{}).Where("article_id = ?", a.ID).Count(&live).Error)
		assert.Equal(t, int64(a.TotalComment), live)
		assert.Equal(t, models.ArticlePublished, a.Status)
	}

	var replies int64
	require.NoError(t, db.Model(&models.Comment{}).Where("parent_id IS NOT NULL").Count(&replies).Error)
	assert.Equal(t, int64(12), replies)

	var user models.User
	require.NoError(t, db.Where("email = ?", res.Emails[0]).First(&user).Error)
	assert.NoError(t, auth.VerifyPassword(user.Password, DemoPassword))
}
