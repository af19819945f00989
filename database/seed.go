package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/Pallinder/go-randomdata"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"blogapi/internal/http-api/models"
	"blogapi/internal/middleware/auth"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "Secret@123"

type SeedOptions struct {
	Users           int
	ArticlesPerUser int
	CommentsPerPost int
}

type SeedResult struct {
	Users    int
	Articles int
	Comments int
	Emails   []string
}

// Seed fills an empty database with demo users, articles and threaded comments.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) (*SeedResult, error) {
	if opts.Users < 1 {
		opts.Users = 1
	}

	hashed, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}

	result := &SeedResult{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]models.User, 0, opts.Users)
		for i := 0; i < opts.Users; i++ {
			first := randomdata.FirstName(randomdata.RandomGender)
			last := randomdata.LastName()
			gender := randomdata.StringSample("M", "F")
			job := randomdata.StringSample("Writer", "Editor", "Engineer", "Designer")
			country := randomdata.Country(randomdata.FullCountry)
			about := randomdata.Paragraph()
			user := models.User{
				Email:     fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
				Password:  hashed,
				FirstName: &first,
				LastName:  &last,
				Gender:    &gender,
				JobTitle:  &job,
				Country:   &country,
				AboutMe:   &about,
				Confirmed: 1,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("seed user: %w", err)
			}
			users = append(users, user)
			result.Emails = append(result.Emails, user.Email)
		}
		result.Users = len(users)

		for _, owner := range users {
			for j := 0; j < opts.ArticlesPerUser; j++ {
				summary := randomdata.Paragraph()
				if len(summary) > 120 {
					summary = strings.TrimSpace(summary[:120])
				}
				title := fmt.Sprintf("%s %s %s", randomdata.Adjective(), randomdata.Noun(), randomdata.Alphanumeric(6))
				article := models.Article{
					UserID:      owner.ID,
					Title:       title,
					Slug:        slug.Make(title),
					Description: summary,
					Content:     randomdata.Paragraph() + "\n\n" + randomdata.Paragraph(),
					Categories:  strings.Join([]string{randomdata.Noun(), randomdata.Noun()}, ","),
					Tags:        strings.Join([]string{randomdata.Adjective(), randomdata.Noun()}, ","),
					Status:      models.ArticlePublished,
				}
				if err := tx.Omit("User").Create(&article).Error; err != nil {
					return fmt.Errorf("seed article: %w", err)
				}
				result.Articles++

				var previous *models.Comment
				for k := 0; k < opts.CommentsPerPost; k++ {
					author := users[randomdata.Number(len(users))]
					comment := models.Comment{
						ArticleID: article.ID,
						UserID:    author.ID,
						Message:   randomdata.Paragraph(),
					}
					// every other comment replies to the one before it
					if previous != nil && k%2 == 1 {
						comment.ParentID = &previous.ID
					}
					if err := tx.Omit("User").Create(&comment).Error; err != nil {
						return fmt.Errorf("seed comment: %w", err)
					}
					previous = &comment
					result.Comments++
				}

				if err := tx.Model(&models.Article{}).
					Where("id = ?", article.ID).
					UpdateColumn("total_comment", opts.CommentsPerPost).Error; err != nil {
					return fmt.Errorf("seed comment count: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
