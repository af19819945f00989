package dto

import (
	"time"

	"blogapi/internal/http-api/models"
)

// UpdateProfileRequest replaces every profile column. Absent optional fields are cleared.
type UpdateProfileRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=64"`
	FirstName *string `json:"first_name" binding:"omitempty,max=191"`
	LastName  *string `json:"last_name" binding:"omitempty,max=191"`
	Gender    *string `json:"gender" binding:"omitempty,max=2"`
	JobTitle  *string `json:"job_title" binding:"omitempty,max=191"`
	Country   *string `json:"country" binding:"omitempty,max=191"`
	Instagram *string `json:"instagram" binding:"omitempty,max=255"`
	Facebook  *string `json:"facebook" binding:"omitempty,max=255"`
	Twitter   *string `json:"twitter" binding:"omitempty,max=255"`
	LinkedIn  *string `json:"linked_in" binding:"omitempty,max=255"`
	Address   *string `json:"address"`
	AboutMe   *string `json:"about_me"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,min=8"`
}

type ImageResponse struct {
	Image   string `json:"image"`
	Message string `json:"message"`
}

// AccountResponse is the caller's own profile.
type AccountResponse struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Image     *string   `json:"image"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Gender    *string   `json:"gender"`
	JobTitle  *string   `json:"job_title"`
	Country   *string   `json:"country"`
	Instagram *string   `json:"instagram"`
	Facebook  *string   `json:"facebook"`
	Twitter   *string   `json:"twitter"`
	LinkedIn  *string   `json:"linked_in"`
	Address   *string   `json:"address"`
	AboutMe   *string   `json:"about_me"`
	Confirmed uint8     `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModelToAccountResponse(u *models.User) *AccountResponse {
	return &AccountResponse{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Image:     u.Image,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		JobTitle:  u.JobTitle,
		Country:   u.Country,
		Instagram: u.Instagram,
		Facebook:  u.Facebook,
		Twitter:   u.Twitter,
		LinkedIn:  u.LinkedIn,
		Address:   u.Address,
		AboutMe:   u.AboutMe,
		Confirmed: u.Confirmed,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PagedResponse is the {total, data} envelope of the account and notification lists.
type PagedResponse[T any] struct {
	Total int64 `json:"total"`
	Data  []T   `json:"data"`
}

func NewPagedResponse[T any](data []T, total int64) *PagedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &PagedResponse[T]{Total: total, Data: data}
}
