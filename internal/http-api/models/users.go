package models

import "time"

type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"size:180;uniqueIndex;not null" json:"email"`
	Phone        *string   `gorm:"size:64;uniqueIndex" json:"phone"`
	Password     string    `gorm:"size:255;not null" json:"-"` // Not show in JSON
	Image        *string   `gorm:"size:255" json:"image"`
	FirstName    *string   `gorm:"size:191;index" json:"first_name"`
	LastName     *string   `gorm:"size:191;index" json:"last_name"`
	Gender       *string   `gorm:"size:2" json:"gender"`
	JobTitle     *string   `gorm:"size:191" json:"job_title"`
	Country      *string   `gorm:"size:191" json:"country"`
	Instagram    *string   `gorm:"size:255" json:"instagram"`
	Facebook     *string   `gorm:"size:255" json:"facebook"`
	Twitter      *string   `gorm:"size:255" json:"twitter"`
	LinkedIn     *string   `gorm:"column:linked_in;size:255" json:"linked_in"`
	Address      *string   `gorm:"type:text" json:"address"`
	AboutMe      *string   `gorm:"type:text" json:"about_me"`
	ResetToken   *string   `gorm:"size:36;index" json:"-"`
	ConfirmToken *string   `gorm:"size:36;index" json:"-"`
	Confirmed    uint8     `gorm:"default:0;index" json:"confirmed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsConfirmed reports whether the e-mail address has been verified.
func (u *User) IsConfirmed() bool {
	return u.Confirmed == 1
}
