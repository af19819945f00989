package dto

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,min=8"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotRequest: payload for requesting a reset token
type ForgotRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetRequest: payload for setting a new password with a reset token
type ResetRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,min=8"`
}

// TokenResponse: signed access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Message     string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
