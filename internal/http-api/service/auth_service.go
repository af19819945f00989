package service

import (
	"context"
	"errors"
	"fmt"

	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"
	"blogapi/internal/middleware/auth"

	"github.com/google/uuid"
)

const (
	msgPasswordMismatch = "Please make sure your passwords match."
	msgWeakPassword     = "Password is weak. Recommended passwords contain at least 8 characters, one uppercase, one lowercase, one number, and one special character."
	msgUnconfirmed      = "We have sent you an email confirmation. Please confirm your email and then we will active your account."
)

// dummyHash keeps the unknown-email path as slow as a real password check.
var dummyHash, _ = auth.HashPassword("unknown-account-placeholder")

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (string, error)
	Confirm(ctx context.Context, token string) error
	Forgot(ctx context.Context, req dto.ForgotRequest) error
	Reset(ctx context.Context, token string, req dto.ResetRequest) error
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	users          repository.UserRepository
	tokens         TokenIssuer
	recorder       Recorder
	requireConfirm bool
}

func NewAuthService(
	users repository.UserRepository,
	tokens TokenIssuer,
	recorder Recorder,
	requireConfirm bool,
) AuthService {
	return &authService{
		users:          users,
		tokens:         tokens,
		recorder:       recorder,
		requireConfirm: requireConfirm,
	}
}

// checkNewPassword applies the confirmation and strength rules shared by
// register, reset and change password.
func checkNewPassword(password, confirm string) error {
	if password != confirm {
		return validationError(msgPasswordMismatch)
	}
	if err := auth.CheckPasswordPolicy(password); err != nil {
		return validationError(msgWeakPassword)
	}
	return nil
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	duplicate := conflictError("User with e-mail address `%s` already exists. Please try with another one.", req.Email)

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, duplicate
	} else if !repository.IsNotFound(err) {
		return nil, internalError(err)
	}

	if err := checkNewPassword(req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internalError(err)
	}

	confirmToken := uuid.NewString()
	user := &models.User{
		Email:        req.Email,
		Password:     hashed,
		ConfirmToken: &confirmToken,
		Confirmed:    1,
	}
	if s.requireConfirm {
		user.Confirmed = 0
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicate
		}
		return nil, internalError(err)
	}

	s.recorder.Record(ctx, user.ID, "Sign Up", "Register new user account")
	return user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if !repository.IsNotFound(err) {
			return "", internalError(err)
		}
		_ = auth.VerifyPassword(dummyHash, req.Password)
		return "", unauthorizedError("You have entered an invalid credential and password. Please try again.")
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		return "", unauthorizedError("The password your entered is incorrect. Please try again.")
	}

	if !user.IsConfirmed() {
		return "", unauthorizedError(msgUnconfirmed)
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", internalError(err)
	}

	s.recorder.Record(ctx, user.ID, "Sign In", "Sign in to application")
	return token, nil
}

func (s *authService) Confirm(ctx context.Context, token string) error {
	user, err := s.users.FindUnconfirmedByToken(ctx, token)
	if err != nil {
		if repository.IsNotFound(err) {
			return validationError("This e-mail confirmation token is invalid.")
		}
		return internalError(err)
	}

	err = s.users.Update(ctx, user.ID, map[string]interface{}{
		"confirmed":     1,
		"confirm_token": nil,
	})
	if err != nil {
		return internalError(err)
	}

	s.recorder.Record(ctx, user.ID, "Email Verification", "Confirm new member registration account")
	return nil
}

func (s *authService) Forgot(ctx context.Context, req dto.ForgotRequest) error {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return unauthorizedError("A user was not found for this e-mail address.")
		}
		return internalError(err)
	}

	if !user.IsConfirmed() {
		return unauthorizedError(msgUnconfirmed)
	}

	if err := s.users.Update(ctx, user.ID, map[string]interface{}{
		"reset_token": uuid.NewString(),
	}); err != nil {
		return internalError(err)
	}

	s.recorder.Record(ctx, user.ID, "Forgot Password", "Request reset password link")
	return nil
}

func (s *authService) Reset(ctx context.Context, token string, req dto.ResetRequest) error {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return unauthorizedError("A user was not found for this credential.")
		}
		return internalError(err)
	}

	if token == "" || user.ResetToken == nil || *user.ResetToken != token {
		return validationError("We can't find a user with that e-mail address or password reset token is invalid.")
	}

	if err := checkNewPassword(req.Password, req.PasswordConfirm); err != nil {
		return err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return internalError(err)
	}

	err = s.users.Update(ctx, user.ID, map[string]interface{}{
		"password":      hashed,
		"reset_token":   nil,
		"confirm_token": nil,
		"confirmed":     1,
	})
	if err != nil {
		return internalError(err)
	}

	s.recorder.Record(ctx, user.ID, "Reset Password", "Reset account password")
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Message: "Invalid or expired token", Err: err}
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, unauthorizedError("Invalid or expired token")
		}
		return nil, internalError(fmt.Errorf("authenticate: %w", err))
	}
	return user, nil
}
