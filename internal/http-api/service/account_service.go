package service

import (
	"context"
	"errors"
	"strings"

	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"
	"blogapi/internal/middleware/auth"
)

const msgUserNotFound = "User with id %d was not found.!!"

type AccountService interface {
	Detail(ctx context.Context, userID uint64) (*dto.AccountResponse, error)
	Activities(ctx context.Context, userID uint64, q repository.ListQuery) (*dto.PagedResponse[models.Activity], error)
	RefreshToken(ctx context.Context, userID uint64) (string, error)
	UpdateProfile(ctx context.Context, userID uint64, req dto.UpdateProfileRequest) (string, error)
	UploadImage(ctx context.Context, userID uint64, upload Upload) (string, error)
	ChangePassword(ctx context.Context, userID uint64, req dto.ChangePasswordRequest) error
}

type accountService struct {
	users      repository.UserRepository
	activities repository.ActivityRepository
	tokens     TokenIssuer
	store      FileStore
	recorder   Recorder
}

func NewAccountService(
	users repository.UserRepository,
	activities repository.ActivityRepository,
	tokens TokenIssuer,
	store FileStore,
	recorder Recorder,
) AccountService {
	return &accountService{
		users:      users,
		activities: activities,
		tokens:     tokens,
		store:      store,
		recorder:   recorder,
	}
}

func (s *accountService) findUser(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError(msgUserNotFound, userID)
		}
		return nil, internalError(err)
	}
	return user, nil
}

func (s *accountService) Detail(ctx context.Context, userID uint64) (*dto.AccountResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToAccountResponse(user), nil
}

func (s *accountService) Activities(ctx context.Context, userID uint64, q repository.ListQuery) (*dto.PagedResponse[models.Activity], error) {
	list, total, err := s.activities.ListByUser(ctx, userID, q)
	if err != nil {
		return nil, internalError(err)
	}
	return dto.NewPagedResponse(list, total), nil
}

func (s *accountService) RefreshToken(ctx context.Context, userID uint64) (string, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", internalError(err)
	}
	return token, nil
}

// UpdateProfile writes every profile column and returns a token for the
// possibly changed e-mail address.
func (s *accountService) UpdateProfile(ctx context.Context, userID uint64, req dto.UpdateProfileRequest) (string, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return "", err
	}

	emailTaken := conflictError("The e-mail address has already been taken.!")
	phoneTaken := conflictError("The phone number has already been taken.!")

	taken, err := s.users.EmailTakenByOther(ctx, req.Email, userID)
	if err != nil {
		return "", internalError(err)
	}
	if taken {
		return "", emailTaken
	}

	phone := blankToNil(req.Phone)
	if phone != nil {
		taken, err := s.users.PhoneTakenByOther(ctx, *phone, userID)
		if err != nil {
			return "", internalError(err)
		}
		if taken {
			return "", phoneTaken
		}
	}

	err = s.users.Update(ctx, userID, map[string]interface{}{
		"email":      req.Email,
		"phone":      phone,
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"gender":     req.Gender,
		"job_title":  req.JobTitle,
		"country":    req.Country,
		"instagram":  req.Instagram,
		"facebook":   req.Facebook,
		"twitter":    req.Twitter,
		"linked_in":  req.LinkedIn,
		"address":    req.Address,
		"about_me":   req.AboutMe,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// lost a race on either unique column; report the one the caller most likely changed
			if phone != nil {
				if taken, _ := s.users.PhoneTakenByOther(ctx, *phone, userID); taken {
					return "", phoneTaken
				}
			}
			return "", emailTaken
		}
		return "", internalError(err)
	}

	s.recorder.Record(ctx, userID, "Update Profile", "Edit user profile account")

	token, err := s.tokens.Issue(req.Email)
	if err != nil {
		return "", internalError(err)
	}
	return token, nil
}

func (s *accountService) UploadImage(ctx context.Context, userID uint64, upload Upload) (string, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return "", err
	}

	image, err := replaceImage(ctx, s.store, upload, user.Image, func(stored string) error {
		return s.users.Update(ctx, userID, map[string]interface{}{"image": stored})
	})
	if err != nil {
		return "", err
	}

	s.recorder.Record(ctx, userID, "Upload Profile Image", "Upload new user profile image")
	return image, nil
}

func (s *accountService) ChangePassword(ctx context.Context, userID uint64, req dto.ChangePasswordRequest) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if req.Password != req.PasswordConfirm {
		return validationError(msgPasswordMismatch)
	}
	if err := auth.VerifyPassword(user.Password, req.CurrentPassword); err != nil {
		return validationError("Your password was not updated, since the provided current password does not match.!!")
	}
	if err := auth.CheckPasswordPolicy(req.Password); err != nil {
		return validationError(msgWeakPassword)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return internalError(err)
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"password": hashed}); err != nil {
		return internalError(err)
	}

	s.recorder.Record(ctx, userID, "Change Password", "Change new password account")
	return nil
}

// blankToNil stores an empty optional column as NULL, which keeps it out of
// the unique index.
func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
