package service

import (
	"context"

	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"
)

const msgNotificationNotFound = "Notification with id %d was not found.!!"

type NotificationService interface {
	List(ctx context.Context, userID uint64, q repository.ListQuery) (*dto.PagedResponse[models.Notification], error)
	Read(ctx context.Context, userID, notificationID uint64) (*models.Notification, error)
	Delete(ctx context.Context, userID, notificationID uint64) error
}

type notificationService struct {
	notifications repository.NotificationRepository
	recorder      Recorder
}

func NewNotificationService(notifications repository.NotificationRepository, recorder Recorder) NotificationService {
	return &notificationService{
		notifications: notifications,
		recorder:      recorder,
	}
}

func (s *notificationService) List(ctx context.Context, userID uint64, q repository.ListQuery) (*dto.PagedResponse[models.Notification], error) {
	list, total, err := s.notifications.ListByUser(ctx, userID, q)
	if err != nil {
		return nil, internalError(err)
	}
	return dto.NewPagedResponse(list, total), nil
}

func (s *notificationService) Read(ctx context.Context, userID, notificationID uint64) (*models.Notification, error) {
	n, err := s.notifications.GetOwned(ctx, notificationID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError(msgNotificationNotFound, notificationID)
		}
		return nil, internalError(err)
	}
	return n, nil
}

func (s *notificationService) Delete(ctx context.Context, userID, notificationID uint64) error {
	n, err := s.Read(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if err := s.notifications.Delete(ctx, n.ID); err != nil {
		return internalError(err)
	}
	s.recorder.Record(ctx, userID, "Delete notification", "The user delete notification with subject "+n.Subject)
	return nil
}
