package service

import (
	"context"
	"log/slog"
	"time"

	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"
	"blogapi/internal/queue"
)

// Recorder writes the audit trail and user notifications that follow a
// successful mutation. It never fails the caller: errors are only logged.
type Recorder interface {
	Record(ctx context.Context, userID uint64, event, description string)
	Notify(ctx context.Context, userID uint64, subject, message string)
}

type recorder struct {
	activities    repository.ActivityRepository
	notifications repository.NotificationRepository
	publisher     queue.Publisher
	logger        *slog.Logger
}

func NewRecorder(
	activities repository.ActivityRepository,
	notifications repository.NotificationRepository,
	publisher queue.Publisher,
	logger *slog.Logger,
) Recorder {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &recorder{
		activities:    activities,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
	}
}

func (r *recorder) Record(ctx context.Context, userID uint64, event, description string) {
	activity := &models.Activity{
		UserID:      userID,
		Event:       event,
		Description: description,
	}
	if err := r.activities.Create(ctx, activity); err != nil {
		r.logger.Error("activity_record_failed",
			"user_id", userID,
			"event", event,
			"error", err,
		)
		return
	}

	err := r.publisher.PublishActivity(ctx, queue.ActivityRecordedEvent{
		ActivityID:  activity.ID,
		UserID:      userID,
		Event:       event,
		Description: description,
		RecordedAt:  time.Now().UTC(),
	})
	if err != nil {
		r.logger.Warn("activity_publish_failed",
			"activity_id", activity.ID,
			"error", err,
		)
	}
}

func (r *recorder) Notify(ctx context.Context, userID uint64, subject, message string) {
	n := &models.Notification{
		UserID:  userID,
		Subject: subject,
		Message: message,
	}
	if err := r.notifications.Create(ctx, n); err != nil {
		r.logger.Error("notification_create_failed",
			"user_id", userID,
			"subject", subject,
			"error", err,
		)
	}
}
