package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhub/tutor-marketplace/internal/config"
	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/events"
	"github.com/tutorhub/tutor-marketplace/internal/persistence"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

// NotificationService turns domain events into user notifications. Delivery is
// best-effort: failures are logged and never reach the originating operation.
type NotificationService struct {
	notifications repository.NotificationRepository
	tutors        repository.TutorRepository
	publisher     persistence.Publisher
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	cfg           config.NotificationConfig
	channel       string
}

// NotificationDependencies bundles collaborators for the notification service.
// Publisher is optional.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	TutorRepo        repository.TutorRepository
	Publisher        persistence.Publisher
	Dispatcher       events.Dispatcher
	Channel          string
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	channel := deps.Channel
	if channel == "" {
		channel = "notifications"
	}
	return &NotificationService{
		notifications: deps.NotificationRepo,
		tutors:        deps.TutorRepo,
		publisher:     deps.Publisher,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		cfg:           cfg,
		channel:       channel,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEnrollmentCreated, n.handleEnrollmentCreated)
	n.dispatcher.Subscribe(events.EventReviewSubmitted, n.handleReviewSubmitted)
	n.dispatcher.Subscribe(events.EventSessionCancelled, n.handleSessionCancelled)
	n.dispatcher.Subscribe(events.EventSessionCompleted, n.handleSessionCompleted)
	n.dispatcher.Subscribe(events.EventMessageSent, n.handleMessageSent)
}

// Notify stores a notification for the user and fans it out on the user's channel.
func (n *NotificationService) Notify(ctx context.Context, userID string, kind domain.NotificationType, title, message, relatedID string) (*domain.Notification, error) {
	if !n.cfg.Enabled {
		return nil, nil
	}
	notification := &domain.Notification{
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("store notification: %w", err)
	}

	if n.publisher != nil {
		if err := n.publisher.PublishJSON(ctx, n.ChannelFor(userID), newPushMessage(notification)); err != nil {
			n.logger.Warn("notification publish failed",
				zap.String("user_id", userID),
				zap.String("type", string(kind)),
				zap.Error(err))
		}
	}
	return notification, nil
}

// ChannelFor returns the pub/sub channel of a user.
func (n *NotificationService) ChannelFor(userID string) string {
	return n.channel + ":" + userID
}

// List returns the user's notifications, newest first.
func (n *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	items, err := n.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return items, nil
}

// UnreadCount returns how many notifications the user has not read.
func (n *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := n.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.NewStorageUnavailable(err)
	}
	return count, nil
}

// MarkRead marks one of the user's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := n.notifications.MarkRead(ctx, userID, notificationID); err != nil {
		return storageError(err, "notification", map[string]any{"notification_id": notificationID})
	}
	return nil
}

// MarkAllRead marks every notification of the user as read.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := n.notifications.MarkAllRead(ctx, userID); err != nil {
		return apperrors.NewStorageUnavailable(err)
	}
	return nil
}

func (n *NotificationService) handleEnrollmentCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EnrollmentCreatedPayload)
	if !ok {
		return errUnexpectedPayload(event)
	}
	tutorUserID, err := n.tutorUserID(ctx, payload.TutorID)
	if err != nil || tutorUserID == "" {
		return err
	}
	_, err = n.Notify(ctx, tutorUserID, domain.NotificationEnrollment,
		"New Enrollment",
		fmt.Sprintf("A student enrolled in your session %q", payload.SessionTitle),
		payload.SessionID)
	return err
}

func (n *NotificationService) handleReviewSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReviewSubmittedPayload)
	if !ok {
		return errUnexpectedPayload(event)
	}
	tutorUserID, err := n.tutorUserID(ctx, payload.TutorID)
	if err != nil || tutorUserID == "" {
		return err
	}
	_, err = n.Notify(ctx, tutorUserID, domain.NotificationReview,
		"New Review",
		fmt.Sprintf("%s left you a %d-star review", payload.UserName, payload.Rating),
		payload.ReviewID)
	return err
}

func (n *NotificationService) handleSessionCancelled(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SessionStatusPayload)
	if !ok {
		return errUnexpectedPayload(event)
	}
	var errs []error
	for _, studentID := range payload.StudentIDs {
		if _, err := n.Notify(ctx, studentID, domain.NotificationSessionCancelled,
			"Session Cancelled",
			fmt.Sprintf("The session %q has been cancelled", payload.Title),
			payload.SessionID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *NotificationService) handleSessionCompleted(_ context.Context, event events.Event) error {
	n.logger.Info("SessionCompleted", zap.String("session_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleMessageSent(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageSentPayload)
	if !ok {
		return errUnexpectedPayload(event)
	}
	sender := payload.SenderName
	if sender == "" {
		sender = "Someone"
	}
	_, err := n.Notify(ctx, payload.ReceiverID, domain.NotificationMessage,
		"New Message",
		fmt.Sprintf("%s sent you a message", sender),
		payload.MessageID)
	return err
}

// tutorUserID resolves the account behind a tutor profile. Seed profiles
// without an account resolve to "".
func (n *NotificationService) tutorUserID(ctx context.Context, tutorID string) (string, error) {
	tutor, err := n.tutors.GetByID(ctx, tutorID)
	if err != nil {
		return "", fmt.Errorf("load tutor %s: %w", tutorID, err)
	}
	if tutor.UserID == nil {
		return "", nil
	}
	return *tutor.UserID, nil
}

// pushMessage is the JSON body published on a user's channel.
type pushMessage struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	RelatedID string                  `json:"related_id,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

func newPushMessage(notification *domain.Notification) pushMessage {
	return pushMessage{
		ID:        notification.ID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		RelatedID: notification.RelatedID,
		CreatedAt: notification.CreatedAt,
	}
}

func errUnexpectedPayload(event events.Event) error {
	return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
}
