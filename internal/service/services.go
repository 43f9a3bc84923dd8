package service

import (
	"go.uber.org/zap"

	"github.com/tutorhub/tutor-marketplace/internal/config"
	"github.com/tutorhub/tutor-marketplace/internal/events"
	"github.com/tutorhub/tutor-marketplace/internal/persistence"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
)

// Services groups every marketplace service built over one store.
type Services struct {
	Auth          *AuthService
	Tutors        *TutorService
	Sessions      *SessionService
	Enrollments   *EnrollmentService
	Reviews       *ReviewService
	Favorites     *FavoriteService
	Messages      *MessageService
	Notifications *NotificationService
	Resources     *ResourceService
}

// NewServices wires the services to store and dispatcher. publisher may be
// nil, in which case notifications are only persisted.
func NewServices(cfg config.Config, store repository.Store, dispatcher events.Dispatcher, publisher persistence.Publisher, logger *zap.Logger) *Services {
	return &Services{
		Auth: NewAuthService(cfg, AuthDependencies{
			UserRepo:  store.Users(),
			TutorRepo: store.Tutors(),
		}),
		Tutors: NewTutorService(TutorDependencies{
			TutorRepo:      store.Tutors(),
			SessionRepo:    store.Sessions(),
			EnrollmentRepo: store.Enrollments(),
			FavoriteRepo:   store.Favorites(),
			ResourceRepo:   store.Resources(),
		}),
		Sessions: NewSessionService(SessionDependencies{
			TutorRepo:      store.Tutors(),
			SessionRepo:    store.Sessions(),
			EnrollmentRepo: store.Enrollments(),
			Dispatcher:     dispatcher,
		}),
		Enrollments: NewEnrollmentService(EnrollmentDependencies{
			UserRepo:       store.Users(),
			TutorRepo:      store.Tutors(),
			SessionRepo:    store.Sessions(),
			EnrollmentRepo: store.Enrollments(),
			Dispatcher:     dispatcher,
		}),
		Reviews: NewReviewService(ReviewDependencies{
			UserRepo:       store.Users(),
			TutorRepo:      store.Tutors(),
			SessionRepo:    store.Sessions(),
			EnrollmentRepo: store.Enrollments(),
			ReviewRepo:     store.Reviews(),
			Dispatcher:     dispatcher,
		}),
		Favorites: NewFavoriteService(FavoriteDependencies{
			TutorRepo:    store.Tutors(),
			FavoriteRepo: store.Favorites(),
		}),
		Messages: NewMessageService(MessageDependencies{
			UserRepo:    store.Users(),
			MessageRepo: store.Messages(),
			Dispatcher:  dispatcher,
		}),
		Notifications: NewNotificationService(NotificationDependencies{
			NotificationRepo: store.Notifications(),
			TutorRepo:        store.Tutors(),
			Publisher:        publisher,
			Dispatcher:       dispatcher,
			Channel:          cfg.Redis.NotificationChannel,
		}, logger, cfg.Notification),
		Resources: NewResourceService(ResourceDependencies{
			UserRepo:     store.Users(),
			TutorRepo:    store.Tutors(),
			ResourceRepo: store.Resources(),
		}),
	}
}
