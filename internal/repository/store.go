package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the repositories backing the marketplace.
type Store interface {
	Users() UserRepository
	Tutors() TutorRepository
	Sessions() SessionRepository
	Enrollments() EnrollmentRepository
	Reviews() ReviewRepository
	Favorites() FavoriteRepository
	Notifications() NotificationRepository
	Messages() MessageRepository
	Resources() ResourceRepository
	Ping(ctx context.Context) error
}

type postgresStore struct {
	pool          *pgxpool.Pool
	users         UserRepository
	tutors        TutorRepository
	sessions      SessionRepository
	enrollments   EnrollmentRepository
	reviews       ReviewRepository
	favorites     FavoriteRepository
	notifications NotificationRepository
	messages      MessageRepository
	resources     ResourceRepository
}

// NewPostgresStore returns a Store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{
		pool:          pool,
		users:         NewUserRepository(pool),
		tutors:        NewTutorRepository(pool),
		sessions:      NewSessionRepository(pool),
		enrollments:   NewEnrollmentRepository(pool),
		reviews:       NewReviewRepository(pool),
		favorites:     NewFavoriteRepository(pool),
		notifications: NewNotificationRepository(pool),
		messages:      NewMessageRepository(pool),
		resources:     NewResourceRepository(pool),
	}
}

func (s *postgresStore) Users() UserRepository                 { return s.users }
func (s *postgresStore) Tutors() TutorRepository               { return s.tutors }
func (s *postgresStore) Sessions() SessionRepository           { return s.sessions }
func (s *postgresStore) Enrollments() EnrollmentRepository     { return s.enrollments }
func (s *postgresStore) Reviews() ReviewRepository             { return s.reviews }
func (s *postgresStore) Favorites() FavoriteRepository         { return s.favorites }
func (s *postgresStore) Notifications() NotificationRepository { return s.notifications }
func (s *postgresStore) Messages() MessageRepository           { return s.messages }
func (s *postgresStore) Resources() ResourceRepository         { return s.resources }

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
