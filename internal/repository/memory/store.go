// Package memory provides an in-process implementation of repository.Store.
// All collections share one lock so multi-collection writes such as
// enrollment plus occupancy recount are atomic.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
)

// Store keeps every collection in maps keyed by record id.
type Store struct {
	mu            sync.RWMutex
	now           func() time.Time
	last          time.Time
	users         map[string]domain.User
	tutors        map[string]domain.Tutor
	sessions      map[string]domain.Session
	enrollments   map[string]domain.Enrollment
	reviews       map[string]domain.Review
	favorites     map[string]domain.Favorite
	notifications map[string]domain.Notification
	messages      map[string]domain.Message
	resources     map[string]domain.Resource
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:           time.Now,
		users:         make(map[string]domain.User),
		tutors:        make(map[string]domain.Tutor),
		sessions:      make(map[string]domain.Session),
		enrollments:   make(map[string]domain.Enrollment),
		reviews:       make(map[string]domain.Review),
		favorites:     make(map[string]domain.Favorite),
		notifications: make(map[string]domain.Notification),
		messages:      make(map[string]domain.Message),
		resources:     make(map[string]domain.Resource),
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Users() repository.UserRepository                 { return userRepo{s} }
func (s *Store) Tutors() repository.TutorRepository               { return tutorRepo{s} }
func (s *Store) Sessions() repository.SessionRepository           { return sessionRepo{s} }
func (s *Store) Enrollments() repository.EnrollmentRepository     { return enrollmentRepo{s} }
func (s *Store) Reviews() repository.ReviewRepository             { return reviewRepo{s} }
func (s *Store) Favorites() repository.FavoriteRepository         { return favoriteRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }
func (s *Store) Messages() repository.MessageRepository           { return messageRepo{s} }
func (s *Store) Resources() repository.ResourceRepository         { return resourceRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// tick returns a timestamp strictly after the previous one so that
// insertion order survives sorting by time. Callers must hold the write lock.
func (s *Store) tick() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

func newID() string {
	return uuid.NewString()
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneStringPtr(in *string) *string {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
