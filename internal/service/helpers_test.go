package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhub/tutor-marketplace/internal/config"
	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/events"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	"github.com/tutorhub/tutor-marketplace/internal/repository/memory"
)

var errBackendDown = errors.New("connection refused")

type testEnv struct {
	store         *memory.Store
	dispatcher    events.Dispatcher
	publisher     *recordingPublisher
	auth          *AuthService
	tutors        *TutorService
	sessions      *SessionService
	enrollments   *EnrollmentService
	reviews       *ReviewService
	favorites     *FavoriteService
	messages      *MessageService
	notifications *NotificationService
	resources     *ResourceService
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            4,
		},
		Notification: config.NotificationConfig{Enabled: true},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, memory.NewStore())
}

func newTestEnvWithStore(t *testing.T, store repository.Store) *testEnv {
	t.Helper()
	cfg := testConfig()
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	publisher := &recordingPublisher{}

	services := NewServices(cfg, store, dispatcher, publisher, zap.NewNop())

	env := &testEnv{
		dispatcher:    dispatcher,
		publisher:     publisher,
		auth:          services.Auth,
		tutors:        services.Tutors,
		sessions:      services.Sessions,
		enrollments:   services.Enrollments,
		reviews:       services.Reviews,
		favorites:     services.Favorites,
		messages:      services.Messages,
		notifications: services.Notifications,
		resources:     services.Resources,
	}
	if s, ok := store.(*memory.Store); ok {
		env.store = s
	}
	env.notifications.RegisterHandlers()
	return env
}

func (e *testEnv) register(t *testing.T, name string, role domain.Role) *AuthResult {
	t.Helper()
	result, err := e.auth.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return result
}

func (e *testEnv) student(t *testing.T, name string) *domain.User {
	t.Helper()
	return e.register(t, name, domain.RoleStudent).User
}

// tutor registers a tutor account and returns the user and its profile.
func (e *testEnv) tutor(t *testing.T, name string) (*domain.User, *domain.Tutor) {
	t.Helper()
	result := e.register(t, name, domain.RoleTutor)
	require.NotNil(t, result.Tutor)
	return result.User, result.Tutor
}

func (e *testEnv) session(t *testing.T, tutorUser *domain.User, maxStudents int) *domain.Session {
	t.Helper()
	session, err := e.sessions.CreateSession(context.Background(), tutorUser.ID, SessionCreateInput{
		Title:       "Algebra basics",
		Subject:     "Math",
		ScheduledAt: time.Now().Add(24 * time.Hour),
		MaxStudents: maxStudents,
	})
	require.NoError(t, err)
	return session
}

// completedSessionWith enrolls the students into a new session of the tutor
// and completes it.
func (e *testEnv) completedSessionWith(t *testing.T, tutorUser *domain.User, students ...*domain.User) *domain.Session {
	t.Helper()
	ctx := context.Background()
	session := e.session(t, tutorUser, len(students)+1)
	for _, student := range students {
		_, err := e.enrollments.Enroll(ctx, student.ID, session.ID)
		require.NoError(t, err)
	}
	session, err := e.sessions.CompleteSession(ctx, tutorUser.ID, session.ID)
	require.NoError(t, err)
	return session
}

type publishedMessage struct {
	channel string
	payload any
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, channel string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, publishedMessage{channel: channel, payload: payload})
	return nil
}

func (p *recordingPublisher) channels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, m.channel)
	}
	return out
}

// brokenNotificationStore fails every notification write with a backend error.
type brokenNotificationStore struct {
	repository.Store
}

func (s brokenNotificationStore) Notifications() repository.NotificationRepository {
	return brokenNotifications{s.Store.Notifications()}
}

type brokenSessions struct {
	repository.SessionRepository
}

func (brokenSessions) GetByID(context.Context, string) (*domain.Session, error) {
	return nil, errBackendDown
}

type brokenNotifications struct {
	repository.NotificationRepository
}

func (brokenNotifications) Create(context.Context, *domain.Notification) error {
	return errBackendDown
}

// interleavingStore lets a test run code in the middle of another operation.
type interleavingStore struct {
	repository.Store
	tutors   repository.TutorRepository
	sessions repository.SessionRepository
}

func (s interleavingStore) Tutors() repository.TutorRepository {
	if s.tutors != nil {
		return s.tutors
	}
	return s.Store.Tutors()
}

func (s interleavingStore) Sessions() repository.SessionRepository {
	if s.sessions != nil {
		return s.sessions
	}
	return s.Store.Sessions()
}

// closingSessions completes the session right after the next armed GetByID
// has returned its snapshot.
type closingSessions struct {
	repository.SessionRepository
	armed atomic.Bool
}

func (r *closingSessions) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	session, err := r.SessionRepository.GetByID(ctx, id)
	if err == nil && r.armed.CompareAndSwap(true, false) {
		if terr := r.SessionRepository.TransitionStatus(ctx, id, domain.SessionStatusUpcoming, domain.SessionStatusCompleted); terr != nil {
			return nil, terr
		}
	}
	return session, err
}

// pausedRecalculation holds the first rating recompute until release is closed.
type pausedRecalculation struct {
	repository.TutorRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (r *pausedRecalculation) RecalculateRating(ctx context.Context, id string) (float64, int, error) {
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.entered)
		<-r.release
	}
	return r.TutorRepository.RecalculateRating(ctx, id)
}
