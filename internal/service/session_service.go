package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/events"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

const defaultSessionMinutes = 60

// SessionService manages the session lifecycle. It never writes the
// occupancy counter directly.
type SessionService struct {
	tutors      repository.TutorRepository
	sessions    repository.SessionRepository
	enrollments repository.EnrollmentRepository
	dispatcher  events.Dispatcher
}

// SessionDependencies bundles repositories for the session service.
type SessionDependencies struct {
	TutorRepo      repository.TutorRepository
	SessionRepo    repository.SessionRepository
	EnrollmentRepo repository.EnrollmentRepository
	Dispatcher     events.Dispatcher
}

// SessionCreateInput describes a new session.
type SessionCreateInput struct {
	Title           string
	Subject         string
	Description     string
	ScheduledAt     time.Time
	DurationMinutes int
	MaxStudents     int
}

// NewSessionService constructs the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	return &SessionService{
		tutors:      deps.TutorRepo,
		sessions:    deps.SessionRepo,
		enrollments: deps.EnrollmentRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateSession schedules a session owned by the tutor profile of userID.
func (s *SessionService) CreateSession(ctx context.Context, userID string, input SessionCreateInput) (*domain.Session, error) {
	tutor, err := s.tutorForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if input.MaxStudents <= 0 {
		return nil, apperrors.NewValidationError("max students must be greater than zero", map[string]any{"max_students": input.MaxStudents})
	}
	if input.DurationMinutes < 0 {
		return nil, apperrors.NewValidationError("duration must not be negative", map[string]any{"duration_minutes": input.DurationMinutes})
	}
	if input.ScheduledAt.IsZero() {
		return nil, apperrors.NewValidationError("scheduled time is required", nil)
	}

	session := &domain.Session{
		TutorID:         tutor.ID,
		Title:           title,
		Subject:         strings.TrimSpace(input.Subject),
		Description:     strings.TrimSpace(input.Description),
		ScheduledAt:     input.ScheduledAt.UTC(),
		DurationMinutes: input.DurationMinutes,
		MaxStudents:     input.MaxStudents,
		Status:          domain.SessionStatusUpcoming,
	}
	if session.DurationMinutes == 0 {
		session.DurationMinutes = defaultSessionMinutes
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, storageError(err, "tutor", nil)
	}
	return session, nil
}

// ListUpcoming returns every session still open, soonest first.
func (s *SessionService) ListUpcoming(ctx context.Context) ([]domain.Session, error) {
	sessions, err := s.sessions.List(ctx, repository.SessionFilter{
		Statuses: []domain.SessionStatus{domain.SessionStatusUpcoming},
	})
	if err != nil {
		return nil, storageError(err, "session", nil)
	}
	return sessions, nil
}

// ListByTutor returns all sessions of a tutor profile.
func (s *SessionService) ListByTutor(ctx context.Context, tutorID string) ([]domain.Session, error) {
	if _, err := s.tutors.GetByID(ctx, tutorID); err != nil {
		return nil, storageError(err, "tutor", map[string]any{"tutor_id": tutorID})
	}
	sessions, err := s.sessions.List(ctx, repository.SessionFilter{TutorID: &tutorID})
	if err != nil {
		return nil, storageError(err, "session", nil)
	}
	return sessions, nil
}

// ListMine returns the sessions of the caller's tutor profile.
func (s *SessionService) ListMine(ctx context.Context, userID string) ([]domain.Session, error) {
	tutor, err := s.tutorForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ListByTutor(ctx, tutor.ID)
}

// GetSession loads a session.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, storageError(err, "session", map[string]any{"session_id": sessionID})
	}
	return session, nil
}

// IsSessionAvailable reports whether the session accepts enrollments.
func (s *SessionService) IsSessionAvailable(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return session.Status == domain.SessionStatusUpcoming && session.HasSeat(), nil
}

// CompleteSession marks the session completed, which makes its students
// eligible to review the tutor.
func (s *SessionService) CompleteSession(ctx context.Context, userID, sessionID string) (*domain.Session, error) {
	return s.transition(ctx, userID, sessionID, domain.SessionStatusCompleted)
}

// CancelSession cancels the session and notifies its enrolled students.
func (s *SessionService) CancelSession(ctx context.Context, userID, sessionID string) (*domain.Session, error) {
	return s.transition(ctx, userID, sessionID, domain.SessionStatusCancelled)
}

// ReconcileOccupancy recomputes the occupancy counter from active enrollments.
func (s *SessionService) ReconcileOccupancy(ctx context.Context, sessionID string) (int, error) {
	occupancy, err := s.sessions.RecountOccupancy(ctx, sessionID)
	if err != nil {
		return 0, storageError(err, "session", map[string]any{"session_id": sessionID})
	}
	return occupancy, nil
}

func (s *SessionService) transition(ctx context.Context, userID, sessionID string, next domain.SessionStatus) (*domain.Session, error) {
	tutor, err := s.tutorForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TutorID != tutor.ID {
		return nil, apperrors.NewForbidden("session belongs to another tutor")
	}
	if !isValidTransition(session.Status, next) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": session.Status,
			"to":   next,
		})
	}

	if err := s.sessions.TransitionStatus(ctx, sessionID, session.Status, next); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict("session status changed concurrently", map[string]any{"session_id": sessionID})
		}
		return nil, storageError(err, "session", map[string]any{"session_id": sessionID})
	}
	session.Status = next

	enrollments, err := s.enrollments.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, storageError(err, "enrollment", nil)
	}
	studentIDs := make([]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		studentIDs = append(studentIDs, enrollment.StudentID)
	}

	eventType := events.EventSessionCompleted
	if next == domain.SessionStatusCancelled {
		eventType = events.EventSessionCancelled
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      eventType,
		SubjectID: sessionID,
		Actor:     events.Actor{UserID: userID, Role: domain.RoleTutor},
		Payload: events.SessionStatusPayload{
			SessionID:  sessionID,
			Title:      session.Title,
			TutorID:    session.TutorID,
			StudentIDs: studentIDs,
		},
	})
	return session, nil
}

func (s *SessionService) tutorForUser(ctx context.Context, userID string) (*domain.Tutor, error) {
	tutor, err := s.tutors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewForbidden("a tutor profile is required")
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return tutor, nil
}

var allowedTransitions = map[domain.SessionStatus][]domain.SessionStatus{
	domain.SessionStatusUpcoming:  {domain.SessionStatusCompleted, domain.SessionStatusCancelled},
	domain.SessionStatusCompleted: {},
	domain.SessionStatusCancelled: {},
}

func isValidTransition(current, next domain.SessionStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
