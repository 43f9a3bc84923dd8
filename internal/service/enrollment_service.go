package service

import (
	"context"
	"errors"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/events"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

// EnrollmentService admits students into sessions and owns the occupancy counter.
type EnrollmentService struct {
	users       repository.UserRepository
	tutors      repository.TutorRepository
	sessions    repository.SessionRepository
	enrollments repository.EnrollmentRepository
	dispatcher  events.Dispatcher
}

// EnrollmentDependencies bundles repositories for the enrollment service.
type EnrollmentDependencies struct {
	UserRepo       repository.UserRepository
	TutorRepo      repository.TutorRepository
	SessionRepo    repository.SessionRepository
	EnrollmentRepo repository.EnrollmentRepository
	Dispatcher     events.Dispatcher
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(deps EnrollmentDependencies) *EnrollmentService {
	return &EnrollmentService{
		users:       deps.UserRepo,
		tutors:      deps.TutorRepo,
		sessions:    deps.SessionRepo,
		enrollments: deps.EnrollmentRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// Enroll claims one seat in the session for the student.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, sessionID string) (*domain.Enrollment, error) {
	details := map[string]any{"session_id": sessionID}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, storageError(err, "session", details)
	}
	if session.Status != domain.SessionStatusUpcoming {
		return nil, apperrors.NewNotEligible("session is not open for enrollment", map[string]any{
			"session_id": sessionID,
			"status":     session.Status,
		})
	}

	if _, err := s.enrollments.GetByStudentAndSession(ctx, studentID, sessionID); err == nil {
		return nil, apperrors.NewAlreadyEnrolled(details)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewStorageUnavailable(err)
	}

	if !session.HasSeat() {
		return nil, apperrors.NewSessionFull(map[string]any{
			"session_id":   sessionID,
			"max_students": session.MaxStudents,
		})
	}

	enrollment := &domain.Enrollment{
		StudentID: studentID,
		SessionID: sessionID,
		TutorID:   session.TutorID,
		Status:    domain.EnrollmentStatusActive,
	}
	occupancy, err := s.enrollments.CreateWithinCapacity(ctx, enrollment)
	switch {
	case errors.Is(err, repository.ErrClosed):
		return nil, apperrors.NewNotEligible("session is not open for enrollment", details)
	case errors.Is(err, repository.ErrConflict):
		return nil, apperrors.NewAlreadyEnrolled(details)
	case errors.Is(err, repository.ErrCapacity):
		return nil, apperrors.NewSessionFull(map[string]any{
			"session_id":   sessionID,
			"max_students": session.MaxStudents,
		})
	case err != nil:
		return nil, storageError(err, "session", details)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventEnrollmentCreated,
		SubjectID: sessionID,
		Actor:     idActor(studentID),
		Payload: events.EnrollmentCreatedPayload{
			EnrollmentID:    enrollment.ID,
			StudentID:       studentID,
			SessionID:       sessionID,
			TutorID:         session.TutorID,
			SessionTitle:    session.Title,
			CurrentStudents: occupancy,
		},
	})
	return enrollment, nil
}

// GetCapacity reports seat usage for a session.
func (s *EnrollmentService) GetCapacity(ctx context.Context, sessionID string) (domain.Capacity, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return domain.Capacity{}, storageError(err, "session", map[string]any{"session_id": sessionID})
	}
	return capacityOf(session), nil
}

func capacityOf(session *domain.Session) domain.Capacity {
	available := session.MaxStudents - session.CurrentStudents
	if available < 0 {
		available = 0
	}
	var percent float64
	if session.MaxStudents > 0 {
		percent = float64(session.CurrentStudents) / float64(session.MaxStudents) * 100
	}
	return domain.Capacity{
		Available:   available,
		Total:       session.MaxStudents,
		PercentFull: percent,
	}
}

// ListMyEnrollments returns the student's enrollments joined with session and tutor.
func (s *EnrollmentService) ListMyEnrollments(ctx context.Context, studentID string) ([]domain.EnrollmentDetail, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storageError(err, "enrollment", nil)
	}

	tutorCache := make(map[string]*domain.Tutor)
	result := make([]domain.EnrollmentDetail, 0, len(enrollments))
	for _, enrollment := range enrollments {
		detail := domain.EnrollmentDetail{Enrollment: enrollment}

		session, err := s.sessions.GetByID(ctx, enrollment.SessionID)
		switch {
		case err == nil:
			detail.Session = session
		case !errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewStorageUnavailable(err)
		}

		tutor, ok := tutorCache[enrollment.TutorID]
		if !ok {
			tutor, err = s.tutors.GetByID(ctx, enrollment.TutorID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewStorageUnavailable(err)
			}
			tutorCache[enrollment.TutorID] = tutor
		}
		detail.Tutor = tutor

		result = append(result, detail)
	}
	return result, nil
}

// ListSessionStudents returns enrolled students for a session owned by the tutor user.
func (s *EnrollmentService) ListSessionStudents(ctx context.Context, tutorUserID, sessionID string) ([]domain.SessionStudent, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, storageError(err, "session", map[string]any{"session_id": sessionID})
	}
	tutor, err := s.tutors.GetByUserID(ctx, tutorUserID)
	if err != nil {
		return nil, storageError(err, "tutor profile", nil)
	}
	if tutor.ID != session.TutorID {
		return nil, apperrors.NewForbidden("session belongs to another tutor")
	}

	enrollments, err := s.enrollments.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, storageError(err, "enrollment", nil)
	}
	result := make([]domain.SessionStudent, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entry := domain.SessionStudent{Enrollment: enrollment}
		student, err := s.users.GetByID(ctx, enrollment.StudentID)
		switch {
		case err == nil:
			entry.Student = student
		case !errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewStorageUnavailable(err)
		}
		result = append(result, entry)
	}
	return result, nil
}
