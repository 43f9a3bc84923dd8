package memory

import (
	"context"
	"sort"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
)

type enrollmentRepo struct{ s *Store }

func (r enrollmentRepo) CreateWithinCapacity(_ context.Context, enrollment *domain.Enrollment) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	session, ok := r.s.sessions[enrollment.SessionID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if session.Status != domain.SessionStatusUpcoming {
		return 0, repository.ErrClosed
	}
	for _, e := range r.s.enrollments {
		if e.StudentID == enrollment.StudentID && e.SessionID == enrollment.SessionID {
			return 0, repository.ErrConflict
		}
	}
	if r.s.activeEnrollmentsLocked(session.ID) >= session.MaxStudents {
		return 0, repository.ErrCapacity
	}

	enrollment.ID = newID()
	enrollment.EnrolledAt = r.s.tick()
	r.s.enrollments[enrollment.ID] = *enrollment
	return r.s.recountLocked(session.ID)
}

func (r enrollmentRepo) GetByStudentAndSession(_ context.Context, studentID, sessionID string) (*domain.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.enrollments {
		if e.StudentID == studentID && e.SessionID == sessionID {
			found := e
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r enrollmentRepo) ListBySession(_ context.Context, sessionID string) ([]domain.Enrollment, error) {
	return r.filter(func(e domain.Enrollment) bool { return e.SessionID == sessionID }, false), nil
}

func (r enrollmentRepo) ListByStudent(_ context.Context, studentID string) ([]domain.Enrollment, error) {
	return r.filter(func(e domain.Enrollment) bool { return e.StudentID == studentID }, true), nil
}

func (r enrollmentRepo) ListByTutor(_ context.Context, tutorID string) ([]domain.Enrollment, error) {
	return r.filter(func(e domain.Enrollment) bool { return e.TutorID == tutorID }, false), nil
}

func (r enrollmentRepo) filter(match func(domain.Enrollment) bool, newestFirst bool) []domain.Enrollment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Enrollment{}
	for _, e := range r.s.enrollments {
		if match(e) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if newestFirst {
			return result[i].EnrolledAt.After(result[j].EnrolledAt)
		}
		return result[i].EnrolledAt.Before(result[j].EnrolledAt)
	})
	return result
}
