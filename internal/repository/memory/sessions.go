package memory

import (
	"context"
	"sort"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
)

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(_ context.Context, session *domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tutors[session.TutorID]; !ok {
		return repository.ErrNotFound
	}
	now := r.s.tick()
	session.ID = newID()
	session.CurrentStudents = 0
	session.CreatedAt = now
	session.UpdatedAt = now
	r.s.sessions[session.ID] = *session
	return nil
}

func (r sessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (r sessionRepo) List(_ context.Context, filter repository.SessionFilter) ([]domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	statuses := make(map[domain.SessionStatus]struct{}, len(filter.Statuses))
	for _, status := range filter.Statuses {
		statuses[status] = struct{}{}
	}

	result := []domain.Session{}
	for _, session := range r.s.sessions {
		if filter.TutorID != nil && session.TutorID != *filter.TutorID {
			continue
		}
		if len(statuses) > 0 {
			if _, ok := statuses[session.Status]; !ok {
				continue
			}
		}
		result = append(result, session)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledAt.Before(result[j].ScheduledAt)
	})
	return result, nil
}

func (r sessionRepo) TransitionStatus(_ context.Context, id string, from, to domain.SessionStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if session.Status != from {
		return repository.ErrConflict
	}
	session.Status = to
	session.UpdatedAt = r.s.tick()
	r.s.sessions[id] = session
	return nil
}

func (r sessionRepo) RecountOccupancy(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.recountLocked(id)
}

// recountLocked sets current_students to the number of active enrollments.
// Callers must hold the write lock.
func (s *Store) recountLocked(sessionID string) (int, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	session.CurrentStudents = s.activeEnrollmentsLocked(sessionID)
	session.UpdatedAt = s.tick()
	s.sessions[sessionID] = session
	return session.CurrentStudents, nil
}

func (s *Store) activeEnrollmentsLocked(sessionID string) int {
	count := 0
	for _, e := range s.enrollments {
		if e.SessionID == sessionID && e.Status == domain.EnrollmentStatusActive {
			count++
		}
	}
	return count
}
