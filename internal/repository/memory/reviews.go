package memory

import (
	"context"
	"sort"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
)

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reviews {
		if existing.UserID == review.UserID && existing.TutorID == review.TutorID {
			return repository.ErrConflict
		}
	}
	review.ID = newID()
	review.CreatedAt = r.s.tick()
	r.s.reviews[review.ID] = *review
	return nil
}

func (r reviewRepo) GetByUserAndTutor(_ context.Context, userID, tutorID string) (*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, review := range r.s.reviews {
		if review.UserID == userID && review.TutorID == tutorID {
			found := review
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r reviewRepo) ListByTutor(_ context.Context, tutorID string) ([]domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Review{}
	for _, review := range r.s.reviews {
		if review.TutorID == tutorID {
			result = append(result, review)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
