package memory

import (
	"context"
	"sort"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
)

type favoriteRepo struct{ s *Store }

func (r favoriteRepo) Create(_ context.Context, favorite *domain.Favorite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.favorites {
		if existing.UserID == favorite.UserID && existing.TutorID == favorite.TutorID {
			return repository.ErrConflict
		}
	}
	favorite.ID = newID()
	favorite.CreatedAt = r.s.tick()
	r.s.favorites[favorite.ID] = *favorite
	return nil
}

func (r favoriteRepo) Delete(_ context.Context, userID, tutorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.favorites {
		if existing.UserID == userID && existing.TutorID == tutorID {
			delete(r.s.favorites, id)
		}
	}
	return nil
}

func (r favoriteRepo) Exists(_ context.Context, userID, tutorID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, existing := range r.s.favorites {
		if existing.UserID == userID && existing.TutorID == tutorID {
			return true, nil
		}
	}
	return false, nil
}

func (r favoriteRepo) ListByUser(_ context.Context, userID string) ([]domain.Favorite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Favorite{}
	for _, fav := range r.s.favorites {
		if fav.UserID == userID {
			result = append(result, fav)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r favoriteRepo) CountByTutor(_ context.Context, tutorID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, fav := range r.s.favorites {
		if fav.TutorID == tutorID {
			count++
		}
	}
	return count, nil
}
