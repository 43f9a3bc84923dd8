package service

import (
	"context"
	"errors"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

// FavoriteService maintains per-user tutor bookmarks.
type FavoriteService struct {
	tutors    repository.TutorRepository
	favorites repository.FavoriteRepository
}

// FavoriteDependencies bundles repositories for the favorite service.
type FavoriteDependencies struct {
	TutorRepo    repository.TutorRepository
	FavoriteRepo repository.FavoriteRepository
}

// NewFavoriteService constructs the service.
func NewFavoriteService(deps FavoriteDependencies) *FavoriteService {
	return &FavoriteService{
		tutors:    deps.TutorRepo,
		favorites: deps.FavoriteRepo,
	}
}

// AddFavorite bookmarks the tutor. A nil favorite with a nil error means the
// pair was already present.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, tutorID string) (*domain.Favorite, error) {
	if _, err := s.tutors.GetByID(ctx, tutorID); err != nil {
		return nil, storageError(err, "tutor", map[string]any{"tutor_id": tutorID})
	}

	exists, err := s.favorites.Exists(ctx, userID, tutorID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	if exists {
		return nil, nil
	}

	favorite := &domain.Favorite{UserID: userID, TutorID: tutorID}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, nil
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return favorite, nil
}

// RemoveFavorite deletes the bookmark. Removing an absent pair succeeds.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, tutorID string) (bool, error) {
	if err := s.favorites.Delete(ctx, userID, tutorID); err != nil {
		return false, apperrors.NewStorageUnavailable(err)
	}
	return true, nil
}

// IsFavorite reports whether the user bookmarked the tutor.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, tutorID string) (bool, error) {
	exists, err := s.favorites.Exists(ctx, userID, tutorID)
	if err != nil {
		return false, apperrors.NewStorageUnavailable(err)
	}
	return exists, nil
}

// ListFavoriteTutors returns the user's bookmarked tutor profiles, newest first.
// Bookmarks pointing at vanished profiles are skipped.
func (s *FavoriteService) ListFavoriteTutors(ctx context.Context, userID string) ([]domain.FavoriteTutor, error) {
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	result := make([]domain.FavoriteTutor, 0, len(favorites))
	for _, favorite := range favorites {
		tutor, err := s.tutors.GetByID(ctx, favorite.TutorID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, apperrors.NewStorageUnavailable(err)
		}
		result = append(result, domain.FavoriteTutor{Tutor: *tutor, FavoritedAt: favorite.CreatedAt})
	}
	return result, nil
}

// CountTutorFavorites returns how many users bookmarked the tutor.
func (s *FavoriteService) CountTutorFavorites(ctx context.Context, tutorID string) (int, error) {
	count, err := s.favorites.CountByTutor(ctx, tutorID)
	if err != nil {
		return 0, apperrors.NewStorageUnavailable(err)
	}
	return count, nil
}
