package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// FavoriteRepository manages favorites. (user_id, tutor_id) is unique.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *domain.Favorite) error
	// Delete removes the pair if present; removing a missing pair is not an error.
	Delete(ctx context.Context, userID, tutorID string) error
	Exists(ctx context.Context, userID, tutorID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
	CountByTutor(ctx context.Context, tutorID string) (int, error)
}

type favoriteRepository struct {
	pool *pgxpool.Pool
}

// NewFavoriteRepository constructs repository.
func NewFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepository{pool: pool}
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) error {
	const query = `
        INSERT INTO favorites (user_id, tutor_id)
        VALUES ($1,$2)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, favorite.UserID, favorite.TutorID).Scan(&favorite.ID, &favorite.CreatedAt)
	return mapPgError(err)
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, tutorID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND tutor_id=$2`, userID, tutorID)
	return mapPgError(err)
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, tutorID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id=$1 AND tutor_id=$2)`,
		userID, tutorID,
	).Scan(&exists)
	return exists, mapPgError(err)
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	const query = `
        SELECT id, user_id, tutor_id, created_at
        FROM favorites WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Favorite
	for rows.Next() {
		var fav domain.Favorite
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.TutorID, &fav.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, fav)
	}
	return result, rows.Err()
}

func (r *favoriteRepository) CountByTutor(ctx context.Context, tutorID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM favorites WHERE tutor_id=$1`, tutorID).Scan(&count)
	return count, mapPgError(err)
}
