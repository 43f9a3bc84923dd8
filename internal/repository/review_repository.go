package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// ReviewRepository stores tutor reviews. (user_id, tutor_id) is unique.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByUserAndTutor(ctx context.Context, userID, tutorID string) (*domain.Review, error)
	ListByTutor(ctx context.Context, tutorID string) ([]domain.Review, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository builds repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO reviews (user_id, user_name, tutor_id, rating, comment)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		review.UserID,
		review.UserName,
		review.TutorID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	return mapPgError(err)
}

func (r *reviewRepository) GetByUserAndTutor(ctx context.Context, userID, tutorID string) (*domain.Review, error) {
	const query = `
        SELECT id, user_id, user_name, tutor_id, rating, comment, created_at
        FROM reviews WHERE user_id=$1 AND tutor_id=$2`
	var review domain.Review
	if err := r.pool.QueryRow(ctx, query, userID, tutorID).Scan(
		&review.ID,
		&review.UserID,
		&review.UserName,
		&review.TutorID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &review, nil
}

func (r *reviewRepository) ListByTutor(ctx context.Context, tutorID string) ([]domain.Review, error) {
	const query = `
        SELECT id, user_id, user_name, tutor_id, rating, comment, created_at
        FROM reviews WHERE tutor_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, tutorID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.UserName,
			&review.TutorID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}
