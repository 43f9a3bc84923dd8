package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// TutorFilter captures tutor search parameters.
type TutorFilter struct {
	Subject    *string
	SearchTerm *string
}

// TutorRepository encapsulates tutor profile persistence.
type TutorRepository interface {
	Create(ctx context.Context, tutor *domain.Tutor) error
	UpdateProfile(ctx context.Context, tutor *domain.Tutor) error
	// RecalculateRating derives rating and total_reviews from the stored
	// reviews and writes both in one atomic step, returning the new values.
	RecalculateRating(ctx context.Context, id string) (float64, int, error)
	GetByID(ctx context.Context, id string) (*domain.Tutor, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Tutor, error)
	List(ctx context.Context, filter TutorFilter) ([]domain.Tutor, error)
}

type tutorRepository struct {
	pool *pgxpool.Pool
}

// NewTutorRepository instantiates repository.
func NewTutorRepository(pool *pgxpool.Pool) TutorRepository {
	return &tutorRepository{pool: pool}
}

const tutorColumns = `id, user_id, name, description, subjects, hourly_rate, rating, total_reviews, created_at, updated_at`

func (r *tutorRepository) Create(ctx context.Context, tutor *domain.Tutor) error {
	const query = `
        INSERT INTO tutors (user_id, name, description, subjects, hourly_rate)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, rating, total_reviews, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		tutor.UserID,
		tutor.Name,
		tutor.Description,
		subjectsOrEmpty(tutor.Subjects),
		tutor.HourlyRate,
	).Scan(&tutor.ID, &tutor.Rating, &tutor.TotalReviews, &tutor.CreatedAt, &tutor.UpdatedAt)
	return mapPgError(err)
}

func (r *tutorRepository) UpdateProfile(ctx context.Context, tutor *domain.Tutor) error {
	const query = `
        UPDATE tutors SET name=$1, description=$2, subjects=$3, hourly_rate=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		tutor.Name,
		tutor.Description,
		subjectsOrEmpty(tutor.Subjects),
		tutor.HourlyRate,
		tutor.ID,
	)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tutorRepository) RecalculateRating(ctx context.Context, id string) (float64, int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Taking the row lock first gives the UPDATE a snapshot that includes
	// every review committed before any concurrent recompute finished.
	var locked string
	if err := tx.QueryRow(ctx, `SELECT id FROM tutors WHERE id=$1 FOR UPDATE`, id).Scan(&locked); err != nil {
		return 0, 0, mapPgError(err)
	}

	// ROUND on numeric rounds halves away from zero, matching domain.MeanRating.
	const query = `
        UPDATE tutors SET
            rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE tutor_id=$1), 0)::float8,
            total_reviews = (SELECT COUNT(*) FROM reviews WHERE tutor_id=$1),
            updated_at = NOW()
        WHERE id=$1
        RETURNING rating, total_reviews`
	var (
		rating float64
		total  int
	)
	if err := tx.QueryRow(ctx, query, id).Scan(&rating, &total); err != nil {
		return 0, 0, mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, 0, mapPgError(err)
	}
	return rating, total, nil
}

func (r *tutorRepository) GetByID(ctx context.Context, id string) (*domain.Tutor, error) {
	query := `SELECT ` + tutorColumns + ` FROM tutors WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *tutorRepository) GetByUserID(ctx context.Context, userID string) (*domain.Tutor, error) {
	query := `SELECT ` + tutorColumns + ` FROM tutors WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *tutorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Tutor, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	tutors, err := scanTutors(rows)
	if err != nil {
		return nil, mapPgError(err)
	}
	if len(tutors) == 0 {
		return nil, ErrNotFound
	}
	return &tutors[0], nil
}

func (r *tutorRepository) List(ctx context.Context, filter TutorFilter) ([]domain.Tutor, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Subject != nil && strings.TrimSpace(*filter.Subject) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Subject))+"%")
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(subjects) s WHERE LOWER(s) LIKE $%d)", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.SearchTerm))+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(name) LIKE %s OR LOWER(description) LIKE %s OR EXISTS (SELECT 1 FROM unnest(subjects) s WHERE LOWER(s) LIKE %s))",
			placeholder, placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM tutors WHERE %s ORDER BY rating DESC, name ASC`,
		tutorColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanTutors(rows)
}

func scanTutors(rows pgx.Rows) ([]domain.Tutor, error) {
	var result []domain.Tutor
	for rows.Next() {
		var tutor domain.Tutor
		if err := rows.Scan(
			&tutor.ID,
			&tutor.UserID,
			&tutor.Name,
			&tutor.Description,
			&tutor.Subjects,
			&tutor.HourlyRate,
			&tutor.Rating,
			&tutor.TotalReviews,
			&tutor.CreatedAt,
			&tutor.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tutor)
	}
	return result, rows.Err()
}

func subjectsOrEmpty(subjects []string) []string {
	if subjects == nil {
		return []string{}
	}
	return subjects
}
