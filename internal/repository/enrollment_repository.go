package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// EnrollmentRepository encapsulates enrollment persistence.
type EnrollmentRepository interface {
	// CreateWithinCapacity inserts the enrollment and recomputes the session
	// occupancy as one atomic unit. Checks run in this order: ErrNotFound for
	// an unknown session, ErrClosed when the session is not upcoming,
	// ErrConflict for a repeated (student, session) pair, then ErrCapacity
	// when the session has no seats left.
	CreateWithinCapacity(ctx context.Context, enrollment *domain.Enrollment) (int, error)
	GetByStudentAndSession(ctx context.Context, studentID, sessionID string) (*domain.Enrollment, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Enrollment, error)
	ListByTutor(ctx context.Context, tutorID string) ([]domain.Enrollment, error)
}

type enrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository builds repository.
func NewEnrollmentRepository(pool *pgxpool.Pool) EnrollmentRepository {
	return &enrollmentRepository{pool: pool}
}

const enrollmentColumns = `id, student_id, session_id, tutor_id, status, enrolled_at`

func (r *enrollmentRepository) CreateWithinCapacity(ctx context.Context, enrollment *domain.Enrollment) (int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The row lock serializes concurrent enrollments and status transitions
	// on the same session.
	var (
		maxStudents int
		status      domain.SessionStatus
	)
	if err := tx.QueryRow(ctx,
		`SELECT max_students, status FROM sessions WHERE id=$1 FOR UPDATE`,
		enrollment.SessionID,
	).Scan(&maxStudents, &status); err != nil {
		return 0, mapPgError(err)
	}
	if status != domain.SessionStatusUpcoming {
		return 0, ErrClosed
	}

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id=$1 AND session_id=$2)`,
		enrollment.StudentID, enrollment.SessionID,
	).Scan(&exists); err != nil {
		return 0, mapPgError(err)
	}
	if exists {
		return 0, ErrConflict
	}

	var active int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE session_id=$1 AND status=$2`,
		enrollment.SessionID, domain.EnrollmentStatusActive,
	).Scan(&active); err != nil {
		return 0, mapPgError(err)
	}
	if active >= maxStudents {
		return 0, ErrCapacity
	}

	const insert = `
        INSERT INTO enrollments (student_id, session_id, tutor_id, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, enrolled_at`
	if err := tx.QueryRow(ctx, insert,
		enrollment.StudentID,
		enrollment.SessionID,
		enrollment.TutorID,
		enrollment.Status,
	).Scan(&enrollment.ID, &enrollment.EnrolledAt); err != nil {
		return 0, mapPgError(err)
	}

	var occupancy int
	if err := tx.QueryRow(ctx, recountOccupancyQuery,
		enrollment.SessionID, domain.EnrollmentStatusActive,
	).Scan(&occupancy); err != nil {
		return 0, mapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, mapPgError(err)
	}
	return occupancy, nil
}

func (r *enrollmentRepository) GetByStudentAndSession(ctx context.Context, studentID, sessionID string) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE student_id=$1 AND session_id=$2`
	items, err := r.list(ctx, query, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

func (r *enrollmentRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE session_id=$1 ORDER BY enrolled_at ASC`
	return r.list(ctx, query, sessionID)
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE student_id=$1 ORDER BY enrolled_at DESC`
	return r.list(ctx, query, studentID)
}

func (r *enrollmentRepository) ListByTutor(ctx context.Context, tutorID string) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE tutor_id=$1 ORDER BY enrolled_at ASC`
	return r.list(ctx, query, tutorID)
}

func (r *enrollmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Enrollment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.ID, &e.StudentID, &e.SessionID, &e.TutorID, &e.Status, &e.EnrolledAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
