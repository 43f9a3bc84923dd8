package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// SessionFilter captures session listing parameters.
type SessionFilter struct {
	TutorID  *string
	Statuses []domain.SessionStatus
}

// SessionRepository encapsulates session persistence. The occupancy counter is
// never written directly; it is recomputed from active enrollments.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	List(ctx context.Context, filter SessionFilter) ([]domain.Session, error)
	// TransitionStatus moves a session from one status to another and
	// returns ErrConflict when the session is no longer in the expected status.
	TransitionStatus(ctx context.Context, id string, from, to domain.SessionStatus) error
	RecountOccupancy(ctx context.Context, id string) (int, error)
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository constructs repository.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

const sessionColumns = `id, tutor_id, title, subject, description, scheduled_at, duration_minutes,
               max_students, current_students, status, created_at, updated_at`

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	const query = `
        INSERT INTO sessions (tutor_id, title, subject, description, scheduled_at, duration_minutes, max_students, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, current_students, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		session.TutorID,
		session.Title,
		session.Subject,
		session.Description,
		session.ScheduledAt,
		session.DurationMinutes,
		session.MaxStudents,
		session.Status,
	).Scan(&session.ID, &session.CurrentStudents, &session.CreatedAt, &session.UpdatedAt)
	return mapPgError(err)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, mapPgError(err)
	}
	if len(sessions) == 0 {
		return nil, ErrNotFound
	}
	return &sessions[0], nil
}

func (r *sessionRepository) List(ctx context.Context, filter SessionFilter) ([]domain.Session, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TutorID != nil {
		args = append(args, *filter.TutorID)
		clauses = append(clauses, fmt.Sprintf("tutor_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE %s ORDER BY scheduled_at ASC`,
		sessionColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *sessionRepository) TransitionStatus(ctx context.Context, id string, from, to domain.SessionStatus) error {
	const query = `
        UPDATE sessions SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id=$1)`, id).Scan(&exists); err != nil {
			return mapPgError(err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

func (r *sessionRepository) RecountOccupancy(ctx context.Context, id string) (int, error) {
	var occupancy int
	err := r.pool.QueryRow(ctx, recountOccupancyQuery, id, domain.EnrollmentStatusActive).Scan(&occupancy)
	return occupancy, mapPgError(err)
}

const recountOccupancyQuery = `
        UPDATE sessions SET current_students = (
            SELECT COUNT(*) FROM enrollments WHERE session_id=$1 AND status=$2
        ), updated_at=NOW()
        WHERE id=$1
        RETURNING current_students`

func scanSessions(rows pgx.Rows) ([]domain.Session, error) {
	var result []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(
			&session.ID,
			&session.TutorID,
			&session.Title,
			&session.Subject,
			&session.Description,
			&session.ScheduledAt,
			&session.DurationMinutes,
			&session.MaxStudents,
			&session.CurrentStudents,
			&session.Status,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, session)
	}
	return result, rows.Err()
}
