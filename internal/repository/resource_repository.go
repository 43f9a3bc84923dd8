package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// ResourceFilter narrows a resource listing. Subject is a case-insensitive
// exact match; SearchTerm matches title, description, subject or author name.
type ResourceFilter struct {
	AuthorID   *string
	Subject    *string
	SearchTerm *string
}

// ResourceRepository persists learning-resource metadata. Listings are
// newest first.
type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	List(ctx context.Context, filter ResourceFilter) ([]domain.Resource, error)
	Delete(ctx context.Context, id string) error
	// IncrementViews and IncrementDownloads bump the counter in place and
	// return the updated record.
	IncrementViews(ctx context.Context, id string) (*domain.Resource, error)
	IncrementDownloads(ctx context.Context, id string) (*domain.Resource, error)
}

type resourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository constructs repository.
func NewResourceRepository(pool *pgxpool.Pool) ResourceRepository {
	return &resourceRepository{pool: pool}
}

const resourceColumns = `id, author_id, author_name, title, description, subject, file_type, file_name, views, downloads, uploaded_at`

func (r *resourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	const query = `
        INSERT INTO resources (author_id, author_name, title, description, subject, file_type, file_name)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, views, downloads, uploaded_at`
	err := r.pool.QueryRow(ctx, query,
		resource.AuthorID,
		resource.AuthorName,
		resource.Title,
		resource.Description,
		resource.Subject,
		resource.FileType,
		resource.FileName,
	).Scan(&resource.ID, &resource.Views, &resource.Downloads, &resource.UploadedAt)
	return mapPgError(err)
}

func (r *resourceRepository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *resourceRepository) List(ctx context.Context, filter ResourceFilter) ([]domain.Resource, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("author_id=$%d", len(args)))
	}
	if filter.Subject != nil && strings.TrimSpace(*filter.Subject) != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Subject)))
		clauses = append(clauses, fmt.Sprintf("LOWER(subject)=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.SearchTerm))+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(subject) LIKE %s OR LOWER(author_name) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM resources WHERE %s ORDER BY uploaded_at DESC`,
		resourceColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanResources(rows)
}

func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *resourceRepository) IncrementViews(ctx context.Context, id string) (*domain.Resource, error) {
	query := `UPDATE resources SET views=views+1 WHERE id=$1 RETURNING ` + resourceColumns
	return r.fetchSingle(ctx, query, id)
}

func (r *resourceRepository) IncrementDownloads(ctx context.Context, id string) (*domain.Resource, error) {
	query := `UPDATE resources SET downloads=downloads+1 WHERE id=$1 RETURNING ` + resourceColumns
	return r.fetchSingle(ctx, query, id)
}

func (r *resourceRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Resource, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	resources, err := scanResources(rows)
	if err != nil {
		return nil, mapPgError(err)
	}
	if len(resources) == 0 {
		return nil, ErrNotFound
	}
	return &resources[0], nil
}

func scanResources(rows pgx.Rows) ([]domain.Resource, error) {
	var result []domain.Resource
	for rows.Next() {
		var resource domain.Resource
		if err := rows.Scan(
			&resource.ID,
			&resource.AuthorID,
			&resource.AuthorName,
			&resource.Title,
			&resource.Description,
			&resource.Subject,
			&resource.FileType,
			&resource.FileName,
			&resource.Views,
			&resource.Downloads,
			&resource.UploadedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, resource)
	}
	return result, rows.Err()
}
