package service

import (
	"context"
	"strings"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

// allSubjects is the subject filter value that disables subject filtering.
const allSubjects = "all"

// ResourceService manages the shared learning-resource catalog.
type ResourceService struct {
	users     repository.UserRepository
	tutors    repository.TutorRepository
	resources repository.ResourceRepository
}

// ResourceDependencies bundles repositories for the resource service.
type ResourceDependencies struct {
	UserRepo     repository.UserRepository
	TutorRepo    repository.TutorRepository
	ResourceRepo repository.ResourceRepository
}

// ResourceInput carries the metadata of an uploaded resource.
type ResourceInput struct {
	Title       string
	Description string
	Subject     string
	FileType    string
	FileName    string
}

// NewResourceService constructs the service.
func NewResourceService(deps ResourceDependencies) *ResourceService {
	return &ResourceService{
		users:     deps.UserRepo,
		tutors:    deps.TutorRepo,
		resources: deps.ResourceRepo,
	}
}

// Upload records a resource authored by the user. Tutors publish under their
// profile name, students under their account name.
func (s *ResourceService) Upload(ctx context.Context, authorID string, input ResourceInput) (*domain.Resource, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, storageError(err, "user", map[string]any{"user_id": authorID})
	}
	authorName := author.Name
	if author.Role == domain.RoleTutor {
		tutor, err := s.tutors.GetByUserID(ctx, authorID)
		if err != nil {
			return nil, storageError(err, "tutor", map[string]any{"user_id": authorID})
		}
		authorName = tutor.Name
	}

	resource := &domain.Resource{
		AuthorID:    authorID,
		AuthorName:  authorName,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Subject:     strings.TrimSpace(input.Subject),
		FileType:    strings.TrimSpace(input.FileType),
		FileName:    strings.TrimSpace(input.FileName),
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return resource, nil
}

// List returns the catalog newest first. An empty subject or "all" matches
// every subject.
func (s *ResourceService) List(ctx context.Context, subject, query string) ([]domain.Resource, error) {
	filter := repository.ResourceFilter{}
	if v := strings.TrimSpace(subject); v != "" && !strings.EqualFold(v, allSubjects) {
		filter.Subject = &v
	}
	if v := strings.TrimSpace(query); v != "" {
		filter.SearchTerm = &v
	}
	resources, err := s.resources.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return resources, nil
}

// ListByAuthor returns the user's own uploads, newest first.
func (s *ResourceService) ListByAuthor(ctx context.Context, authorID string) ([]domain.Resource, error) {
	resources, err := s.resources.List(ctx, repository.ResourceFilter{AuthorID: &authorID})
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return resources, nil
}

// Get returns one resource without touching its counters.
func (s *ResourceService) Get(ctx context.Context, resourceID string) (*domain.Resource, error) {
	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, storageError(err, "resource", map[string]any{"resource_id": resourceID})
	}
	return resource, nil
}

// Delete removes a resource. Only its author may delete it.
func (s *ResourceService) Delete(ctx context.Context, userID, resourceID string) error {
	resource, err := s.Get(ctx, resourceID)
	if err != nil {
		return err
	}
	if resource.AuthorID != userID {
		return apperrors.NewForbidden("only the author can delete this resource")
	}
	if err := s.resources.Delete(ctx, resourceID); err != nil {
		return storageError(err, "resource", map[string]any{"resource_id": resourceID})
	}
	return nil
}

// View counts one view and returns the updated resource.
func (s *ResourceService) View(ctx context.Context, resourceID string) (*domain.Resource, error) {
	resource, err := s.resources.IncrementViews(ctx, resourceID)
	if err != nil {
		return nil, storageError(err, "resource", map[string]any{"resource_id": resourceID})
	}
	return resource, nil
}

// Download counts one download and returns the updated resource.
func (s *ResourceService) Download(ctx context.Context, resourceID string) (*domain.Resource, error) {
	resource, err := s.resources.IncrementDownloads(ctx, resourceID)
	if err != nil {
		return nil, storageError(err, "resource", map[string]any{"resource_id": resourceID})
	}
	return resource, nil
}
