package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
)

type resourceRepo struct{ s *Store }

func (r resourceRepo) Create(_ context.Context, resource *domain.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	resource.ID = newID()
	resource.Views = 0
	resource.Downloads = 0
	resource.UploadedAt = r.s.tick()
	r.s.resources[resource.ID] = *resource
	return nil
}

func (r resourceRepo) GetByID(_ context.Context, id string) (*domain.Resource, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	resource, ok := r.s.resources[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &resource, nil
}

func (r resourceRepo) List(_ context.Context, filter repository.ResourceFilter) ([]domain.Resource, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	subject := ""
	if filter.Subject != nil {
		subject = strings.ToLower(strings.TrimSpace(*filter.Subject))
	}
	term := ""
	if filter.SearchTerm != nil {
		term = strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
	}

	result := []domain.Resource{}
	for _, resource := range r.s.resources {
		if filter.AuthorID != nil && resource.AuthorID != *filter.AuthorID {
			continue
		}
		if subject != "" && strings.ToLower(resource.Subject) != subject {
			continue
		}
		if term != "" && !anyContains([]string{
			resource.Title, resource.Description, resource.Subject, resource.AuthorName,
		}, term) {
			continue
		}
		result = append(result, resource)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})
	return result, nil
}

func (r resourceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resources[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.resources, id)
	return nil
}

func (r resourceRepo) IncrementViews(_ context.Context, id string) (*domain.Resource, error) {
	return r.bump(id, func(resource *domain.Resource) { resource.Views++ })
}

func (r resourceRepo) IncrementDownloads(_ context.Context, id string) (*domain.Resource, error) {
	return r.bump(id, func(resource *domain.Resource) { resource.Downloads++ })
}

func (r resourceRepo) bump(id string, apply func(*domain.Resource)) (*domain.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	resource, ok := r.s.resources[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	apply(&resource)
	r.s.resources[id] = resource
	return &resource, nil
}
