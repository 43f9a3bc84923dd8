package memory

import (
	"context"
	"sort"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
)

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = newID()
	n.Read = false
	n.CreatedAt = r.s.tick()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r notificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Notification{}
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r notificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r notificationRepo) MarkRead(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return repository.ErrNotFound
	}
	n.Read = true
	r.s.notifications[id] = n
	return nil
}

func (r notificationRepo) MarkAllRead(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.s.notifications[id] = n
		}
	}
	return nil
}
