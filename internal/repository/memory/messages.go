package memory

import (
	"context"
	"sort"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

type messageRepo struct{ s *Store }

func (r messageRepo) Create(_ context.Context, m *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = newID()
	m.Read = false
	m.CreatedAt = r.s.tick()
	r.s.messages[m.ID] = *m
	return nil
}

func (r messageRepo) ListConversation(_ context.Context, userA, userB string) ([]domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Message{}
	for _, m := range r.s.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r messageRepo) ListByParticipant(_ context.Context, userID string) ([]domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Message{}
	for _, m := range r.s.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r messageRepo) MarkRead(_ context.Context, receiverID, senderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, m := range r.s.messages {
		if m.ReceiverID == receiverID && m.SenderID == senderID && !m.Read {
			m.Read = true
			r.s.messages[id] = m
		}
	}
	return nil
}
