package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/events"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

const maxMessageLength = 4000

// MessageService handles direct messages between users.
type MessageService struct {
	users      repository.UserRepository
	messages   repository.MessageRepository
	dispatcher events.Dispatcher
}

// MessageDependencies bundles repositories for the message service.
type MessageDependencies struct {
	UserRepo    repository.UserRepository
	MessageRepo repository.MessageRepository
	Dispatcher  events.Dispatcher
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	return &MessageService{
		users:      deps.UserRepo,
		messages:   deps.MessageRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Send delivers a message and notifies the receiver.
func (s *MessageService) Send(ctx context.Context, sender *domain.User, receiverID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("message body is required", nil)
	}
	if len(body) > maxMessageLength {
		return nil, apperrors.NewValidationError("message body is too long", map[string]any{"max_length": maxMessageLength})
	}
	if receiverID == sender.ID {
		return nil, apperrors.NewValidationError("cannot message yourself", nil)
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return nil, storageError(err, "user", map[string]any{"user_id": receiverID})
	}

	message := &domain.Message{
		SenderID:   sender.ID,
		ReceiverID: receiverID,
		Body:       body,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventMessageSent,
		SubjectID: message.ID,
		Actor:     userActor(sender),
		Payload: events.MessageSentPayload{
			MessageID:  message.ID,
			SenderID:   sender.ID,
			SenderName: sender.Name,
			ReceiverID: receiverID,
		},
	})
	return message, nil
}

// Conversation returns messages exchanged between two users, oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, peerID string) ([]domain.Message, error) {
	messages, err := s.messages.ListConversation(ctx, userID, peerID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return messages, nil
}

// Conversations returns one entry per peer with the latest message, most recent first.
func (s *MessageService) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	messages, err := s.messages.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}

	index := make(map[string]int)
	result := []domain.Conversation{}
	for _, message := range messages {
		peerID := message.SenderID
		if peerID == userID {
			peerID = message.ReceiverID
		}
		pos, ok := index[peerID]
		if !ok {
			peer, err := s.users.GetByID(ctx, peerID)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					return nil, apperrors.NewStorageUnavailable(err)
				}
				peer = &domain.User{ID: peerID}
			}
			index[peerID] = len(result)
			result = append(result, domain.Conversation{Peer: peer, LastMessage: message})
			pos = len(result) - 1
		}
		if message.ReceiverID == userID && !message.Read {
			result[pos].Unread++
		}
	}
	return result, nil
}

// MarkRead marks every message from peer to user as read.
func (s *MessageService) MarkRead(ctx context.Context, userID, peerID string) error {
	if err := s.messages.MarkRead(ctx, userID, peerID); err != nil {
		return apperrors.NewStorageUnavailable(err)
	}
	return nil
}
