package dto

import (
	"time"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// SendMessageRequest payload for POST /messages.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Body       string `json:"body" validate:"required,max=4000"`
}

// MessageResponse is a direct message.
type MessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Body       string    `json:"body"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationResponse summarizes a thread with one peer.
type ConversationResponse struct {
	Peer        UserResponse    `json:"peer"`
	LastMessage MessageResponse `json:"last_message"`
	Unread      int             `json:"unread"`
}

// NotificationResponse is an in-app notification.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	RelatedID string                  `json:"related_id,omitempty"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}
