package domain

import "time"

// Message is a direct message between two users.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Body       string
	Read       bool
	CreatedAt  time.Time
}

// Conversation is the latest message exchanged with a peer.
type Conversation struct {
	Peer        *User
	LastMessage Message
	Unread      int
}
