package events

import (
	"time"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEnrollmentCreated EventType = "enrollment_created"
	EventReviewSubmitted   EventType = "review_submitted"
	EventSessionCancelled  EventType = "session_cancelled"
	EventSessionCompleted  EventType = "session_completed"
	EventMessageSent       EventType = "message_sent"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EnrollmentCreatedPayload payload.
type EnrollmentCreatedPayload struct {
	EnrollmentID    string `json:"enrollment_id"`
	StudentID       string `json:"student_id"`
	SessionID       string `json:"session_id"`
	TutorID         string `json:"tutor_id"`
	SessionTitle    string `json:"session_title"`
	CurrentStudents int    `json:"current_students"`
}

// ReviewSubmittedPayload payload.
type ReviewSubmittedPayload struct {
	ReviewID string `json:"review_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	TutorID  string `json:"tutor_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// SessionStatusPayload payload for completed and cancelled sessions.
type SessionStatusPayload struct {
	SessionID  string   `json:"session_id"`
	Title      string   `json:"title"`
	TutorID    string   `json:"tutor_id"`
	StudentIDs []string `json:"student_ids"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	MessageID  string `json:"message_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	ReceiverID string `json:"receiver_id"`
}
