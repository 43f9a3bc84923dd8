package domain

import "time"

// NotificationType classifies user notifications.
type NotificationType string

const (
	NotificationEnrollment       NotificationType = "enrollment"
	NotificationReview           NotificationType = "review"
	NotificationMessage          NotificationType = "message"
	NotificationSessionCancelled NotificationType = "session_cancelled"
)

// Notification is an in-app notice addressed to one user.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	RelatedID string
	Read      bool
	CreatedAt time.Time
}
