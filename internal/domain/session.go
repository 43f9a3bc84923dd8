package domain

import "time"

// SessionStatus enumerates lifecycle states for tutoring sessions.
type SessionStatus string

const (
	SessionStatusUpcoming  SessionStatus = "upcoming"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Session is a scheduled tutoring event with bounded capacity.
// CurrentStudents mirrors the number of active enrollments.
type Session struct {
	ID              string
	TutorID         string
	Title           string
	Subject         string
	Description     string
	ScheduledAt     time.Time
	DurationMinutes int
	MaxStudents     int
	CurrentStudents int
	Status          SessionStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasSeat reports whether another student fits.
func (s *Session) HasSeat() bool {
	return s.CurrentStudents < s.MaxStudents
}

// Capacity describes seat usage of a session.
type Capacity struct {
	Available   int
	Total       int
	PercentFull float64
}
