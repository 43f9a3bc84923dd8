package dto

import (
	"time"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// CreateSessionRequest payload for POST /sessions.
type CreateSessionRequest struct {
	Title           string    `json:"title" validate:"required,max=200"`
	Subject         string    `json:"subject" validate:"max=60"`
	Description     string    `json:"description" validate:"max=2000"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0,lte=600"`
	MaxStudents     int       `json:"max_students" validate:"required,gt=0,lte=500"`
}

// SessionResponse is the public view of a session.
type SessionResponse struct {
	ID              string               `json:"id"`
	TutorID         string               `json:"tutor_id"`
	Title           string               `json:"title"`
	Subject         string               `json:"subject"`
	Description     string               `json:"description"`
	ScheduledAt     time.Time            `json:"scheduled_at"`
	DurationMinutes int                  `json:"duration_minutes"`
	MaxStudents     int                  `json:"max_students"`
	CurrentStudents int                  `json:"current_students"`
	Status          domain.SessionStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

// CapacityResponse reports seat usage.
type CapacityResponse struct {
	SessionID   string  `json:"session_id"`
	Available   int     `json:"available"`
	Total       int     `json:"total"`
	PercentFull float64 `json:"percent_full"`
}

// EnrollmentResponse is a student's seat in a session.
type EnrollmentResponse struct {
	ID         string                  `json:"id"`
	StudentID  string                  `json:"student_id"`
	SessionID  string                  `json:"session_id"`
	TutorID    string                  `json:"tutor_id"`
	Status     domain.EnrollmentStatus `json:"status"`
	EnrolledAt time.Time               `json:"enrolled_at"`
}

// EnrollmentDetailResponse joins an enrollment with its session and tutor.
type EnrollmentDetailResponse struct {
	EnrollmentResponse
	Session *SessionResponse `json:"session,omitempty"`
	Tutor   *TutorResponse   `json:"tutor,omitempty"`
}

// SessionStudentResponse lists an enrolled student.
type SessionStudentResponse struct {
	EnrollmentResponse
	Student *UserResponse `json:"student,omitempty"`
}
