package domain

import "time"

// EnrollmentStatus enumerates enrollment states.
type EnrollmentStatus string

const (
	EnrollmentStatusActive EnrollmentStatus = "active"
)

// Enrollment is a student's claim on one seat in a session.
type Enrollment struct {
	ID         string
	StudentID  string
	SessionID  string
	TutorID    string
	Status     EnrollmentStatus
	EnrolledAt time.Time
}

// EnrollmentDetail joins an enrollment with its session and tutor.
type EnrollmentDetail struct {
	Enrollment
	Session *Session
	Tutor   *Tutor
}

// SessionStudent joins an enrollment with the enrolled user.
type SessionStudent struct {
	Enrollment
	Student *User
}
