package domain

import "time"

// Tutor is the public profile of a tutor.
// Rating and TotalReviews are derived from reviews and only written by the review service.
type Tutor struct {
	ID           string
	UserID       *string
	Name         string
	Description  string
	Subjects     []string
	HourlyRate   float64
	Rating       float64
	TotalReviews int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TutorStatistics summarizes a tutor's activity.
type TutorStatistics struct {
	TotalSessions    int
	UpcomingSessions int
	TotalStudents    int
	TotalEnrollments int
	Rating           float64
	TotalReviews     int
	Favorites        int

	TotalResources         int
	TotalResourceViews     int
	TotalResourceDownloads int
}
