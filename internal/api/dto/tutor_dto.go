package dto

import "time"

// UpdateTutorProfileRequest payload for PUT /me/tutor.
type UpdateTutorProfileRequest struct {
	Name        string   `json:"name" validate:"omitempty,max=120"`
	Description string   `json:"description" validate:"max=2000"`
	Subjects    []string `json:"subjects" validate:"max=20,dive,max=60"`
	HourlyRate  float64  `json:"hourly_rate" validate:"gte=0"`
}

// TutorResponse is the public tutor profile.
type TutorResponse struct {
	ID           string    `json:"id"`
	UserID       *string   `json:"user_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Subjects     []string  `json:"subjects"`
	HourlyRate   float64   `json:"hourly_rate"`
	Rating       float64   `json:"rating"`
	TotalReviews int       `json:"total_reviews"`
	CreatedAt    time.Time `json:"created_at"`
}

// TutorStatisticsResponse summarizes tutor activity.
type TutorStatisticsResponse struct {
	TotalSessions          int     `json:"total_sessions"`
	UpcomingSessions       int     `json:"upcoming_sessions"`
	TotalStudents          int     `json:"total_students"`
	TotalEnrollments       int     `json:"total_enrollments"`
	Rating                 float64 `json:"rating"`
	TotalReviews           int     `json:"total_reviews"`
	Favorites              int     `json:"favorites"`
	TotalResources         int     `json:"total_resources"`
	TotalResourceViews     int     `json:"total_resource_views"`
	TotalResourceDownloads int     `json:"total_resource_downloads"`
}

// FavoriteTutorResponse is a bookmarked tutor.
type FavoriteTutorResponse struct {
	TutorResponse
	FavoritedAt time.Time `json:"favorited_at"`
}

// FavoriteStatusResponse reports the bookmark state of a tutor.
type FavoriteStatusResponse struct {
	TutorID    string `json:"tutor_id"`
	IsFavorite bool   `json:"is_favorite"`
	Created    bool   `json:"created,omitempty"`
}
