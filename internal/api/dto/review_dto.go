package dto

import "time"

// SubmitReviewRequest payload for POST /tutors/:id/reviews.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// ReviewResponse is a published review.
type ReviewResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	TutorID   string    `json:"tutor_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewStatisticsResponse aggregates a tutor's reviews.
type ReviewStatisticsResponse struct {
	TutorID       string         `json:"tutor_id"`
	TotalReviews  int            `json:"total_reviews"`
	AverageRating float64        `json:"average_rating"`
	Distribution  map[string]int `json:"distribution"`
}

// EligibilityResponse answers whether the caller may review a tutor.
type EligibilityResponse struct {
	TutorID   string `json:"tutor_id"`
	CanReview bool   `json:"can_review"`
}
