package domain

import (
	"math"
	"time"
)

// Review is a rating left by a user for a tutor.
type Review struct {
	ID        string
	UserID    string
	UserName  string
	TutorID   string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ReviewStatistics contains aggregate review statistics for a tutor.
type ReviewStatistics struct {
	TotalReviews  int
	AverageRating float64
	Distribution  map[int]int
}

// MeanRating returns sum/n rounded to one decimal, halves away from zero.
// Scaling the integer sum before dividing keeps exact halves exact.
func MeanRating(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum*10)/float64(n)) / 10
}
