package domain

import "time"

// Favorite is a user's bookmark of a tutor.
type Favorite struct {
	ID        string
	UserID    string
	TutorID   string
	CreatedAt time.Time
}

// FavoriteTutor is a favorited tutor profile.
type FavoriteTutor struct {
	Tutor
	FavoritedAt time.Time
}
