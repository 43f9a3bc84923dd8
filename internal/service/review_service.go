package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/events"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

const (
	minRating = 1
	maxRating = 5
)

// ReviewService accepts reviews and owns the tutor rating aggregate.
type ReviewService struct {
	users       repository.UserRepository
	tutors      repository.TutorRepository
	sessions    repository.SessionRepository
	enrollments repository.EnrollmentRepository
	reviews     repository.ReviewRepository
	dispatcher  events.Dispatcher
}

// ReviewDependencies bundles repositories for the review service.
type ReviewDependencies struct {
	UserRepo       repository.UserRepository
	TutorRepo      repository.TutorRepository
	SessionRepo    repository.SessionRepository
	EnrollmentRepo repository.EnrollmentRepository
	ReviewRepo     repository.ReviewRepository
	Dispatcher     events.Dispatcher
}

// NewReviewService constructs the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	return &ReviewService{
		users:       deps.UserRepo,
		tutors:      deps.TutorRepo,
		sessions:    deps.SessionRepo,
		enrollments: deps.EnrollmentRepo,
		reviews:     deps.ReviewRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// SubmitReview records a review and refreshes the tutor's rating.
func (s *ReviewService) SubmitReview(ctx context.Context, userID, tutorID string, rating int, comment string) (*domain.Review, error) {
	if rating < minRating || rating > maxRating {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}
	details := map[string]any{"tutor_id": tutorID}

	if _, err := s.tutors.GetByID(ctx, tutorID); err != nil {
		return nil, storageError(err, "tutor", details)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageError(err, "user", nil)
	}

	completed, reviewed, err := s.eligibility(ctx, userID, tutorID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, apperrors.NewDuplicateReview(details)
	}
	if !completed {
		return nil, apperrors.NewNotEligible("you can only review tutors after completing a session with them", details)
	}

	review := &domain.Review{
		UserID:   userID,
		UserName: user.Name,
		TutorID:  tutorID,
		Rating:   rating,
		Comment:  strings.TrimSpace(comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewDuplicateReview(details)
		}
		return nil, storageError(err, "tutor", details)
	}

	if _, _, err := s.RecalculateRating(ctx, tutorID); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventReviewSubmitted,
		SubjectID: tutorID,
		Actor:     userActor(user),
		Payload: events.ReviewSubmittedPayload{
			ReviewID: review.ID,
			UserID:   userID,
			UserName: user.Name,
			TutorID:  tutorID,
			Rating:   rating,
			Comment:  review.Comment,
		},
	})
	return review, nil
}

// CanReview reports whether SubmitReview would pass its eligibility gates.
func (s *ReviewService) CanReview(ctx context.Context, userID, tutorID string) (bool, error) {
	completed, reviewed, err := s.eligibility(ctx, userID, tutorID)
	if err != nil {
		return false, err
	}
	return completed && !reviewed, nil
}

// eligibility reports whether the user attended a completed session of the
// tutor and whether the user already reviewed the tutor.
func (s *ReviewService) eligibility(ctx context.Context, userID, tutorID string) (completed, reviewed bool, err error) {
	if _, err := s.reviews.GetByUserAndTutor(ctx, userID, tutorID); err == nil {
		reviewed = true
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, false, apperrors.NewStorageUnavailable(err)
	}

	enrollments, err := s.enrollments.ListByStudent(ctx, userID)
	if err != nil {
		return false, false, apperrors.NewStorageUnavailable(err)
	}
	for _, enrollment := range enrollments {
		if enrollment.TutorID != tutorID {
			continue
		}
		session, err := s.sessions.GetByID(ctx, enrollment.SessionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return false, false, apperrors.NewStorageUnavailable(err)
		}
		if session.TutorID == tutorID && session.Status == domain.SessionStatusCompleted {
			completed = true
			break
		}
	}
	return completed, reviewed, nil
}

// RecalculateRating recomputes the tutor's rating and review count from every
// stored review in a single storage operation and returns the new values.
func (s *ReviewService) RecalculateRating(ctx context.Context, tutorID string) (float64, int, error) {
	rating, total, err := s.tutors.RecalculateRating(ctx, tutorID)
	if err != nil {
		return 0, 0, storageError(err, "tutor", map[string]any{"tutor_id": tutorID})
	}
	return rating, total, nil
}

// ListTutorReviews returns the tutor's reviews, newest first.
func (s *ReviewService) ListTutorReviews(ctx context.Context, tutorID string) ([]domain.Review, error) {
	if _, err := s.tutors.GetByID(ctx, tutorID); err != nil {
		return nil, storageError(err, "tutor", map[string]any{"tutor_id": tutorID})
	}
	reviews, err := s.reviews.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, storageError(err, "review", nil)
	}
	return reviews, nil
}

// ReviewStatistics returns count, average and per-star distribution.
func (s *ReviewService) ReviewStatistics(ctx context.Context, tutorID string) (*domain.ReviewStatistics, error) {
	reviews, err := s.ListTutorReviews(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	stats := summarize(reviews)
	return &stats, nil
}

func summarize(reviews []domain.Review) domain.ReviewStatistics {
	stats := domain.ReviewStatistics{Distribution: make(map[int]int, maxRating)}
	for star := minRating; star <= maxRating; star++ {
		stats.Distribution[star] = 0
	}

	sum := 0
	for _, review := range reviews {
		sum += review.Rating
		stats.Distribution[review.Rating]++
	}
	stats.TotalReviews = len(reviews)
	stats.AverageRating = domain.MeanRating(sum, len(reviews))
	return stats
}
