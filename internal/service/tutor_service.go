package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

// TutorService exposes tutor profiles and their statistics.
type TutorService struct {
	tutors      repository.TutorRepository
	sessions    repository.SessionRepository
	enrollments repository.EnrollmentRepository
	favorites   repository.FavoriteRepository
	resources   repository.ResourceRepository
}

// TutorDependencies bundles repositories for the tutor service.
type TutorDependencies struct {
	TutorRepo      repository.TutorRepository
	SessionRepo    repository.SessionRepository
	EnrollmentRepo repository.EnrollmentRepository
	FavoriteRepo   repository.FavoriteRepository
	ResourceRepo   repository.ResourceRepository
}

// TutorProfileInput carries editable profile fields. Rating fields are not editable.
type TutorProfileInput struct {
	Name        string
	Description string
	Subjects    []string
	HourlyRate  float64
}

// NewTutorService constructs the service.
func NewTutorService(deps TutorDependencies) *TutorService {
	return &TutorService{
		tutors:      deps.TutorRepo,
		sessions:    deps.SessionRepo,
		enrollments: deps.EnrollmentRepo,
		favorites:   deps.FavoriteRepo,
		resources:   deps.ResourceRepo,
	}
}

// ListTutors filters by subject and a free-text term.
func (s *TutorService) ListTutors(ctx context.Context, subject, query string) ([]domain.Tutor, error) {
	filter := repository.TutorFilter{}
	if v := strings.TrimSpace(subject); v != "" {
		filter.Subject = &v
	}
	if v := strings.TrimSpace(query); v != "" {
		filter.SearchTerm = &v
	}
	tutors, err := s.tutors.List(ctx, filter)
	if err != nil {
		return nil, storageError(err, "tutor", nil)
	}
	return tutors, nil
}

// GetTutor loads a tutor profile.
func (s *TutorService) GetTutor(ctx context.Context, tutorID string) (*domain.Tutor, error) {
	tutor, err := s.tutors.GetByID(ctx, tutorID)
	if err != nil {
		return nil, storageError(err, "tutor", map[string]any{"tutor_id": tutorID})
	}
	return tutor, nil
}

// GetTutorByUser loads the profile owned by a tutor user.
func (s *TutorService) GetTutorByUser(ctx context.Context, userID string) (*domain.Tutor, error) {
	tutor, err := s.tutors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storageError(err, "tutor profile", nil)
	}
	return tutor, nil
}

// UpdateProfile edits the caller's own profile.
func (s *TutorService) UpdateProfile(ctx context.Context, userID string, input TutorProfileInput) (*domain.Tutor, error) {
	tutor, err := s.GetTutorByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		tutor.Name = name
	}
	if input.HourlyRate < 0 {
		return nil, apperrors.NewValidationError("hourly rate must not be negative", map[string]any{"hourly_rate": input.HourlyRate})
	}
	tutor.Description = strings.TrimSpace(input.Description)
	tutor.Subjects = normalizeSubjects(input.Subjects)
	tutor.HourlyRate = input.HourlyRate

	if err := s.tutors.UpdateProfile(ctx, tutor); err != nil {
		return nil, storageError(err, "tutor", nil)
	}
	return s.GetTutor(ctx, tutor.ID)
}

// ListSubjects returns every subject taught, sorted and de-duplicated.
func (s *TutorService) ListSubjects(ctx context.Context) ([]string, error) {
	tutors, err := s.tutors.List(ctx, repository.TutorFilter{})
	if err != nil {
		return nil, storageError(err, "tutor", nil)
	}
	seen := make(map[string]struct{})
	subjects := []string{}
	for _, tutor := range tutors {
		for _, subject := range tutor.Subjects {
			if _, ok := seen[subject]; ok {
				continue
			}
			seen[subject] = struct{}{}
			subjects = append(subjects, subject)
		}
	}
	sort.Strings(subjects)
	return subjects, nil
}

// Statistics summarizes the caller's tutoring activity.
func (s *TutorService) Statistics(ctx context.Context, userID string) (*domain.TutorStatistics, error) {
	tutor, err := s.GetTutorByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.List(ctx, repository.SessionFilter{TutorID: &tutor.ID})
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	enrollments, err := s.enrollments.ListByTutor(ctx, tutor.ID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	favorites, err := s.favorites.CountByTutor(ctx, tutor.ID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	resources, err := s.resources.List(ctx, repository.ResourceFilter{AuthorID: &userID})
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}

	stats := &domain.TutorStatistics{
		TotalSessions:    len(sessions),
		TotalEnrollments: len(enrollments),
		Rating:           tutor.Rating,
		TotalReviews:     tutor.TotalReviews,
		Favorites:        favorites,
		TotalResources:   len(resources),
	}
	for _, resource := range resources {
		stats.TotalResourceViews += resource.Views
		stats.TotalResourceDownloads += resource.Downloads
	}
	for _, session := range sessions {
		if session.Status == domain.SessionStatusUpcoming {
			stats.UpcomingSessions++
		}
	}
	students := make(map[string]struct{})
	for _, enrollment := range enrollments {
		students[enrollment.StudentID] = struct{}{}
	}
	stats.TotalStudents = len(students)
	return stats, nil
}

// createProfile bootstraps an empty profile for a newly registered tutor.
func createProfile(ctx context.Context, tutors repository.TutorRepository, user *domain.User) (*domain.Tutor, error) {
	userID := user.ID
	tutor := &domain.Tutor{
		UserID:   &userID,
		Name:     user.Name,
		Subjects: []string{},
	}
	if err := tutors.Create(ctx, tutor); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return tutors.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	return tutor, nil
}

func normalizeSubjects(subjects []string) []string {
	seen := make(map[string]struct{}, len(subjects))
	result := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		subject = strings.TrimSpace(subject)
		if subject == "" {
			continue
		}
		key := strings.ToLower(subject)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, subject)
	}
	return result
}
