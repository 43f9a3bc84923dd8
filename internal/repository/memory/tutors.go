package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
)

type tutorRepo struct{ s *Store }

func (r tutorRepo) Create(_ context.Context, tutor *domain.Tutor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tutor.UserID != nil {
		for _, existing := range r.s.tutors {
			if existing.UserID != nil && *existing.UserID == *tutor.UserID {
				return repository.ErrConflict
			}
		}
	}
	now := r.s.tick()
	tutor.ID = newID()
	tutor.Subjects = cloneStrings(tutor.Subjects)
	tutor.Rating = 0
	tutor.TotalReviews = 0
	tutor.CreatedAt = now
	tutor.UpdatedAt = now
	r.s.tutors[tutor.ID] = copyTutor(*tutor)
	return nil
}

func (r tutorRepo) UpdateProfile(_ context.Context, tutor *domain.Tutor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.tutors[tutor.ID]
	if !ok {
		return repository.ErrNotFound
	}
	current.Name = tutor.Name
	current.Description = tutor.Description
	current.Subjects = cloneStrings(tutor.Subjects)
	current.HourlyRate = tutor.HourlyRate
	current.UpdatedAt = r.s.tick()
	r.s.tutors[tutor.ID] = current
	*tutor = copyTutor(current)
	return nil
}

func (r tutorRepo) RecalculateRating(_ context.Context, id string) (float64, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.tutors[id]
	if !ok {
		return 0, 0, repository.ErrNotFound
	}
	sum, total := 0, 0
	for _, review := range r.s.reviews {
		if review.TutorID == id {
			sum += review.Rating
			total++
		}
	}
	current.Rating = domain.MeanRating(sum, total)
	current.TotalReviews = total
	current.UpdatedAt = r.s.tick()
	r.s.tutors[id] = current
	return current.Rating, current.TotalReviews, nil
}

func (r tutorRepo) GetByID(_ context.Context, id string) (*domain.Tutor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tutor, ok := r.s.tutors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := copyTutor(tutor)
	return &t, nil
}

func (r tutorRepo) GetByUserID(_ context.Context, userID string) (*domain.Tutor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, tutor := range r.s.tutors {
		if tutor.UserID != nil && *tutor.UserID == userID {
			t := copyTutor(tutor)
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r tutorRepo) List(_ context.Context, filter repository.TutorFilter) ([]domain.Tutor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	subject := ""
	if filter.Subject != nil {
		subject = strings.ToLower(strings.TrimSpace(*filter.Subject))
	}
	term := ""
	if filter.SearchTerm != nil {
		term = strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
	}

	result := make([]domain.Tutor, 0, len(r.s.tutors))
	for _, tutor := range r.s.tutors {
		if subject != "" && !anyContains(tutor.Subjects, subject) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(tutor.Name), term) &&
			!strings.Contains(strings.ToLower(tutor.Description), term) &&
			!anyContains(tutor.Subjects, term) {
			continue
		}
		result = append(result, copyTutor(tutor))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Rating != result[j].Rating {
			return result[i].Rating > result[j].Rating
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func anyContains(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func copyTutor(t domain.Tutor) domain.Tutor {
	t.Subjects = cloneStrings(t.Subjects)
	t.UserID = cloneStringPtr(t.UserID)
	return t
}
