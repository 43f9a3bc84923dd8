package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
)

func seedSession(t *testing.T, store *Store, maxStudents int) *domain.Session {
	t.Helper()
	ctx := context.Background()
	tutor := &domain.Tutor{Name: "Seed Tutor", Subjects: []string{"Math"}}
	require.NoError(t, store.Tutors().Create(ctx, tutor))

	session := &domain.Session{
		TutorID:         tutor.ID,
		Title:           "Seed",
		ScheduledAt:     time.Now().Add(time.Hour),
		MaxStudents:     maxStudents,
		CurrentStudents: 7,
		Status:          domain.SessionStatusUpcoming,
	}
	require.NoError(t, store.Sessions().Create(ctx, session))
	return session
}

func enrollment(studentID string, session *domain.Session) *domain.Enrollment {
	return &domain.Enrollment{
		StudentID: studentID,
		SessionID: session.ID,
		TutorID:   session.TutorID,
		Status:    domain.EnrollmentStatusActive,
	}
}

func TestSessionCreateIgnoresSuppliedOccupancy(t *testing.T) {
	store := NewStore()
	session := seedSession(t, store, 3)
	assert.Equal(t, 0, session.CurrentStudents)

	_, err := store.Sessions().GetByID(context.Background(), session.ID)
	require.NoError(t, err)

	err = store.Sessions().Create(context.Background(), &domain.Session{TutorID: "missing", MaxStudents: 1})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateWithinCapacity(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	session := seedSession(t, store, 2)
	repo := store.Enrollments()

	occupancy, err := repo.CreateWithinCapacity(ctx, enrollment("a", session))
	require.NoError(t, err)
	assert.Equal(t, 1, occupancy)

	_, err = repo.CreateWithinCapacity(ctx, enrollment("a", session))
	assert.ErrorIs(t, err, repository.ErrConflict)

	occupancy, err = repo.CreateWithinCapacity(ctx, enrollment("b", session))
	require.NoError(t, err)
	assert.Equal(t, 2, occupancy)

	_, err = repo.CreateWithinCapacity(ctx, enrollment("c", session))
	assert.ErrorIs(t, err, repository.ErrCapacity)

	_, err = repo.CreateWithinCapacity(ctx, &domain.Enrollment{StudentID: "d", SessionID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err := store.Sessions().GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CurrentStudents)
}

func TestCreateWithinCapacityCheckOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	repo := store.Enrollments()

	full := seedSession(t, store, 1)
	_, err := repo.CreateWithinCapacity(ctx, enrollment("a", full))
	require.NoError(t, err)
	_, err = repo.CreateWithinCapacity(ctx, enrollment("a", full))
	assert.ErrorIs(t, err, repository.ErrConflict, "a repeated pair wins over a full session")

	for _, status := range []domain.SessionStatus{domain.SessionStatusCompleted, domain.SessionStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			session := seedSession(t, store, 3)
			_, err := repo.CreateWithinCapacity(ctx, enrollment("a", session))
			require.NoError(t, err)
			require.NoError(t, store.Sessions().TransitionStatus(ctx, session.ID, domain.SessionStatusUpcoming, status))

			_, err = repo.CreateWithinCapacity(ctx, enrollment("b", session))
			assert.ErrorIs(t, err, repository.ErrClosed)
			_, err = repo.CreateWithinCapacity(ctx, enrollment("a", session))
			assert.ErrorIs(t, err, repository.ErrClosed)

			roster, err := repo.ListBySession(ctx, session.ID)
			require.NoError(t, err)
			assert.Len(t, roster, 1)
		})
	}
}

func TestRecalculateRating(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tutor := &domain.Tutor{Name: "Tara"}
	require.NoError(t, store.Tutors().Create(ctx, tutor))

	rating, total, err := store.Tutors().RecalculateRating(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Zero(t, rating)
	assert.Zero(t, total)

	for i, stars := range []int{5, 4, 4} {
		require.NoError(t, store.Reviews().Create(ctx, &domain.Review{UserID: fmt.Sprintf("u%d", i), TutorID: tutor.ID, Rating: stars}))
	}
	require.NoError(t, store.Reviews().Create(ctx, &domain.Review{UserID: "u0", TutorID: "other", Rating: 1}))

	rating, total, err = store.Tutors().RecalculateRating(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, rating)
	assert.Equal(t, 3, total)

	stored, err := store.Tutors().GetByID(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, stored.Rating)
	assert.Equal(t, 3, stored.TotalReviews)

	_, _, err = store.Tutors().RecalculateRating(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateWithinCapacityConcurrent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	session := seedSession(t, store, 3)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = store.Enrollments().CreateWithinCapacity(ctx, enrollment(fmt.Sprintf("s%d", i%10), session))
		}(i)
	}
	wg.Wait()

	roster, err := store.Enrollments().ListBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 3)

	stored, err := store.Sessions().GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CurrentStudents)
}

func TestTransitionStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	session := seedSession(t, store, 1)
	repo := store.Sessions()

	require.NoError(t, repo.TransitionStatus(ctx, session.ID, domain.SessionStatusUpcoming, domain.SessionStatusCompleted))
	err := repo.TransitionStatus(ctx, session.ID, domain.SessionStatusUpcoming, domain.SessionStatusCancelled)
	assert.ErrorIs(t, err, repository.ErrConflict)
	err = repo.TransitionStatus(ctx, "missing", domain.SessionStatusUpcoming, domain.SessionStatusCancelled)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	completed, err := repo.List(ctx, repository.SessionFilter{Statuses: []domain.SessionStatus{domain.SessionStatusCompleted}})
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestUniquePairs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Reviews().Create(ctx, &domain.Review{UserID: "u", TutorID: "t", Rating: 5}))
	assert.ErrorIs(t, store.Reviews().Create(ctx, &domain.Review{UserID: "u", TutorID: "t", Rating: 1}), repository.ErrConflict)

	require.NoError(t, store.Favorites().Create(ctx, &domain.Favorite{UserID: "u", TutorID: "t"}))
	assert.ErrorIs(t, store.Favorites().Create(ctx, &domain.Favorite{UserID: "u", TutorID: "t"}), repository.ErrConflict)
	require.NoError(t, store.Favorites().Delete(ctx, "u", "t"))
	require.NoError(t, store.Favorites().Delete(ctx, "u", "t"))

	require.NoError(t, store.Users().Create(ctx, &domain.User{Name: "Ann", Email: "ann@example.com"}))
	assert.ErrorIs(t, store.Users().Create(ctx, &domain.User{Name: "Ann", Email: "ANN@example.com"}), repository.ErrConflict)
}

func TestTickIsStrictlyIncreasing(t *testing.T) {
	store := NewStore()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	store.mu.Lock()
	first := store.tick()
	second := store.tick()
	store.mu.Unlock()

	assert.True(t, second.After(first))
}

func TestReturnedTutorsAreCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tutor := &domain.Tutor{Name: "Tara", Subjects: []string{"Math"}, Rating: 5, TotalReviews: 9}
	require.NoError(t, store.Tutors().Create(ctx, tutor))
	assert.Zero(t, tutor.Rating)
	assert.Zero(t, tutor.TotalReviews)

	loaded, err := store.Tutors().GetByID(ctx, tutor.ID)
	require.NoError(t, err)
	loaded.Subjects[0] = "Changed"

	again, err := store.Tutors().GetByID(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Math"}, again.Subjects)
}
