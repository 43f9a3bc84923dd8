package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

func TestAddFavoriteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.student(t, "Ann")
	_, tutor := env.tutor(t, "Tara Tutor")

	created, err := env.favorites.AddFavorite(ctx, student.ID, tutor.ID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, tutor.ID, created.TutorID)

	again, err := env.favorites.AddFavorite(ctx, student.ID, tutor.ID)
	require.NoError(t, err)
	assert.Nil(t, again)

	list, err := env.favorites.ListFavoriteTutors(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tara Tutor", list[0].Name)

	count, err := env.favorites.CountTutorFavorites(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRemoveFavorite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.student(t, "Ann")
	_, tutor := env.tutor(t, "Tara Tutor")

	removed, err := env.favorites.RemoveFavorite(ctx, student.ID, tutor.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = env.favorites.AddFavorite(ctx, student.ID, tutor.ID)
	require.NoError(t, err)
	is, err := env.favorites.IsFavorite(ctx, student.ID, tutor.ID)
	require.NoError(t, err)
	assert.True(t, is)

	removed, err = env.favorites.RemoveFavorite(ctx, student.ID, tutor.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	is, err = env.favorites.IsFavorite(ctx, student.ID, tutor.ID)
	require.NoError(t, err)
	assert.False(t, is)
}

func TestAddFavoriteUnknownTutor(t *testing.T) {
	env := newTestEnv(t)
	student := env.student(t, "Ann")

	_, err := env.favorites.AddFavorite(context.Background(), student.ID, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
