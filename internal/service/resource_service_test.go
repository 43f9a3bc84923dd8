package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

func TestUploadUsesAuthorDisplayName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.student(t, "Ann")
	tara, _ := env.tutor(t, "Tara Tutor")
	_, err := env.tutors.UpdateProfile(ctx, tara.ID, TutorProfileInput{Name: "Dr. Tara", Subjects: []string{"Math"}})
	require.NoError(t, err)

	notes, err := env.resources.Upload(ctx, ann.ID, ResourceInput{
		Title:    "  Algebra notes ",
		Subject:  "Math",
		FileType: "pdf",
		FileName: "algebra.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", notes.AuthorName)
	assert.Equal(t, "Algebra notes", notes.Title)
	assert.Zero(t, notes.Views)
	assert.Zero(t, notes.Downloads)

	sheet, err := env.resources.Upload(ctx, tara.ID, ResourceInput{Title: "Formula sheet", Subject: "Math"})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Tara", sheet.AuthorName)

	_, err = env.resources.Upload(ctx, ann.ID, ResourceInput{Title: "  "})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))

	_, err = env.resources.Upload(ctx, "missing", ResourceInput{Title: "x"})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestListResourcesFiltersAndSearches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.student(t, "Ann")
	ben := env.student(t, "Ben")

	upload := func(author *domain.User, title, description, subject string) {
		_, err := env.resources.Upload(ctx, author.ID, ResourceInput{Title: title, Description: description, Subject: subject})
		require.NoError(t, err)
	}
	upload(ann, "Algebra notes", "linear equations", "Math")
	upload(ben, "Essay tips", "structure and style", "English")
	upload(ann, "Geometry drills", "", "math")

	cases := []struct {
		name     string
		subject  string
		query    string
		expected []string
	}{
		{"all newest first", "", "", []string{"Geometry drills", "Essay tips", "Algebra notes"}},
		{"all keyword", "All", "", []string{"Geometry drills", "Essay tips", "Algebra notes"}},
		{"subject ignores case", "MATH", "", []string{"Geometry drills", "Algebra notes"}},
		{"subject is exact", "Mat", "", nil},
		{"search description", "", "EQUATIONS", []string{"Algebra notes"}},
		{"search author", "", "ben", []string{"Essay tips"}},
		{"search subject", "", "engl", []string{"Essay tips"}},
		{"subject and search", "math", "drill", []string{"Geometry drills"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resources, err := env.resources.List(ctx, tc.subject, tc.query)
			require.NoError(t, err)
			var titles []string
			for _, r := range resources {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tc.expected, titles)
		})
	}

	mine, err := env.resources.ListByAuthor(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Geometry drills", mine[0].Title)
}

func TestDeleteResourceRequiresAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.student(t, "Ann")
	ben := env.student(t, "Ben")

	resource, err := env.resources.Upload(ctx, ann.ID, ResourceInput{Title: "Algebra notes"})
	require.NoError(t, err)

	err = env.resources.Delete(ctx, ben.ID, resource.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	require.NoError(t, env.resources.Delete(ctx, ann.ID, resource.ID))
	_, err = env.resources.Get(ctx, resource.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	err = env.resources.Delete(ctx, ann.ID, resource.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestResourceCountersUnderConcurrency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.student(t, "Ann")
	resource, err := env.resources.Upload(ctx, ann.ID, ResourceInput{Title: "Algebra notes"})
	require.NoError(t, err)

	const views, downloads = 30, 20
	var wg sync.WaitGroup
	for i := 0; i < views; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.resources.View(ctx, resource.ID)
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < downloads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.resources.Download(ctx, resource.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := env.resources.Get(ctx, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, views, stored.Views)
	assert.Equal(t, downloads, stored.Downloads)

	_, err = env.resources.View(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	_, err = env.resources.Download(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
