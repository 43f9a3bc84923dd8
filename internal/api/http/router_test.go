package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhub/tutor-marketplace/internal/api/http/handlers"
	"github.com/tutorhub/tutor-marketplace/internal/auth"
	"github.com/tutorhub/tutor-marketplace/internal/config"
	"github.com/tutorhub/tutor-marketplace/internal/events"
	"github.com/tutorhub/tutor-marketplace/internal/observability"
	"github.com/tutorhub/tutor-marketplace/internal/repository/memory"
	"github.com/tutorhub/tutor-marketplace/internal/service"
	"github.com/tutorhub/tutor-marketplace/internal/worker"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type account struct {
	token   string
	userID  string
	tutorID string
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		App:          config.AppConfig{Name: "tutor-marketplace", Version: "test"},
		Auth:         config.AuthConfig{JWTSecret: "router-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4},
		Notification: config.NotificationConfig{Enabled: true},
	}
	logger := zap.NewNop()
	store := memory.NewStore()
	metrics := observability.NewMetrics()
	services := service.NewServices(cfg, store, events.NewInMemoryDispatcher(logger), nil, logger)
	worker.StartNotificationWorker(services.Notifications)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, nil, metrics),
		Auth:           handlers.NewAuthHandler(services.Auth),
		Tutors:         handlers.NewTutorsHandler(services.Tutors, services.Sessions),
		Sessions:       handlers.NewSessionsHandler(services.Sessions, services.Enrollments),
		Reviews:        handlers.NewReviewsHandler(services.Reviews),
		Favorites:      handlers.NewFavoritesHandler(services.Favorites),
		Messages:       handlers.NewMessagesHandler(services.Messages),
		Notifications:  handlers.NewNotificationsHandler(services.Notifications),
		Resources:      handlers.NewResourcesHandler(services.Resources),
		AuthMiddleware: auth.NewAuthMiddleware(services.Auth.TokenManager(), store.Users()),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func signup(t *testing.T, app *fiber.App, name, role string) account {
	t.Helper()
	status, env := call(t, app, fiber.MethodPost, "/auth/register", "", map[string]any{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	result := decode[struct {
		User  struct{ ID string } `json:"user"`
		Tutor *struct{ ID string } `json:"tutor"`
		Auth  struct{ Token string } `json:"auth"`
	}](t, env)
	acc := account{token: result.Auth.Token, userID: result.User.ID}
	if result.Tutor != nil {
		acc.tutorID = result.Tutor.ID
	}
	return acc
}

func createSession(t *testing.T, app *fiber.App, tutor account, max int) string {
	t.Helper()
	status, env := call(t, app, fiber.MethodPost, "/sessions", tutor.token, map[string]any{
		"title":        "Algebra",
		"subject":      "Math",
		"scheduled_at": time.Now().Add(24 * time.Hour).UTC(),
		"max_students": max,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	return decode[struct{ ID string }](t, env).ID
}

func TestEnrollmentFillsSessionAndRejectsOverflow(t *testing.T) {
	app := newTestApp(t)
	tutor := signup(t, app, "tina", "tutor")
	sessionID := createSession(t, app, tutor, 2)

	for _, name := range []string{"alice", "bob"} {
		student := signup(t, app, name, "student")
		status, env := call(t, app, fiber.MethodPost, "/sessions/"+sessionID+"/enroll", student.token, nil)
		require.Equal(t, fiber.StatusCreated, status, env.Error)
	}

	carol := signup(t, app, "carol", "student")
	status, env := call(t, app, fiber.MethodPost, "/sessions/"+sessionID+"/enroll", carol.token, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SESSION_FULL", env.Error.Code)

	status, env = call(t, app, fiber.MethodGet, "/sessions/"+sessionID+"/capacity", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	capacity := decode[struct {
		Available   int     `json:"available"`
		Total       int     `json:"total"`
		PercentFull float64 `json:"percent_full"`
	}](t, env)
	assert.Equal(t, 0, capacity.Available)
	assert.Equal(t, 2, capacity.Total)
	assert.InDelta(t, 100.0, capacity.PercentFull, 0.001)

	status, env = call(t, app, fiber.MethodGet, "/notifications/unread-count", tutor.token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 2, decode[struct{ Unread int }](t, env).Unread)
}

func TestRepeatedEnrollmentIsRejected(t *testing.T) {
	app := newTestApp(t)
	tutor := signup(t, app, "tom", "tutor")
	sessionID := createSession(t, app, tutor, 5)
	student := signup(t, app, "sam", "student")

	status, _ := call(t, app, fiber.MethodPost, "/sessions/"+sessionID+"/enroll", student.token, nil)
	require.Equal(t, fiber.StatusCreated, status)
	status, env := call(t, app, fiber.MethodPost, "/sessions/"+sessionID+"/enroll", student.token, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "ALREADY_ENROLLED", env.Error.Code)

	status, env = call(t, app, fiber.MethodGet, "/me/enrollments", student.token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env), 1)
}

func TestReviewFlowUpdatesTutorRating(t *testing.T) {
	app := newTestApp(t)
	tutor := signup(t, app, "tara", "tutor")
	sessionID := createSession(t, app, tutor, 3)
	student := signup(t, app, "sid", "student")

	reviewPath := "/tutors/" + tutor.tutorID + "/reviews"
	status, env := call(t, app, fiber.MethodPost, reviewPath, student.token, map[string]any{"rating": 5})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "NOT_ELIGIBLE", env.Error.Code)

	status, _ = call(t, app, fiber.MethodPost, "/sessions/"+sessionID+"/enroll", student.token, nil)
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = call(t, app, fiber.MethodPost, "/sessions/"+sessionID+"/complete", tutor.token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, env = call(t, app, fiber.MethodGet, reviewPath+"/eligibility", student.token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decode[struct {
		CanReview bool `json:"can_review"`
	}](t, env).CanReview)

	status, env = call(t, app, fiber.MethodPost, reviewPath, student.token, map[string]any{"rating": 4, "comment": "clear"})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	status, env = call(t, app, fiber.MethodPost, reviewPath, student.token, map[string]any{"rating": 2})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_REVIEW", env.Error.Code)

	status, env = call(t, app, fiber.MethodGet, "/tutors/"+tutor.tutorID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	profile := decode[struct {
		Rating       float64 `json:"rating"`
		TotalReviews int     `json:"total_reviews"`
	}](t, env)
	assert.InDelta(t, 4.0, profile.Rating, 0.001)
	assert.Equal(t, 1, profile.TotalReviews)

	status, env = call(t, app, fiber.MethodGet, reviewPath+"/stats", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	stats := decode[struct {
		Distribution map[string]int `json:"distribution"`
	}](t, env)
	assert.Equal(t, 1, stats.Distribution["4"])
	assert.Equal(t, 0, stats.Distribution["5"])
}

func TestFavoriteToggle(t *testing.T) {
	app := newTestApp(t)
	tutor := signup(t, app, "tess", "tutor")
	student := signup(t, app, "stan", "student")
	path := "/tutors/" + tutor.tutorID + "/favorite"

	status, _ := call(t, app, fiber.MethodPost, path, student.token, nil)
	assert.Equal(t, fiber.StatusCreated, status)
	status, env := call(t, app, fiber.MethodPost, path, student.token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.False(t, decode[struct{ Created bool }](t, env).Created)

	status, env = call(t, app, fiber.MethodGet, "/me/favorites", student.token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env), 1)

	status, _ = call(t, app, fiber.MethodDelete, path, student.token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, env = call(t, app, fiber.MethodGet, path, student.token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.False(t, decode[struct {
		IsFavorite bool `json:"is_favorite"`
	}](t, env).IsFavorite)
}

func TestAccessControl(t *testing.T) {
	app := newTestApp(t)
	student := signup(t, app, "stella", "student")
	tutor := signup(t, app, "theo", "tutor")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		code   string
	}{
		{name: "missing token", method: fiber.MethodGet, path: "/me/enrollments", status: fiber.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "garbage token", method: fiber.MethodGet, path: "/notifications", token: "nope", status: fiber.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "student creating session", method: fiber.MethodPost, path: "/sessions", token: student.token, status: fiber.StatusForbidden, code: "FORBIDDEN"},
		{name: "tutor enrolling", method: fiber.MethodPost, path: "/sessions/x/enroll", token: tutor.token, status: fiber.StatusForbidden, code: "FORBIDDEN"},
		{name: "unknown session", method: fiber.MethodPost, path: "/sessions/missing/enroll", token: student.token, status: fiber.StatusNotFound, code: "NOT_FOUND"},
		{name: "unknown route", method: fiber.MethodGet, path: "/nowhere", status: fiber.StatusNotFound, code: "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := call(t, app, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)
	status, env := call(t, app, fiber.MethodPost, "/auth/register", "", map[string]any{
		"name":     "x",
		"email":    "not-an-email",
		"password": "123",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "email", env.Error.Details["email"])
	assert.Equal(t, "min=6", env.Error.Details["password"])
}

func TestMessagingCreatesNotification(t *testing.T) {
	app := newTestApp(t)
	student := signup(t, app, "sue", "student")
	tutor := signup(t, app, "ted", "tutor")

	status, env := call(t, app, fiber.MethodPost, "/messages", student.token, map[string]any{
		"receiver_id": tutor.userID,
		"body":        "hello",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)

	status, env = call(t, app, fiber.MethodGet, "/messages", tutor.token, nil)
	require.Equal(t, fiber.StatusOK, status)
	conversations := decode[[]struct {
		Unread int `json:"unread"`
	}](t, env)
	require.Len(t, conversations, 1)
	assert.Equal(t, 1, conversations[0].Unread)

	status, _ = call(t, app, fiber.MethodPost, "/messages/"+student.userID+"/read", tutor.token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = call(t, app, fiber.MethodPost, "/notifications/read-all", tutor.token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	_, env = call(t, app, fiber.MethodGet, "/notifications/unread-count", tutor.token, nil)
	assert.Equal(t, 0, decode[struct{ Unread int }](t, env).Unread)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	status, _ := call(t, app, fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env := call(t, app, fiber.MethodGet, "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	snapshot := decode[observability.MetricsSnapshot](t, env)
	assert.Contains(t, snapshot.Requests, "/health/ready|GET|200")
}

func TestResourceCatalogEndpoints(t *testing.T) {
	app := newTestApp(t)
	tutor := signup(t, app, "tess", "tutor")
	student := signup(t, app, "sue", "student")

	status, _ := call(t, app, fiber.MethodPost, "/resources", "", map[string]any{"title": "Notes"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env := call(t, app, fiber.MethodPost, "/resources", student.token, map[string]any{"subject": "Math"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	type resource struct {
		ID         string `json:"id"`
		AuthorName string `json:"author_name"`
		Title      string `json:"title"`
		Views      int    `json:"views"`
		Downloads  int    `json:"downloads"`
	}
	status, env = call(t, app, fiber.MethodPost, "/resources", student.token, map[string]any{
		"title":     "Algebra notes",
		"subject":   "Math",
		"file_type": "pdf",
		"file_name": "algebra.pdf",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	notes := decode[resource](t, env)
	assert.Equal(t, "sue", notes.AuthorName)

	status, env = call(t, app, fiber.MethodPost, "/resources", tutor.token, map[string]any{"title": "Essay guide", "subject": "English"})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	guide := decode[resource](t, env)

	status, env = call(t, app, fiber.MethodGet, "/resources?subject=math", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	listed := decode[[]resource](t, env)
	require.Len(t, listed, 1)
	assert.Equal(t, notes.ID, listed[0].ID)

	status, env = call(t, app, fiber.MethodGet, "/resources?q=tess", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	listed = decode[[]resource](t, env)
	require.Len(t, listed, 1)
	assert.Equal(t, guide.ID, listed[0].ID)

	status, env = call(t, app, fiber.MethodPost, "/resources/"+guide.ID+"/view", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, decode[resource](t, env).Views)
	status, env = call(t, app, fiber.MethodPost, "/resources/"+guide.ID+"/download", student.token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, decode[resource](t, env).Downloads)

	status, env = call(t, app, fiber.MethodGet, "/me/tutor/statistics", tutor.token, nil)
	require.Equal(t, fiber.StatusOK, status)
	stats := decode[struct {
		TotalResources         int `json:"total_resources"`
		TotalResourceViews     int `json:"total_resource_views"`
		TotalResourceDownloads int `json:"total_resource_downloads"`
	}](t, env)
	assert.Equal(t, 1, stats.TotalResources)
	assert.Equal(t, 1, stats.TotalResourceViews)
	assert.Equal(t, 1, stats.TotalResourceDownloads)

	status, env = call(t, app, fiber.MethodDelete, "/resources/"+guide.ID, student.token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, _ = call(t, app, fiber.MethodDelete, "/resources/"+guide.ID, tutor.token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, env = call(t, app, fiber.MethodGet, "/resources/"+guide.ID, "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, env = call(t, app, fiber.MethodGet, "/me/resources", student.token, nil)
	require.Equal(t, fiber.StatusOK, status)
	mine := decode[[]resource](t, env)
	require.Len(t, mine, 1)
	assert.Equal(t, "Algebra notes", mine[0].Title)
}
