package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutor-marketplace/internal/api/http/handlers"
	"github.com/tutorhub/tutor-marketplace/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tutors         *handlers.TutorsHandler
	Sessions       *handlers.SessionsHandler
	Reviews        *handlers.ReviewsHandler
	Favorites      *handlers.FavoritesHandler
	Messages       *handlers.MessagesHandler
	Notifications  *handlers.NotificationsHandler
	Resources      *handlers.ResourcesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authenticated := cfg.AuthMiddleware.Handle
	student := auth.RequireStudent()
	tutor := auth.RequireTutor()
	anyRole := auth.RequireAnyRole()

	authGroup.Post("/password/change", authenticated, anyRole, cfg.Auth.ChangePassword)

	tutors := app.Group("/tutors")
	tutors.Get("/", cfg.Tutors.ListTutors)
	tutors.Get("/subjects", cfg.Tutors.ListSubjects)
	tutors.Get("/:id", cfg.Tutors.GetTutor)
	tutors.Get("/:id/sessions", cfg.Tutors.ListTutorSessions)
	tutors.Get("/:id/reviews", cfg.Reviews.ListReviews)
	tutors.Get("/:id/reviews/stats", cfg.Reviews.Statistics)
	tutors.Get("/:id/reviews/eligibility", authenticated, student, cfg.Reviews.Eligibility)
	tutors.Post("/:id/reviews", authenticated, student, cfg.Reviews.Submit)
	tutors.Get("/:id/favorite", authenticated, student, cfg.Favorites.Status)
	tutors.Post("/:id/favorite", authenticated, student, cfg.Favorites.Add)
	tutors.Delete("/:id/favorite", authenticated, student, cfg.Favorites.Remove)

	sessions := app.Group("/sessions")
	sessions.Get("/", cfg.Sessions.ListUpcoming)
	sessions.Post("/", authenticated, tutor, cfg.Sessions.CreateSession)
	sessions.Get("/:id", cfg.Sessions.GetSession)
	sessions.Get("/:id/capacity", cfg.Sessions.GetCapacity)
	sessions.Post("/:id/enroll", authenticated, student, cfg.Sessions.Enroll)
	sessions.Post("/:id/complete", authenticated, tutor, cfg.Sessions.Complete)
	sessions.Post("/:id/cancel", authenticated, tutor, cfg.Sessions.Cancel)
	sessions.Get("/:id/students", authenticated, tutor, cfg.Sessions.ListStudents)

	// Group middleware matches by path prefix and would also catch /metrics.
	me := app.Group("/me")
	me.Get("/enrollments", authenticated, student, cfg.Sessions.MyEnrollments)
	me.Get("/favorites", authenticated, student, cfg.Favorites.ListMine)
	me.Get("/sessions", authenticated, tutor, cfg.Sessions.ListMine)
	me.Get("/tutor", authenticated, tutor, cfg.Tutors.GetMyProfile)
	me.Put("/tutor", authenticated, tutor, cfg.Tutors.UpdateMyProfile)
	me.Get("/tutor/statistics", authenticated, tutor, cfg.Tutors.MyStatistics)
	me.Get("/resources", authenticated, anyRole, cfg.Resources.ListMine)

	resources := app.Group("/resources")
	resources.Get("/", cfg.Resources.List)
	resources.Post("/", authenticated, anyRole, cfg.Resources.Create)
	resources.Get("/:id", cfg.Resources.Get)
	resources.Delete("/:id", authenticated, anyRole, cfg.Resources.Delete)
	resources.Post("/:id/view", cfg.Resources.View)
	resources.Post("/:id/download", authenticated, anyRole, cfg.Resources.Download)

	messages := app.Group("/messages", authenticated, anyRole)
	messages.Post("/", cfg.Messages.Send)
	messages.Get("/", cfg.Messages.Conversations)
	messages.Get("/:userId", cfg.Messages.Conversation)
	messages.Post("/:userId/read", cfg.Messages.MarkRead)

	notifications := app.Group("/notifications", authenticated, anyRole)
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
}
