package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutor-marketplace/internal/api/dto"
	"github.com/tutorhub/tutor-marketplace/internal/service"
)

// TutorsHandler exposes tutor profile endpoints.
type TutorsHandler struct {
	tutors   *service.TutorService
	sessions *service.SessionService
}

// NewTutorsHandler constructs handler.
func NewTutorsHandler(tutorService *service.TutorService, sessionService *service.SessionService) *TutorsHandler {
	return &TutorsHandler{tutors: tutorService, sessions: sessionService}
}

// ListTutors GET /tutors?subject=&q=.
func (h *TutorsHandler) ListTutors(c *fiber.Ctx) error {
	tutors, err := h.tutors.ListTutors(c.UserContext(), c.Query("subject"), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tutorResponses(tutors)})
}

// ListSubjects GET /tutors/subjects.
func (h *TutorsHandler) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.tutors.ListSubjects(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subjects})
}

// GetTutor GET /tutors/:id.
func (h *TutorsHandler) GetTutor(c *fiber.Ctx) error {
	tutor, err := h.tutors.GetTutor(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tutorResponse(tutor)})
}

// ListTutorSessions GET /tutors/:id/sessions.
func (h *TutorsHandler) ListTutorSessions(c *fiber.Ctx) error {
	sessions, err := h.sessions.ListByTutor(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponses(sessions)})
}

// GetMyProfile GET /me/tutor.
func (h *TutorsHandler) GetMyProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	tutor, err := h.tutors.GetTutorByUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tutorResponse(tutor)})
}

// UpdateMyProfile PUT /me/tutor.
func (h *TutorsHandler) UpdateMyProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTutorProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tutor, err := h.tutors.UpdateProfile(c.UserContext(), user.ID, service.TutorProfileInput{
		Name:        req.Name,
		Description: req.Description,
		Subjects:    req.Subjects,
		HourlyRate:  req.HourlyRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tutorResponse(tutor)})
}

// MyStatistics GET /me/tutor/statistics.
func (h *TutorsHandler) MyStatistics(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.tutors.Statistics(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TutorStatisticsResponse{
		TotalSessions:          stats.TotalSessions,
		UpcomingSessions:       stats.UpcomingSessions,
		TotalStudents:          stats.TotalStudents,
		TotalEnrollments:       stats.TotalEnrollments,
		Rating:                 stats.Rating,
		TotalReviews:           stats.TotalReviews,
		Favorites:              stats.Favorites,
		TotalResources:         stats.TotalResources,
		TotalResourceViews:     stats.TotalResourceViews,
		TotalResourceDownloads: stats.TotalResourceDownloads,
	}})
}
