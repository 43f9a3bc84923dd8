package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutor-marketplace/internal/api/dto"
	"github.com/tutorhub/tutor-marketplace/internal/service"
)

// SessionsHandler exposes session and enrollment endpoints.
type SessionsHandler struct {
	sessions    *service.SessionService
	enrollments *service.EnrollmentService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(sessionService *service.SessionService, enrollmentService *service.EnrollmentService) *SessionsHandler {
	return &SessionsHandler{sessions: sessionService, enrollments: enrollmentService}
}

// ListUpcoming GET /sessions.
func (h *SessionsHandler) ListUpcoming(c *fiber.Ctx) error {
	sessions, err := h.sessions.ListUpcoming(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponses(sessions)})
}

// GetSession GET /sessions/:id.
func (h *SessionsHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.sessions.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// GetCapacity GET /sessions/:id/capacity.
func (h *SessionsHandler) GetCapacity(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	capacity, err := h.enrollments.GetCapacity(c.UserContext(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CapacityResponse{
		SessionID:   sessionID,
		Available:   capacity.Available,
		Total:       capacity.Total,
		PercentFull: capacity.PercentFull,
	}})
}

// CreateSession POST /sessions.
func (h *SessionsHandler) CreateSession(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateSessionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.sessions.CreateSession(c.UserContext(), user.ID, service.SessionCreateInput{
		Title:           req.Title,
		Subject:         req.Subject,
		Description:     req.Description,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		MaxStudents:     req.MaxStudents,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sessionResponse(session)})
}

// ListMine GET /me/sessions.
func (h *SessionsHandler) ListMine(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	sessions, err := h.sessions.ListMine(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponses(sessions)})
}

// Complete POST /sessions/:id/complete.
func (h *SessionsHandler) Complete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	session, err := h.sessions.CompleteSession(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// Cancel POST /sessions/:id/cancel.
func (h *SessionsHandler) Cancel(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	session, err := h.sessions.CancelSession(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// ListStudents GET /sessions/:id/students.
func (h *SessionsHandler) ListStudents(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	roster, err := h.enrollments.ListSessionStudents(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.SessionStudentResponse, 0, len(roster))
	for i := range roster {
		entry := dto.SessionStudentResponse{EnrollmentResponse: enrollmentResponse(&roster[i].Enrollment)}
		if roster[i].Student != nil {
			student := userResponse(roster[i].Student, true)
			entry.Student = &student
		}
		items = append(items, entry)
	}
	return c.JSON(fiber.Map{"data": items})
}

// Enroll POST /sessions/:id/enroll.
func (h *SessionsHandler) Enroll(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	enrollment, err := h.enrollments.Enroll(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": enrollmentResponse(enrollment)})
}

// MyEnrollments GET /me/enrollments.
func (h *SessionsHandler) MyEnrollments(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	details, err := h.enrollments.ListMyEnrollments(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.EnrollmentDetailResponse, 0, len(details))
	for i := range details {
		entry := dto.EnrollmentDetailResponse{EnrollmentResponse: enrollmentResponse(&details[i].Enrollment)}
		if details[i].Session != nil {
			session := sessionResponse(details[i].Session)
			entry.Session = &session
		}
		if details[i].Tutor != nil {
			tutor := tutorResponse(details[i].Tutor)
			entry.Tutor = &tutor
		}
		items = append(items, entry)
	}
	return c.JSON(fiber.Map{"data": items})
}
