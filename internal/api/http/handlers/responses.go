package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutor-marketplace/internal/api/dto"
	"github.com/tutorhub/tutor-marketplace/internal/auth"
	"github.com/tutorhub/tutor-marketplace/internal/domain"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	return principal.User, nil
}

func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}

func userResponse(user *domain.User, withEmail bool) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	if withEmail {
		resp.Email = user.Email
	}
	return resp
}

func tutorResponse(tutor *domain.Tutor) dto.TutorResponse {
	subjects := tutor.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	return dto.TutorResponse{
		ID:           tutor.ID,
		UserID:       tutor.UserID,
		Name:         tutor.Name,
		Description:  tutor.Description,
		Subjects:     subjects,
		HourlyRate:   tutor.HourlyRate,
		Rating:       tutor.Rating,
		TotalReviews: tutor.TotalReviews,
		CreatedAt:    tutor.CreatedAt,
	}
}

func tutorResponses(tutors []domain.Tutor) []dto.TutorResponse {
	items := make([]dto.TutorResponse, 0, len(tutors))
	for i := range tutors {
		items = append(items, tutorResponse(&tutors[i]))
	}
	return items
}

func sessionResponse(session *domain.Session) dto.SessionResponse {
	return dto.SessionResponse{
		ID:              session.ID,
		TutorID:         session.TutorID,
		Title:           session.Title,
		Subject:         session.Subject,
		Description:     session.Description,
		ScheduledAt:     session.ScheduledAt,
		DurationMinutes: session.DurationMinutes,
		MaxStudents:     session.MaxStudents,
		CurrentStudents: session.CurrentStudents,
		Status:          session.Status,
		CreatedAt:       session.CreatedAt,
	}
}

func sessionResponses(sessions []domain.Session) []dto.SessionResponse {
	items := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		items = append(items, sessionResponse(&sessions[i]))
	}
	return items
}

func enrollmentResponse(enrollment *domain.Enrollment) dto.EnrollmentResponse {
	return dto.EnrollmentResponse{
		ID:         enrollment.ID,
		StudentID:  enrollment.StudentID,
		SessionID:  enrollment.SessionID,
		TutorID:    enrollment.TutorID,
		Status:     enrollment.Status,
		EnrolledAt: enrollment.EnrolledAt,
	}
}

func reviewResponse(review *domain.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		UserName:  review.UserName,
		TutorID:   review.TutorID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

func reviewStatisticsResponse(tutorID string, stats *domain.ReviewStatistics) dto.ReviewStatisticsResponse {
	distribution := make(map[string]int, len(stats.Distribution))
	for star, count := range stats.Distribution {
		distribution[strconv.Itoa(star)] = count
	}
	return dto.ReviewStatisticsResponse{
		TutorID:       tutorID,
		TotalReviews:  stats.TotalReviews,
		AverageRating: stats.AverageRating,
		Distribution:  distribution,
	}
}

func messageResponse(message *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         message.ID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Body:       message.Body,
		Read:       message.Read,
		CreatedAt:  message.CreatedAt,
	}
}

func notificationResponse(notification *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        notification.ID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		RelatedID: notification.RelatedID,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}
}
