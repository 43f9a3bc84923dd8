package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutor-marketplace/internal/api/dto"
	"github.com/tutorhub/tutor-marketplace/internal/service"
)

// ReviewsHandler exposes tutor review endpoints.
type ReviewsHandler struct {
	reviews *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviewService}
}

// ListReviews GET /tutors/:id/reviews.
func (h *ReviewsHandler) ListReviews(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListTutorReviews(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, reviewResponse(&reviews[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Statistics GET /tutors/:id/reviews/stats.
func (h *ReviewsHandler) Statistics(c *fiber.Ctx) error {
	tutorID := c.Params("id")
	stats, err := h.reviews.ReviewStatistics(c.UserContext(), tutorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviewStatisticsResponse(tutorID, stats)})
}

// Submit POST /tutors/:id/reviews.
func (h *ReviewsHandler) Submit(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.SubmitReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.SubmitReview(c.UserContext(), user.ID, c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reviewResponse(review)})
}

// Eligibility GET /tutors/:id/reviews/eligibility.
func (h *ReviewsHandler) Eligibility(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	tutorID := c.Params("id")
	can, err := h.reviews.CanReview(c.UserContext(), user.ID, tutorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EligibilityResponse{TutorID: tutorID, CanReview: can}})
}
