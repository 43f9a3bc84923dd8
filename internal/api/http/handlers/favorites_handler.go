package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutor-marketplace/internal/api/dto"
	"github.com/tutorhub/tutor-marketplace/internal/service"
)

// FavoritesHandler exposes tutor bookmark endpoints.
type FavoritesHandler struct {
	favorites *service.FavoriteService
}

// NewFavoritesHandler constructs handler.
func NewFavoritesHandler(favoriteService *service.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favoriteService}
}

// Add POST /tutors/:id/favorite. Responds 201 when created and 200 when the
// bookmark already existed.
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	tutorID := c.Params("id")
	favorite, err := h.favorites.AddFavorite(c.UserContext(), user.ID, tutorID)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if favorite != nil {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": dto.FavoriteStatusResponse{
		TutorID:    tutorID,
		IsFavorite: true,
		Created:    favorite != nil,
	}})
}

// Remove DELETE /tutors/:id/favorite.
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	tutorID := c.Params("id")
	if _, err := h.favorites.RemoveFavorite(c.UserContext(), user.ID, tutorID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FavoriteStatusResponse{TutorID: tutorID, IsFavorite: false}})
}

// Status GET /tutors/:id/favorite.
func (h *FavoritesHandler) Status(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	tutorID := c.Params("id")
	is, err := h.favorites.IsFavorite(c.UserContext(), user.ID, tutorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FavoriteStatusResponse{TutorID: tutorID, IsFavorite: is}})
}

// ListMine GET /me/favorites.
func (h *FavoritesHandler) ListMine(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	favorites, err := h.favorites.ListFavoriteTutors(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.FavoriteTutorResponse, 0, len(favorites))
	for i := range favorites {
		items = append(items, dto.FavoriteTutorResponse{
			TutorResponse: tutorResponse(&favorites[i].Tutor),
			FavoritedAt:   favorites[i].FavoritedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
