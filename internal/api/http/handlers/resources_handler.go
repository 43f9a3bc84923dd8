package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutor-marketplace/internal/api/dto"
	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/service"
)

// ResourcesHandler exposes the learning-resource catalog.
type ResourcesHandler struct {
	resources *service.ResourceService
}

// NewResourcesHandler constructs handler.
func NewResourcesHandler(resourceService *service.ResourceService) *ResourcesHandler {
	return &ResourcesHandler{resources: resourceService}
}

// List GET /resources?subject=&q=.
func (h *ResourcesHandler) List(c *fiber.Ctx) error {
	resources, err := h.resources.List(c.UserContext(), c.Query("subject"), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resourceResponses(resources)})
}

// Get GET /resources/:id.
func (h *ResourcesHandler) Get(c *fiber.Ctx) error {
	resource, err := h.resources.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resourceResponse(resource)})
}

// Create POST /resources.
func (h *ResourcesHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateResourceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resource, err := h.resources.Upload(c.UserContext(), user.ID, service.ResourceInput{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		FileType:    req.FileType,
		FileName:    req.FileName,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resourceResponse(resource)})
}

// Delete DELETE /resources/:id.
func (h *ResourcesHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.resources.Delete(c.UserContext(), user.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// View POST /resources/:id/view.
func (h *ResourcesHandler) View(c *fiber.Ctx) error {
	resource, err := h.resources.View(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resourceResponse(resource)})
}

// Download POST /resources/:id/download.
func (h *ResourcesHandler) Download(c *fiber.Ctx) error {
	resource, err := h.resources.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resourceResponse(resource)})
}

// ListMine GET /me/resources.
func (h *ResourcesHandler) ListMine(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	resources, err := h.resources.ListByAuthor(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resourceResponses(resources)})
}

func resourceResponse(resource *domain.Resource) dto.ResourceResponse {
	return dto.ResourceResponse{
		ID:          resource.ID,
		AuthorID:    resource.AuthorID,
		AuthorName:  resource.AuthorName,
		Title:       resource.Title,
		Description: resource.Description,
		Subject:     resource.Subject,
		FileType:    resource.FileType,
		FileName:    resource.FileName,
		Views:       resource.Views,
		Downloads:   resource.Downloads,
		UploadedAt:  resource.UploadedAt,
	}
}

func resourceResponses(resources []domain.Resource) []dto.ResourceResponse {
	items := make([]dto.ResourceResponse, 0, len(resources))
	for i := range resources {
		items = append(items, resourceResponse(&resources[i]))
	}
	return items
}
