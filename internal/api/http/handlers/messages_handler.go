package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutor-marketplace/internal/api/dto"
	"github.com/tutorhub/tutor-marketplace/internal/service"
)

// MessagesHandler exposes direct messaging endpoints.
type MessagesHandler struct {
	messages *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messageService}
}

// Send POST /messages.
func (h *MessagesHandler) Send(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	message, err := h.messages.Send(c.UserContext(), user, req.ReceiverID, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": messageResponse(message)})
}

// Conversations GET /messages.
func (h *MessagesHandler) Conversations(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	conversations, err := h.messages.Conversations(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		items = append(items, dto.ConversationResponse{
			Peer:        userResponse(conversations[i].Peer, false),
			LastMessage: messageResponse(&conversations[i].LastMessage),
			Unread:      conversations[i].Unread,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Conversation GET /messages/:userId.
func (h *MessagesHandler) Conversation(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	messages, err := h.messages.Conversation(c.UserContext(), user.ID, c.Params("userId"))
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, messageResponse(&messages[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MarkRead POST /messages/:userId/read.
func (h *MessagesHandler) MarkRead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.messages.MarkRead(c.UserContext(), user.ID, c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
