package httpapi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driving"
)

// chatRequest is the chat relay request body.
type chatRequest struct {
	Messages      []chatMessage `json:"messages" validate:"required,min=1,dive"`
	SearchContext string        `json:"searchContext"`
	Base64Image   string        `json:"base64Image"`
}

// chatMessage is one conversation turn on the wire.
type chatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// chatResponse is the chat relay success body.
type chatResponse struct {
	Content string `json:"content"`
}

// ChatHandler relays conversations to the chat service.
type ChatHandler struct {
	chat     driving.ChatService
	validate *validator.Validate
}

// NewChatHandler creates a chat handler.
func NewChatHandler(chat driving.ChatService) *ChatHandler {
	return &ChatHandler{
		chat:     chat,
		validate: validator.New(),
	}
}

// HandleChat relays the conversation to the provider and returns the reply.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}

	if fields := h.validateRequest(&req); len(fields) > 0 {
		return NewValidationError(fields)
	}

	if h.chat == nil {
		return NewError(fiber.StatusServiceUnavailable, "chat service not configured")
	}

	history := make([]domain.ChatMessage, len(req.Messages))
	for i, msg := range req.Messages {
		history[i] = domain.ChatMessage{Role: msg.Role, Content: msg.Content}
	}

	reply, err := h.chat.Respond(c.Context(), history, req.SearchContext, req.Base64Image)
	if err != nil {
		if errors.Is(err, domain.ErrChatUnavailable) {
			return NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(chatResponse{Content: reply})
}

// validateRequest runs struct validation and maps failures to field names.
func (h *ChatHandler) validateRequest(req *chatRequest) map[string]string {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return map[string]string{"request": err.Error()}
	}

	fields := make(map[string]string, len(valErrs))
	for _, e := range valErrs {
		fields[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return fields
}
