package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
	"github.com/custodia-labs/boardsense/internal/core/ports/driving"
	"github.com/custodia-labs/boardsense/internal/logger"
)

// Ensure Chat implements the interface.
var _ driving.ChatService = (*Chat)(nil)

// Chat generation settings: deterministic-leaning output with a bounded
// reply length.
const (
	chatTemperature = 0.1
	chatMaxTokens   = 1000
)

// NoResponseFallback is returned when the provider yields no candidates.
const NoResponseFallback = "No response."

// missingKeyMessage is surfaced as an assistant-style message, not an
// error, when the provider credential is absent.
const missingKeyMessage = "An API key is required before I can answer. Please add one in settings."

// contextFraming instructs the model how to treat the retrieved board
// text. The reply must be plain text because it is rendered verbatim.
const contextFraming = "The following is text extracted from sticky notes on the user's whiteboard. " +
	"Treat it as the user's own notes and ground your answer in it. " +
	"Reply in plain text without markdown or other formatting:\n\n%s"

// imageLabel accompanies the captured screenshot on its final user turn.
const imageLabel = "Screenshot of the relevant whiteboard region:"

// Chat orchestrates grounded conversations: retrieved whiteboard text and
// an optional captured screenshot are combined with the conversation
// history into one provider request.
type Chat struct {
	completer driven.ChatCompleter
	config    driven.ConfigStore
}

// NewChat creates a chat orchestrator.
func NewChat(completer driven.ChatCompleter, config driven.ConfigStore) *Chat {
	return &Chat{completer: completer, config: config}
}

// Respond sends the assembled conversation to the chat provider and
// returns the reply text. Provider errors propagate without retry.
func (c *Chat) Respond(ctx context.Context, history []domain.ChatMessage, searchContext, imageDataURL string) (string, error) {
	// A constructed completer already resolved its credential at wiring
	// time (config or environment); no re-check here. A nil completer with
	// no configured key is the user-facing missing-credential condition.
	if c.completer == nil {
		if c.config != nil && c.config.GetString(driven.ConfigKeyAPIKey) == "" {
			logger.Warn("Chat request without a resolved API key")
			return missingKeyMessage, nil
		}
		return "", domain.ErrChatUnavailable
	}

	messages := BuildMessages(history, searchContext, imageDataURL)
	logger.Debug("Chat request: %d messages, image attached: %t", len(messages), imageDataURL != "")

	reply, err := c.completer.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if reply == "" {
		return NoResponseFallback, nil
	}
	return reply, nil
}

// BuildMessages assembles the provider message sequence from conversation
// history, retrieved context and an optional image. Pure function so the
// request shape is testable without a live provider: a framing message
// carrying the whiteboard text first, then the prior turns in order, then
// - when a screenshot was captured - a final user message with a short
// label and the image.
func BuildMessages(history []domain.ChatMessage, searchContext, imageDataURL string) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(history)+2)

	if searchContext != "" {
		messages = append(messages, domain.ChatMessage{
			Role:    domain.RoleUser,
			Content: fmt.Sprintf(contextFraming, searchContext),
		})
	}

	messages = append(messages, history...)

	if imageDataURL != "" {
		messages = append(messages, domain.ChatMessage{
			Role:          domain.RoleUser,
			Content:       imageLabel,
			AttachedImage: imageDataURL,
		})
	}

	return messages
}
