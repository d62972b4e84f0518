package driving

import (
	"context"

	"github.com/custodia-labs/boardsense/internal/core/domain"
)

// ChatService produces assistant replies grounded in retrieved whiteboard
// context and an optional captured canvas screenshot.
type ChatService interface {
	// Respond assembles the provider request from the conversation
	// history, the retrieved whiteboard text and an optional base64 image
	// data URL, and returns the assistant's reply text. A missing provider
	// credential is surfaced as an assistant-style message, not an error;
	// provider failures are returned as errors without retry.
	Respond(ctx context.Context, history []domain.ChatMessage, searchContext, imageDataURL string) (string, error)
}
