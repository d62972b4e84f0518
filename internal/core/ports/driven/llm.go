package driven

import (
	"context"

	"github.com/custodia-labs/boardsense/internal/core/domain"
)

// ChatCompleter conducts multi-turn conversations with a vision-capable
// chat completion provider. Messages may carry an attached image as a
// base64 data URL; implementations translate that into the provider's
// mixed text+image content format.
//
// Implementations may include:
//   - OpenAI (gpt-4o, gpt-4o-mini)
//   - Ollama vision models (llama3.2-vision)
//   - OpenAI-compatible local inference servers
type ChatCompleter interface {
	// Chat sends the ordered conversation and returns the first
	// candidate's text. Provider errors are returned as-is; callers decide
	// retry policy (the chat orchestrator does not retry).
	Chat(ctx context.Context, messages []domain.ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
