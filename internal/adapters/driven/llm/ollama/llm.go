// Package ollama provides a chat completion adapter using Ollama.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
)

// Ensure ChatService implements the interface.
var _ driven.ChatCompleter = (*ChatService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2-vision"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama chat service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the chat model to use (default: llama3.2-vision). The model
	// must support image input for messages carrying board captures.
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// ChatService provides chat completions using a local Ollama server.
type ChatService struct {
	client  *http.Client
	baseURL string
	model   string
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

// chatMessage is the Ollama chat message format. Images are raw base64
// payloads without a data URL prefix.
type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// NewChatService creates a new Ollama chat service. No credential is
// required; the server is assumed local.
func NewChatService(cfg Config) *ChatService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &ChatService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// Chat conducts a multi-turn conversation and returns the assistant reply.
func (s *ChatService) Chat(ctx context.Context, messages []domain.ChatMessage, opts driven.ChatOptions) (string, error) {
	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = wireMessage(msg)
	}

	reqBody := chatRequest{
		Model:    s.model,
		Messages: chatMessages,
		Stream:   false,
	}

	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		reqBody.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return chatResp.Message.Content, nil
}

// wireMessage builds the wire form of a message. An attached image data URL
// is stripped to its base64 payload, which is what /api/chat expects.
func wireMessage(msg domain.ChatMessage) chatMessage {
	wire := chatMessage{
		Role:    msg.Role,
		Content: msg.Content,
	}
	if msg.AttachedImage != "" {
		wire.Images = []string{stripDataURL(msg.AttachedImage)}
	}
	return wire
}

// stripDataURL removes a "data:<mime>;base64," prefix if present.
func stripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ModelName returns the name of the chat model being used.
func (s *ChatService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *ChatService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
