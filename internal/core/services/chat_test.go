package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
)

func configWithKey() *mockConfig {
	cfg := newMockConfig()
	cfg.values[driven.ConfigKeyAPIKey] = "sk-test"
	return cfg
}

func TestBuildMessages_ContextFramingFirst(t *testing.T) {
	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "what's on my board?"},
	}

	messages := BuildMessages(history, "alpha beta gamma", "")

	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Contains(t, messages[0].Content, "alpha beta gamma")
	assert.Contains(t, messages[0].Content, "whiteboard")
	assert.Equal(t, history[0], messages[1])
}

func TestBuildMessages_HistoryOrderPreserved(t *testing.T) {
	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "first"},
		{Role: domain.RoleAssistant, Content: "second"},
		{Role: domain.RoleUser, Content: "third"},
	}

	messages := BuildMessages(history, "", "")

	require.Len(t, messages, 3)
	for i := range history {
		assert.Equal(t, history[i], messages[i])
	}
}

func TestBuildMessages_ImageIsFinalUserTurn(t *testing.T) {
	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "question"},
	}

	messages := BuildMessages(history, "context", "data:image/png;base64,AAAA")

	require.Len(t, messages, 3)
	last := messages[len(messages)-1]
	assert.Equal(t, domain.RoleUser, last.Role)
	assert.NotEmpty(t, last.Content)
	assert.Equal(t, "data:image/png;base64,AAAA", last.AttachedImage)
}

func TestBuildMessages_NoContextNoImage(t *testing.T) {
	messages := BuildMessages(nil, "", "")
	assert.Empty(t, messages)
}

func TestChat_Respond(t *testing.T) {
	completer := &mockCompleter{reply: "here is your answer"}
	chat := NewChat(completer, configWithKey())

	reply, err := chat.Respond(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hello"},
	}, "board text", "")

	require.NoError(t, err)
	assert.Equal(t, "here is your answer", reply)
	assert.Equal(t, chatMaxTokens, completer.opts.MaxTokens)
	assert.InDelta(t, chatTemperature, completer.opts.Temperature, 1e-9)
}

func TestChat_Respond_MissingAPIKey(t *testing.T) {
	// No completer could be built and no key is configured.
	chat := NewChat(nil, newMockConfig())

	reply, err := chat.Respond(context.Background(), nil, "", "")

	// Missing credential is a user-facing assistant message, not an error.
	require.NoError(t, err)
	assert.True(t, strings.Contains(reply, "API key"))
}

func TestChat_Respond_CompleterTrumpsEmptyConfigKey(t *testing.T) {
	// The credential may come from the environment rather than the config
	// store; a working completer means it was resolved at wiring time.
	completer := &mockCompleter{reply: "answered"}
	chat := NewChat(completer, newMockConfig())

	reply, err := chat.Respond(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hello"},
	}, "", "")

	require.NoError(t, err)
	assert.Equal(t, "answered", reply)
	assert.NotNil(t, completer.received)
}

func TestChat_Respond_EmptyReplyFallback(t *testing.T) {
	completer := &mockCompleter{reply: ""}
	chat := NewChat(completer, configWithKey())

	reply, err := chat.Respond(context.Background(), nil, "context", "")

	require.NoError(t, err)
	assert.Equal(t, NoResponseFallback, reply)
}

func TestChat_Respond_ProviderErrorPropagates(t *testing.T) {
	completer := &mockCompleter{err: errDeliberate}
	chat := NewChat(completer, configWithKey())

	_, err := chat.Respond(context.Background(), nil, "context", "")

	assert.ErrorIs(t, err, errDeliberate)
}

func TestChat_Respond_NilCompleter(t *testing.T) {
	chat := NewChat(nil, configWithKey())

	_, err := chat.Respond(context.Background(), nil, "", "")

	assert.ErrorIs(t, err, domain.ErrChatUnavailable)
}

func TestChat_Respond_NilConfigSkipsKeyCheck(t *testing.T) {
	// Without a config store the key check is the provider's problem;
	// the orchestrator must not panic.
	completer := &mockCompleter{reply: "ok"}
	chat := NewChat(completer, nil)

	reply, err := chat.Respond(context.Background(), nil, "", "")

	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}
