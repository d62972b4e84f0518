package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/boardsense/internal/core/domain"
)

func TestMessageContent_PlainText(t *testing.T) {
	content := messageContent(domain.ChatMessage{
		Role:    domain.RoleUser,
		Content: "what is on the board?",
	})

	assert.Equal(t, "what is on the board?", content)
}

func TestMessageContent_WithImage(t *testing.T) {
	content := messageContent(domain.ChatMessage{
		Role:          domain.RoleUser,
		Content:       "describe this region",
		AttachedImage: "data:image/png;base64,aGVsbG8=",
	})

	parts, ok := content.([]contentPart)
	require.True(t, ok)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].Type)
	assert.Equal(t, "describe this region", parts[0].Text)
	assert.Equal(t, "image_url", parts[1].Type)
	require.NotNil(t, parts[1].ImageURL)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", parts[1].ImageURL.URL)
}

func TestChatCompletionMsg_WireFormat(t *testing.T) {
	msg := chatCompletionMsg{
		Role: domain.RoleUser,
		Content: messageContent(domain.ChatMessage{
			Role:          domain.RoleUser,
			Content:       "look",
			AttachedImage: "data:image/png;base64,xyz",
		}),
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"role": "user",
		"content": [
			{"type": "text", "text": "look"},
			{"type": "image_url", "image_url": {"url": "data:image/png;base64,xyz"}}
		]
	}`, string(data))
}
