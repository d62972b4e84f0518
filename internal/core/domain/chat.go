package domain

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in a conversation. Conversations are
// append-only ordered sequences owned by the chat surface for the session
// lifetime; they are not persisted.
type ChatMessage struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// AttachedImage is an optional base64 data URL carried alongside the
	// text, used to ground a turn in a canvas screenshot.
	AttachedImage string `json:"attachedImage,omitempty"`
}

// IsValidRole reports whether the role is recognised.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
