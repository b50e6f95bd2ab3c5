package repositories

import "context"

// LanguageModel abstracts the chat/LLM provider behind the correction
// and reply stages.
type LanguageModel interface {
	// Correct returns the grammatically corrected form of text, in the
	// same language. Already-correct input passes through unchanged.
	Correct(ctx context.Context, text string, language string) (string, error)
	// Reply generates the next conversational turn for message, given
	// at most the recent history, responding in the target language.
	Reply(ctx context.Context, message string, history []ChatMessage, language string) (string, error)
}

// ChatMessage represents a single message in a conversation
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role defines the type of message sender
type Role string

const (
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
)
