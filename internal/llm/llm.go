package llm

import "context"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a chat prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries a chat prompt plus generation parameters.
type Request struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Client abstracts text-generation providers. Only the first-choice text
// output is used.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
