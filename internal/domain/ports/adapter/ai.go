package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// AIServiceAdapter is the port for the command generator. The reply is
// raw text expected (not guaranteed) to follow the structured command
// grammar; parsing it is the pipeline's job, never the adapter's.
type AIServiceAdapter interface {
	ListModels(ctx context.Context) ([]string, error)

	// Chat returns only the assistant text
	Chat(ctx context.Context, model string, messages []Message) (string, error)
}
