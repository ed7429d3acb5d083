// internal/providers/provider.go

// Package providers defines the interface for text generation backends.
// The orchestration loop drives every model through Generator, regardless
// of the underlying implementation (Ollama, an OpenAI-compatible server).
package providers

import (
	"context"
	"time"
)

// Roles used in Message.Role.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single entry in the conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest holds one non-streaming generation.
type GenerateRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
	Stop        []string
}

// GenerateResponse is the model output plus the usage figures backends
// report.
type GenerateResponse struct {
	Text         string
	Model        string
	PromptTokens int
	OutputTokens int
	Duration     time.Duration
}

// Generator is implemented by every model backend.
type Generator interface {
	// Generate performs one completion. Implementations honor ctx
	// cancellation.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	// Name identifies the backend and model, e.g. "ollama/llama3.2".
	Name() string
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close cleans up any resources used by the provider.
	Close() error
}
