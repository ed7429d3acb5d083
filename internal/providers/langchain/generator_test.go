package langchain

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/Srimaan215/Roku-AI/internal/providers"
)

const completion = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "llama-3.2-3b",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "You have two meetings."}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 120, "completion_tokens": 6, "total_tokens": 126}
}`

func TestGenerateAgainstOpenAICompatibleServer(t *testing.T) {
	bodies := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/chat/completions":
			raw, _ := io.ReadAll(r.Body)
			var body map[string]any
			assert.NoError(t, json.Unmarshal(raw, &body))
			bodies <- body
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, completion)
		case "/v1/models":
			assert.Equal(t, "Bearer "+placeholderToken, r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `{"data":[]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g, err := NewOpenAI(srv.URL+"/v1/", "", "llama-3.2-3b", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "openai/llama-3.2-3b", g.Name())
	require.NoError(t, g.Ping(context.Background()))

	resp, err := g.Generate(context.Background(), providers.GenerateRequest{
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: "You are Roku."},
			{Role: providers.RoleUser, Content: "What's on today?"},
			{Role: providers.RoleAssistant, Content: `{"name": "get_calendar", "parameters": {"date": "today"}}`},
			{Role: providers.RoleTool, Content: "Events for Wednesday"},
		},
		MaxTokens:   300,
		Temperature: 0.7,
		Stop:        []string{"<|eot_id|>"},
	})
	require.NoError(t, err)
	assert.Equal(t, "You have two meetings.", resp.Text)
	assert.Equal(t, 120, resp.PromptTokens)
	assert.Equal(t, 6, resp.OutputTokens)

	body := <-bodies
	assert.Equal(t, "llama-3.2-3b", body["model"])
	assert.Equal(t, 0.7, body["temperature"])
	assert.Equal(t, []any{"<|eot_id|>"}, body["stop"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)
	roles := make([]string, 0, len(msgs))
	for _, m := range msgs {
		roles = append(roles, m.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom"}}`)
	}))
	defer srv.Close()

	g, err := NewOpenAI(srv.URL+"/v1", "key", "m", 5*time.Second)
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), providers.GenerateRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	assert.Error(t, err)
	assert.Error(t, g.Ping(context.Background()))
}

func TestToolEvidenceBecomesHumanTurn(t *testing.T) {
	got := toMessageContent([]providers.Message{{Role: providers.RoleTool, Content: "sunny"}})
	require.Len(t, got, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, got[0].Role)
	assert.Equal(t, llms.TextContent{Text: "Tool result:\nsunny"}, got[0].Parts[0])
}
