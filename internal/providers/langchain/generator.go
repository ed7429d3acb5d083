// Package langchain adapts any langchaingo llms.Model, and in particular
// OpenAI-compatible servers, to providers.Generator.
package langchain

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/Srimaan215/Roku-AI/internal/logging"
	"github.com/Srimaan215/Roku-AI/internal/providers"
)

// placeholderToken satisfies the client for local servers that ignore auth.
const placeholderToken = "sk-no-key-required"

// Generator wraps an llms.Model.
type Generator struct {
	model     llms.Model
	modelName string
	baseURL   string
	token     string
	client    *http.Client
}

// New wraps an existing model. Ping is a no-op without a base URL.
func New(model llms.Model, modelName string) *Generator {
	return &Generator{model: model, modelName: modelName, client: &http.Client{Timeout: 5 * time.Second}}
}

// NewOpenAI builds a generator for an OpenAI-compatible endpoint.
func NewOpenAI(baseURL, apiKey, modelName string, timeout time.Duration) (*Generator, error) {
	token := strings.TrimSpace(apiKey)
	if token == "" {
		token = placeholderToken
	}
	httpClient := &http.Client{Timeout: timeout}
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(modelName),
		openai.WithHTTPClient(httpClient),
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai: create client: %w", err)
	}
	g := New(llm, modelName)
	g.baseURL = baseURL
	g.token = token
	return g, nil
}

// Name returns "openai/<model>".
func (g *Generator) Name() string {
	return "openai/" + g.modelName
}

// Generate converts the conversation to langchaingo messages and runs one
// completion.
func (g *Generator) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	messages := toMessageContent(req.Messages)
	options := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		options = append(options, llms.WithMaxTokens(req.MaxTokens))
	}
	if len(req.Stop) > 0 {
		options = append(options, llms.WithStopWords(req.Stop))
	}

	logging.LogRequest("ROKU->LLM", g.host(), g.modelName, "", req.Messages)
	started := time.Now()
	resp, err := g.model.GenerateContent(ctx, messages, options...)
	elapsed := time.Since(started)
	if err != nil {
		return providers.GenerateResponse{}, fmt.Errorf("openai: generate: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return providers.GenerateResponse{}, fmt.Errorf("openai: generate: empty response")
	}
	choice := resp.Choices[0]
	logging.LogRequest("LLM->ROKU", g.host(), g.modelName, "", choice.Content)

	out := providers.GenerateResponse{
		Text:     choice.Content,
		Model:    g.modelName,
		Duration: elapsed,
	}
	if info := choice.GenerationInfo; info != nil {
		out.PromptTokens = intFrom(info, "PromptTokens", "input_tokens")
		out.OutputTokens = intFrom(info, "CompletionTokens", "output_tokens")
	}
	return out, nil
}

// toMessageContent maps roles onto langchaingo message types. Tool
// evidence travels as a human turn; the OpenAI tool role requires a native
// tool call id that the text protocol does not carry.
func toMessageContent(messages []providers.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case providers.RoleSystem:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))
		case providers.RoleAssistant:
			out = append(out, llms.TextParts(llms.ChatMessageTypeAI, m.Content))
		case providers.RoleTool:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, "Tool result:\n"+m.Content))
		default:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		}
	}
	return out
}

func intFrom(info map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := info[k].(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

func (g *Generator) host() string {
	if g.baseURL == "" {
		return "api.openai.com"
	}
	return g.baseURL
}

// Ping lists models on the endpoint. Wrapped models without a base URL
// are assumed reachable.
func (g *Generator) Ping(ctx context.Context) error {
	if g.baseURL == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai: /models returned %s", resp.Status)
	}
	return nil
}

// Close releases any resources held by the generator.
func (g *Generator) Close() error {
	g.client.CloseIdleConnections()
	return nil
}
