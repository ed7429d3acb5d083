// internal/providers/ollama/provider.go
// Package ollama provides a Generator backed by Ollama-compatible HTTP endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Srimaan215/Roku-AI/internal/logging"
	"github.com/Srimaan215/Roku-AI/internal/providers"
)

// Provider implements providers.Generator using the Ollama chat API.
type Provider struct {
	client  *http.Client
	baseURL string
	model   string
	timeout time.Duration
}

// New constructs a Provider for model at baseURL. Each generation is
// bounded by timeout.
func New(baseURL, model string, timeout time.Duration) *Provider {
	return &Provider{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
	}
}

// chatResponse is the non-streaming /api/chat reply.
type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done            bool  `json:"done"`
	TotalDuration   int64 `json:"total_duration"`
	PromptEvalCount int   `json:"prompt_eval_count"`
	EvalCount       int   `json:"eval_count"`
}

// ollamaTagsResponse defines the structure of the response from the /api/tags endpoint.
type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Name returns "ollama/<model>".
func (p *Provider) Name() string {
	return "ollama/" + p.model
}

// Generate issues one non-streaming chat request.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	messages := req.Messages
	if messages == nil {
		messages = []providers.Message{}
	}
	payload := map[string]any{
		"model":    p.model,
		"messages": messages,
		"options":  buildOptions(req),
		"stream":   false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return providers.GenerateResponse{}, err
	}
	hostID := p.hostIdentifier()
	if pretty, perr := json.MarshalIndent(payload, "", "  "); perr == nil {
		logging.LogRequest("ROKU->LLM", hostID, p.model, "", pretty)
	} else {
		logging.LogRequest("ROKU->LLM", hostID, p.model, "", body)
	}

	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(genCtx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return providers.GenerateResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return providers.GenerateResponse{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.GenerateResponse{}, err
	}
	logging.LogRequest("LLM->ROKU", hostID, p.model, "", respBody)

	if resp.StatusCode != http.StatusOK {
		return providers.GenerateResponse{}, fmt.Errorf("ollama: /api/chat returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return providers.GenerateResponse{}, fmt.Errorf("ollama: decode /api/chat: %w", err)
	}

	modelName := result.Model
	if modelName == "" {
		modelName = p.model
	}
	elapsed := time.Duration(result.TotalDuration)
	if elapsed <= 0 {
		elapsed = time.Since(started)
	}
	return providers.GenerateResponse{
		Text:         result.Message.Content,
		Model:        modelName,
		PromptTokens: result.PromptEvalCount,
		OutputTokens: result.EvalCount,
		Duration:     elapsed,
	}, nil
}

// Ping checks that the server answers and, when it lists models, that the
// configured model is installed.
func (p *Provider) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	endpoint := p.baseURL + "/api/tags"
	logging.LogRequest("ROKU->LLM", p.hostIdentifier(), "", "", map[string]string{"method": http.MethodGet, "url": endpoint})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: /api/tags returned %s", resp.Status)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return err
	}
	if len(tags.Models) == 0 {
		return nil
	}
	for _, m := range tags.Models {
		if m.Name == p.model || strings.TrimSuffix(m.Name, ":latest") == p.model {
			return nil
		}
	}
	return fmt.Errorf("ollama: model %q is not installed", p.model)
}

func buildOptions(req providers.GenerateRequest) map[string]any {
	options := map[string]any{
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	if len(req.Stop) > 0 {
		options["stop"] = req.Stop
	}
	return options
}

func (p *Provider) hostIdentifier() string {
	if u, err := url.Parse(p.baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return p.baseURL
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
