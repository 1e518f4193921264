package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Role mirrors the provider's chat message roles.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one chat turn sent to the provider.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a single, non-streaming chat completion call.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// CompletionResponse carries the raw text plus reported token usage, used
// by the gateway for cost accounting.
type CompletionResponse struct {
	Content      string
	PromptTokens int
	TotalTokens  int
}

// Provider is the minimal surface the gateway needs from an LLM backend: a
// single synchronous completion call. Streaming, tool-calling, and
// multimodal are out of scope here.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// httpProvider talks to an OpenAI-compatible /chat/completions endpoint
// over plain net/http rather than a vendor SDK, so any compatible backend
// can be configured via base URL alone.
type httpProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider builds a Provider against an OpenAI-compatible endpoint.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) Provider {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &httpProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatCompletionPayload struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatCompletionResult struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func (p *httpProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	body, err := json.Marshal(chatCompletionPayload{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm: provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("llm: provider error %d: %s", resp.StatusCode, string(msg))
	}

	var result chatCompletionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("llm: decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("llm: provider returned no choices")
	}
	return &CompletionResponse{
		Content:      result.Choices[0].Message.Content,
		PromptTokens: result.Usage.PromptTokens,
		TotalTokens:  result.Usage.TotalTokens,
	}, nil
}
