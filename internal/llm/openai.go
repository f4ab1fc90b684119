package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/config"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

// OpenAIRewriter rewrites drafts through any OpenAI-compatible chat
// completions endpoint.
type OpenAIRewriter struct {
	config     *config.OpenAIConfig
	rewriter   *config.RewriterConfig
	httpClient *http.Client
}

// NewOpenAIRewriter creates a rewriter for an OpenAI-compatible API
func NewOpenAIRewriter(cfg *config.OpenAIConfig, rw *config.RewriterConfig) *OpenAIRewriter {
	return &OpenAIRewriter{
		config:     cfg,
		rewriter:   rw,
		httpClient: &http.Client{},
	}
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Rewrite turns the draft into a natural reply, retrying on 429.
func (r *OpenAIRewriter) Rewrite(ctx context.Context, req model.RewriteRequest) (string, error) {
	if r.config.APIKey == "" {
		return "", ErrDisabled
	}

	if r.rewriter.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.rewriter.Timeout)
		defer cancel()
	}

	system, user := BuildPrompt(req)
	completion := ChatCompletionRequest{
		Model: r.config.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: r.config.Temperature,
		TopP:        r.config.TopP,
		MaxTokens:   r.config.MaxTokens,
	}

	raw, err := withRetry(ctx, r.rewriter.MaxAttempts, r.rewriter.BackoffBase, func(ctx context.Context) (string, error) {
		resp, err := r.ChatCompletion(ctx, completion)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyOutput
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}

	return finish(raw, r.rewriter.MaxReplyChar)
}

// ChatCompletion performs a chat completion request
func (r *OpenAIRewriter) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(r.config.APIBase, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.config.APIKey))

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}
