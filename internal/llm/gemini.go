package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/config"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiRewriter rewrites drafts with Google's Gemini models.
type GeminiRewriter struct {
	client   *genai.Client
	config   *config.GeminiConfig
	rewriter *config.RewriterConfig
}

// NewGeminiRewriter connects to the Gemini API. Without an API key it
// returns ErrDisabled.
func NewGeminiRewriter(ctx context.Context, cfg *config.GeminiConfig, rw *config.RewriterConfig) (*GeminiRewriter, error) {
	if cfg.APIKey == "" {
		return nil, ErrDisabled
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiRewriter{client: client, config: cfg, rewriter: rw}, nil
}

// Rewrite turns the draft into a natural reply, retrying on 429.
func (g *GeminiRewriter) Rewrite(ctx context.Context, req model.RewriteRequest) (string, error) {
	if g.rewriter.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.rewriter.Timeout)
		defer cancel()
	}

	system, user := BuildPrompt(req)

	m := g.client.GenerativeModel(g.config.Model)
	m.SetTemperature(float32(g.config.Temperature))
	m.SetTopP(float32(g.config.TopP))
	m.SetMaxOutputTokens(int32(g.config.MaxTokens))
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	raw, err := withRetry(ctx, g.rewriter.MaxAttempts, g.rewriter.BackoffBase, func(ctx context.Context) (string, error) {
		res, err := m.GenerateContent(ctx, genai.Text(user))
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		return responseText(res), nil
	})
	if err != nil {
		return "", err
	}

	return finish(raw, g.rewriter.MaxReplyChar)
}

// Close releases the underlying client.
func (g *GeminiRewriter) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func responseText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
