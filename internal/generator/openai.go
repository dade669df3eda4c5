package generator

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	apperrors "github.com/coltonsr77/uzi-doorman-bot/internal/errors"
)

// openaiGenerator serves both OpenAI and Gemini's OpenAI-compatible endpoint
type openaiGenerator struct {
	client    openai.Client
	model     string
	system    string
	maxTokens int64
}

func newOpenAIGenerator(cfg Config) *openaiGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &openaiGenerator{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		system:    cfg.SystemPrompt,
		maxTokens: cfg.MaxTokens,
	}
}

func (g *openaiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(g.system),
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(g.maxTokens),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", apperrors.GenerationFailed(fmt.Errorf("chat completion (%s): %w", g.model, err))
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.EmptyResponse(g.model)
	}

	return resp.Choices[0].Message.Content, nil
}
