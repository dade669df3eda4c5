package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	apperrors "github.com/coltonsr77/uzi-doorman-bot/internal/errors"
)

type anthropicGenerator struct {
	client    anthropic.Client
	model     string
	system    string
	maxTokens int64
}

func newAnthropicGenerator(cfg Config) *anthropicGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicGenerator{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		system:    cfg.SystemPrompt,
		maxTokens: cfg.MaxTokens,
	}
}

func (g *anthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: g.system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", apperrors.GenerationFailed(fmt.Errorf("messages (%s): %w", g.model, err))
	}

	// A reply without text blocks is an empty answer, not a failure.
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	return b.String(), nil
}
