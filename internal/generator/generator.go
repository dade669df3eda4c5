// Package generator talks to the language-model backends that voice Uzi.
package generator

import (
	"context"
	"fmt"
	"strings"
)

// Provider names accepted by New
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	defaultGeminiModel    = "gemini-2.0-flash"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
	defaultMaxTokens      = 1024
)

// DefaultSystemPrompt sets the persona every prompt is answered in
const DefaultSystemPrompt = "You are Uzi Doorman, a sarcastic, rebellious teenage worker drone. " +
	"Stay in character, answer in a few short sentences, and keep it friendly underneath the attitude."

// Generator turns a prompt into generated text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a backend
type Config struct {
	Provider     string
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	MaxTokens    int64
	MaxRetries   int
}

// New builds the generator for cfg.Provider
func New(cfg Config) (Generator, error) {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "":
		if cfg.BaseURL == "" {
			cfg.BaseURL = geminiBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = defaultGeminiModel
		}
		return newOpenAIGenerator(cfg), nil
	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = defaultOpenAIModel
		}
		return newOpenAIGenerator(cfg), nil
	case ProviderAnthropic:
		if cfg.Model == "" {
			cfg.Model = defaultAnthropicModel
		}
		return newAnthropicGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", cfg.Provider)
	}
}
