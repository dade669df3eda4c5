package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Logging configuration
	Log LogConfig

	// Security configuration
	Security SecurityConfig

	// Discord configuration
	Discord DiscordConfig

	// WhatsApp configuration
	WhatsApp WhatsAppConfig

	// Database configuration (WhatsApp session store)
	Database DatabaseConfig

	// Language-model backend configuration
	Generator GeneratorConfig

	// GitHub commit feed configuration
	GitHub GitHubConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=json text"`
}

// SecurityConfig holds security-specific configuration
type SecurityConfig struct {
	// API Keys - sent by clients of the HTTP surface
	APIKeys []string `env:"API_KEYS" envSeparator:","`
}

// DiscordConfig holds Discord bot configuration
type DiscordConfig struct {
	Enabled bool   `env:"DISCORD_ENABLED" envDefault:"true"`
	Token   string `env:"DISCORD_TOKEN"`
}

// WhatsAppConfig holds WhatsApp-specific configuration
type WhatsAppConfig struct {
	Enabled    bool   `env:"WHATSAPP_ENABLED" envDefault:"false"`
	LogLevel   string `env:"WHATSAPP_LOG_LEVEL" envDefault:"INFO"`
	DeviceName string `env:"WHATSAPP_DEVICE_NAME" envDefault:"Uzi Doorman"` // shown in WhatsApp linked devices
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"file:uzi-whatsapp.db?_foreign_keys=on"`
}

// GeneratorConfig holds language-model backend configuration
type GeneratorConfig struct {
	Provider     string        `env:"GENERATOR_PROVIDER" envDefault:"gemini" validate:"oneof=gemini openai anthropic"`
	APIKey       string        `env:"GENERATOR_API_KEY" validate:"required"`
	BaseURL      string        `env:"GENERATOR_BASE_URL" validate:"omitempty,url"`
	Model        string        `env:"GENERATOR_MODEL"`
	SystemPrompt string        `env:"GENERATOR_SYSTEM_PROMPT"`
	MaxTokens    int64         `env:"GENERATOR_MAX_TOKENS" envDefault:"1024" validate:"min=1"`
	MaxRetries   int           `env:"GENERATOR_MAX_RETRIES" envDefault:"1" validate:"min=0"`
	Timeout      time.Duration `env:"GENERATOR_TIMEOUT" envDefault:"30s"`
}

// GitHubConfig holds the commit feed configuration
type GitHubConfig struct {
	Token   string        `env:"GITHUB_TOKEN"`
	Repo    string        `env:"GITHUB_REPO" envDefault:"coltonsr77/Uzi-Doorman-Bot"`
	APIURL  string        `env:"GITHUB_API_URL" validate:"omitempty,url"`
	Timeout time.Duration `env:"GITHUB_TIMEOUT" envDefault:"10s"`
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	// Try to load .env file (ignore errors - it's optional)
	_ = godotenv.Load(".env")

	return LoadFromEnvironment(nil)
}

// LoadFromEnvironment parses configuration from environ. A nil map reads
// the process environment.
func LoadFromEnvironment(environ map[string]string) (*Config, error) {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Security.APIKeys = compact(cfg.Security.APIKeys)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if !c.Discord.Enabled && !c.WhatsApp.Enabled {
		return fmt.Errorf("at least one chat platform must be enabled")
	}

	if c.Discord.Enabled && c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required when Discord is enabled")
	}

	if c.WhatsApp.Enabled {
		if c.Database.Driver == "" {
			return fmt.Errorf("database driver is required")
		}
		if c.Database.DSN == "" {
			return fmt.Errorf("database DSN is required")
		}
	}

	if owner, name, ok := strings.Cut(c.GitHub.Repo, "/"); !ok || owner == "" || name == "" {
		return fmt.Errorf("GITHUB_REPO must be owner/name, got %q", c.GitHub.Repo)
	}

	// Check for default/insecure API keys
	for _, key := range c.Security.APIKeys {
		if key == "default-api-key" || key == "api-key-123" || len(key) < 8 {
			return fmt.Errorf("insecure or default API key detected: '%s'. Please set secure API keys in environment variables", key)
		}
	}

	return nil
}

// HTTPEnabled reports whether the protected HTTP endpoints are served
func (c *Config) HTTPEnabled() bool {
	return len(c.Security.APIKeys) > 0
}

// Address returns the server address in the format host:port
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
