package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     Log     `yaml:"log"`
	DB      DB      `yaml:"db"`
	OpenAI  OpenAI  `yaml:"openai"`
	Answer  Answer  `yaml:"answer"`
	Session Session `yaml:"session"`
	Server  Server  `yaml:"server"`
}

type OpenAI struct {
	Completion ModelConfig     `yaml:"completion" validate:"required"`
	Embedding  EmbeddingConfig `yaml:"embedding" validate:"required"`
}

type ModelConfig struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1" validate:"required"`
	// API token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// Model name
	Model string `yaml:"model" example:"gpt-4o-mini" validate:"required"`
}

type EmbeddingConfig struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1" validate:"required"`
	// API token
	Token string `yaml:"token" validate:"required"`
	// Embedding model name
	Model string `yaml:"model" example:"text-embedding-3-small" validate:"required"`
}

type Answer struct {
	// Minimum cosine similarity for a knowledge document to count as a match
	SimilarityThreshold float64 `yaml:"similarity_threshold" example:"0.6"`
	// Maximum number of documents used for grounding
	TopK int `yaml:"top_k" example:"5"`
}

type Session struct {
	// How often the live summary of an active session is recomputed and persisted
	SummaryIntervalSeconds int `yaml:"summary_interval_seconds" example:"10"`
}

type Server struct {
	// HTTP listen port
	Port string `yaml:"port" example:"8080"`
	// Also serve knowledge tools over MCP stdio
	MCP bool `yaml:"mcp" example:"false"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type DB struct {
	// Use postgres for content, sessions and the knowledge base.
	// When disabled, everything runs on the in-memory adapters.
	Enabled bool `yaml:"enabled" example:"true"`
	// Postgres username
	User string `yaml:"user" example:"postgres"`
	// Postgres password
	Pass string `yaml:"pass"`
	// Postgres host
	Host string `yaml:"host"  example:"localhost:5432"`
	// Postgres database name
	Database string `yaml:"database" example:"salescoach"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.DB.User == "" {
		result.DB.User = "postgres"
	}
	if result.DB.Pass == "" {
		result.DB.Pass = "postgres"
	}
	if result.DB.Host == "" {
		result.DB.Host = "localhost:5432"
	}
	if result.DB.Database == "" {
		result.DB.Database = "salescoach"
	}
	if result.Answer.SimilarityThreshold == 0 {
		result.Answer.SimilarityThreshold = 0.6
	}
	if result.Answer.TopK == 0 {
		result.Answer.TopK = 5
	}
	if result.Session.SummaryIntervalSeconds == 0 {
		result.Session.SummaryIntervalSeconds = 10
	}
	if result.Server.Port == "" {
		result.Server.Port = "8080"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
