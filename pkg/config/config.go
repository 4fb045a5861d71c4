// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the chat service needs at startup.
type Config struct {
	Addr string `env:"CHATD_ADDR" envDefault:":8001"`

	Provider string `env:"CHATD_PROVIDER" envDefault:"openai"`
	Model    string `env:"CHATD_MODEL" envDefault:"llama-3.3-70b-versatile"`
	APIKey   string `env:"GROQ_API_KEY"`
	BaseURL  string `env:"CHATD_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`

	ToolBackendURL     string        `env:"TOOL_BACKEND_URL" envDefault:"http://localhost:8000"`
	ToolBackendTimeout time.Duration `env:"TOOL_BACKEND_TIMEOUT" envDefault:"30s"`

	ToolTemperature   float64 `env:"CHATD_TOOL_TEMPERATURE" envDefault:"0.3"`
	AnswerTemperature float64 `env:"CHATD_ANSWER_TEMPERATURE" envDefault:"0.7"`
	MaxTokens         int     `env:"CHATD_MAX_TOKENS" envDefault:"500"`
}

// Load reads a .env file when present, then parses the environment.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
