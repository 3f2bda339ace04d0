// Package model selects and wraps the language-model backend: text sampling
// and embedding. A disabled mode produces a deterministic, non-LLM backend so
// the whole pipeline runs without credentials.
package model

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Model produces one completion per prompt.
type Model interface {
	// SampleText returns a single completion for the prompt.
	SampleText(ctx context.Context, prompt string) (string, error)
}

// Embedder converts text into a numeric vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HTTPDoer abstracts HTTP clients used by providers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Recognised APIType values.
const (
	APITypeOpenAI   = "openai"
	APITypeGemini   = "gemini"
	APITypeDisabled = "disabled"
)

// Config selects the backend and its credentials.
type Config struct {
	APIType              string `yaml:"api_type"`
	ModelName            string `yaml:"model_name"`
	APIKey               string `yaml:"api_key"`
	BaseURL              string `yaml:"base_url"`
	DisableLanguageModel bool   `yaml:"disable_language_model"`
}

// Backend bundles the sampling model with its embedder.
type Backend struct {
	Model    Model
	Embedder Embedder
}

// New builds a backend from the config. API keys fall back to the
// environment: OPENAI_API_KEY for openai, GEMINI_API_KEY or GOOGLE_API_KEY
// for gemini.
func New(ctx context.Context, cfg Config) (Backend, error) {
	if cfg.DisableLanguageModel {
		return Backend{Model: DisabledModel{}, Embedder: DisabledEmbedder{}}, nil
	}
	apiType := strings.ToLower(strings.TrimSpace(cfg.APIType))
	switch apiType {
	case APITypeDisabled:
		return Backend{Model: DisabledModel{}, Embedder: DisabledEmbedder{}}, nil
	case "", APITypeOpenAI:
		key := resolveKey(cfg.APIKey, "OPENAI_API_KEY")
		if key == "" {
			return Backend{}, fmt.Errorf("openai backend: OPENAI_API_KEY is required")
		}
		m, err := NewOpenAIModel(cfg.ModelName, key, cfg.BaseURL, nil)
		if err != nil {
			return Backend{}, err
		}
		e, err := NewOpenAIEmbedder(key, cfg.BaseURL, nil)
		if err != nil {
			return Backend{}, err
		}
		return Backend{Model: m, Embedder: e}, nil
	case APITypeGemini:
		key := resolveKey(cfg.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
		if key == "" {
			return Backend{}, fmt.Errorf("gemini backend: GEMINI_API_KEY or GOOGLE_API_KEY is required")
		}
		return NewGeminiBackend(ctx, cfg.ModelName, key)
	default:
		return Backend{}, fmt.Errorf("unsupported api_type %q", cfg.APIType)
	}
}

func resolveKey(explicit string, envNames ...string) string {
	if strings.TrimSpace(explicit) != "" {
		return strings.TrimSpace(explicit)
	}
	for _, name := range envNames {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}
