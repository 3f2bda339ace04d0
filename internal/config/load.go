package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"edusim/internal/model"
)

// Parse decodes a config document. Unknown fields and multiple YAML
// documents are rejected.
func Parse(data []byte) (RunConfig, error) {
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parse config: %w", err)
	}
	// A yaml.Node accepts any document shape, so the trailing probe is not
	// tripped up by KnownFields.
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		return RunConfig{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
	}
	return cfg, nil
}

// Load reads, parses, normalizes, and validates a config file. Environment
// credentials are merged before validation.
func Load(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return RunConfig{}, err
	}
	MergeEnv(&cfg)
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// FromEnv builds a config entirely from the environment, for invocations
// without a config file. The result is normalized but not yet validated so
// callers can apply flag overrides first.
func FromEnv() RunConfig {
	var cfg RunConfig
	cfg.Env = strings.TrimSpace(os.Getenv("EDUSIM_ENV"))
	MergeEnv(&cfg)
	Normalize(&cfg)
	return cfg
}

// MergeEnv fills credential fields from the environment when the config
// leaves them empty. Explicit config values always win.
func MergeEnv(cfg *RunConfig) {
	if strings.TrimSpace(cfg.Model.APIKey) != "" {
		return
	}
	switch cfg.Model.APIType {
	case model.APITypeGemini:
		cfg.Model.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
	default:
		cfg.Model.APIKey = firstEnv("OPENAI_API_KEY")
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}
