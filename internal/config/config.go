// Package config defines the run configuration and its loading,
// normalization, and validation rules.
package config

import (
	"fmt"
	"strings"

	"edusim/internal/model"
)

// UI mode constants accepted by RunConfig.UIMode.
const (
	UIModeAuto  = "auto"
	UIModeLive  = "live"
	UIModePlain = "plain"
)

// Environment labels accepted by RunConfig.Env.
const (
	EnvLocal = "local"
	EnvCI    = "ci"
)

// RunConfig is the single immutable configuration for one invocation.
// It is built at process start and threaded explicitly.
type RunConfig struct {
	Env        string       `yaml:"env"`
	Scenario   string       `yaml:"scenario"`
	OutputRoot string       `yaml:"output_root"`
	Model      model.Config `yaml:"model"`
	UIMode     string       `yaml:"ui_mode"`
	Verbose    bool         `yaml:"verbose"`
}

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Normalize fills defaults in place.
func Normalize(cfg *RunConfig) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = EnvLocal
	}
	if strings.TrimSpace(cfg.OutputRoot) == "" {
		cfg.OutputRoot = "results"
	}
	if strings.TrimSpace(cfg.UIMode) == "" {
		cfg.UIMode = UIModeAuto
	}
	if strings.TrimSpace(cfg.Model.APIType) == "" {
		if cfg.Model.DisableLanguageModel {
			cfg.Model.APIType = model.APITypeDisabled
		} else {
			cfg.Model.APIType = model.APITypeOpenAI
		}
	}
}

// Validate checks a config for correctness.
func Validate(cfg *RunConfig) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	switch cfg.Env {
	case EnvLocal, EnvCI:
	default:
		add("env", fmt.Sprintf("unsupported env %q", cfg.Env))
	}

	switch cfg.UIMode {
	case UIModeAuto, UIModeLive, UIModePlain:
	default:
		add("ui_mode", fmt.Sprintf("unsupported ui_mode %q", cfg.UIMode))
	}

	if strings.TrimSpace(cfg.OutputRoot) == "" {
		add("output_root", "is required")
	}

	switch cfg.Model.APIType {
	case model.APITypeOpenAI, model.APITypeGemini:
		if cfg.Model.DisableLanguageModel {
			add("model.disable_language_model", fmt.Sprintf("conflicts with api_type %q; use api_type %q", cfg.Model.APIType, model.APITypeDisabled))
		}
		if strings.TrimSpace(cfg.Model.ModelName) == "" {
			add("model.model_name", "is required")
		}
		if strings.TrimSpace(cfg.Model.APIKey) == "" {
			add("model.api_key", fmt.Sprintf("is required for api_type %q (set it in the config or the environment)", cfg.Model.APIType))
		}
	case model.APITypeDisabled:
	case "":
		add("model.api_type", "is required")
	default:
		add("model.api_type", fmt.Sprintf("unsupported api_type %q", cfg.Model.APIType))
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
