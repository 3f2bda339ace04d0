package model

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel      = "gemini-2.0-flash"
	defaultGeminiEmbedModel = "gemini-embedding-001"
)

// GeminiModel samples text through the Google GenAI client.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// GeminiEmbedder embeds text through the Google GenAI client.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend builds the Gemini model and embedder over one client.
func NewGeminiBackend(ctx context.Context, modelName, apiKey string) (Backend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Backend{}, fmt.Errorf("gemini api key is required")
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return Backend{}, fmt.Errorf("create genai client: %w", err)
	}
	return Backend{
		Model:    &GeminiModel{client: client, model: modelName},
		Embedder: &GeminiEmbedder{client: client, model: defaultGeminiEmbedModel},
	}, nil
}

// SampleText returns one completion for the prompt.
func (m *GeminiModel) SampleText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	result, err := m.client.Models.GenerateContent(ctx, m.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

// Embed generates a vector for the given text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType: "SEMANTIC_SIMILARITY",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("gemini embed: no embeddings returned")
	}
	return result.Embeddings[0].Values, nil
}
