package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultEmbedModel    = "text-embedding-3-small"
)

// OpenAIModel samples text from an OpenAI-compatible chat completions API.
type OpenAIModel struct {
	APIKey  string
	BaseURL string
	Client  HTTPDoer
	Model   string
}

// NewOpenAIModel constructs an OpenAI-compatible model client.
func NewOpenAIModel(model, apiKey, baseURL string, client HTTPDoer) (*OpenAIModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultOpenAIModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &OpenAIModel{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
		Model:   model,
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SampleText sends the prompt as a single user message and returns the
// first choice.
func (m *OpenAIModel) SampleText(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    m.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}
	body, err := m.post(ctx, "/chat/completions", payload)
	if err != nil {
		return "", err
	}
	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("chat completion: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return decoded.Choices[0].Message.Content, nil
}

func (m *OpenAIModel) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("call %s: status %d: %s", path, resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// OpenAIEmbedder generates vectors via the OpenAI embeddings API.
type OpenAIEmbedder struct {
	model *OpenAIModel
	name  string
}

// NewOpenAIEmbedder constructs the embedder sharing the chat client's
// transport and credentials.
func NewOpenAIEmbedder(apiKey, baseURL string, client HTTPDoer) (*OpenAIEmbedder, error) {
	m, err := NewOpenAIModel(defaultEmbedModel, apiKey, baseURL, client)
	if err != nil {
		return nil, err
	}
	return &OpenAIEmbedder{model: m, name: defaultEmbedModel}, nil
}

type embedRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Embed generates a vector for the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(embedRequest{Input: text, Model: e.name})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}
	body, err := e.model.post(ctx, "/embeddings", payload)
	if err != nil {
		return nil, err
	}
	var decoded embedResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("embed: %s", decoded.Error.Message)
	}
	if len(decoded.Data) == 0 {
		return nil, fmt.Errorf("embed: no embeddings returned")
	}
	return decoded.Data[0].Embedding, nil
}
