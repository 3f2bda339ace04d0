package model

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"testing"
)

type stubDoer struct {
	status int
	body   string
	seen   *http.Request
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.seen = req
	return &http.Response{
		StatusCode: d.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(d.body))),
	}, nil
}

func TestOpenAISampleText(t *testing.T) {
	doer := &stubDoer{status: 200, body: `{"choices":[{"message":{"role":"assistant","content":"Agree"}}]}`}
	m, err := NewOpenAIModel("test-model", "key", "https://example.test/v1", doer)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	got, err := m.SampleText(context.Background(), "pick one")
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if got != "Agree" {
		t.Fatalf("got %q, want Agree", got)
	}
	if doer.seen.URL.String() != "https://example.test/v1/chat/completions" {
		t.Fatalf("unexpected url %s", doer.seen.URL)
	}
	if auth := doer.seen.Header.Get("Authorization"); auth != "Bearer key" {
		t.Fatalf("unexpected auth header %q", auth)
	}
}

func TestOpenAISampleTextErrorStatus(t *testing.T) {
	doer := &stubDoer{status: 500, body: `boom`}
	m, _ := NewOpenAIModel("test-model", "key", "", doer)
	if _, err := m.SampleText(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestOpenAIEmbed(t *testing.T) {
	doer := &stubDoer{status: 200, body: `{"data":[{"embedding":[0.5,0.5]}]}`}
	e, err := NewOpenAIEmbedder("key", "", doer)
	if err != nil {
		t.Fatalf("new embedder: %v", err)
	}
	vec, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.5 {
		t.Fatalf("unexpected vector %v", vec)
	}
}

func TestNewOpenAIEmbedderRequiresKey(t *testing.T) {
	if _, err := NewOpenAIEmbedder("", "", nil); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestDisabledModelIsEmptyAndDeterministic(t *testing.T) {
	m := DisabledModel{}
	out, err := m.SampleText(context.Background(), "anything")
	if err != nil || out != "" {
		t.Fatalf("disabled model should return empty text, got %q err %v", out, err)
	}

	e := DisabledEmbedder{}
	a, err := e.Embed(context.Background(), "same text")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, _ := e.Embed(context.Background(), "same text")
	c, _ := e.Embed(context.Background(), "other text")
	var norm float64
	same := true
	diff := false
	for i := range a {
		norm += float64(a[i]) * float64(a[i])
		if a[i] != b[i] {
			same = false
		}
		if a[i] != c[i] {
			diff = true
		}
	}
	if !same {
		t.Fatalf("embedding is not deterministic")
	}
	if !diff {
		t.Fatalf("different texts should embed differently")
	}
	if math.Abs(norm-1) > 1e-3 {
		t.Fatalf("expected unit vector, norm^2 = %f", norm)
	}
}

func TestNewDisabled(t *testing.T) {
	backend, err := New(context.Background(), Config{DisableLanguageModel: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := backend.Model.(DisabledModel); !ok {
		t.Fatalf("expected disabled model, got %T", backend.Model)
	}
}

func TestNewGeminiBackend(t *testing.T) {
	if _, err := NewGeminiBackend(context.Background(), "some-model", ""); err == nil {
		t.Fatalf("expected missing key error")
	}
	backend, err := NewGeminiBackend(context.Background(), "", "key")
	if err != nil {
		t.Fatalf("new gemini backend: %v", err)
	}
	if _, ok := backend.Model.(*GeminiModel); !ok {
		t.Fatalf("expected gemini model, got %T", backend.Model)
	}
	if _, ok := backend.Embedder.(*GeminiEmbedder); !ok {
		t.Fatalf("expected gemini embedder, got %T", backend.Embedder)
	}
}

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := New(context.Background(), Config{APIType: "openai"}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := New(context.Background(), Config{APIType: "weird"}); err == nil {
		t.Fatalf("expected unsupported api_type error")
	}
}
