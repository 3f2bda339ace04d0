package memory

import (
	"context"
	"path/filepath"
	"testing"

	"edusim/internal/model"
)

func testBank(t *testing.T) *Bank {
	t.Helper()
	bank, err := NewBank(filepath.Join(t.TempDir(), "memories.db"), model.DisabledEmbedder{})
	if err != nil {
		t.Fatalf("new bank: %v", err)
	}
	t.Cleanup(func() { _ = bank.Close() })
	return bank
}

func TestAddAndAll(t *testing.T) {
	bank := testBank(t)
	ctx := context.Background()
	if err := bank.Add(ctx, "Leo", "Leo loves soccer"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := bank.Add(ctx, "Leo", "Leo failed a math test"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := bank.Add(ctx, "Sam", "Sam is new at school"); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := bank.All(ctx, "Leo")
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all[0] != "Leo loves soccer" {
		t.Fatalf("unexpected memories: %v", all)
	}
}

func TestRetrieveRanksExactTextFirst(t *testing.T) {
	bank := testBank(t)
	ctx := context.Background()
	texts := []string{"the cafeteria serves pizza", "Leo was mocked at recess", "homework is due Friday"}
	for _, text := range texts {
		if err := bank.Add(ctx, "Leo", text); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	// The hash embedder gives identical text similarity 1.
	got, err := bank.Retrieve(ctx, "Leo", "Leo was mocked at recess", 2)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Content != "Leo was mocked at recess" {
		t.Fatalf("expected exact match first, got %q", got[0].Content)
	}
}

func TestRetrieveScopedToOwner(t *testing.T) {
	bank := testBank(t)
	ctx := context.Background()
	_ = bank.Add(ctx, "Leo", "a memory")
	got, err := bank.Retrieve(ctx, "Sam", "a memory", 5)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no memories for Sam, got %v", got)
	}
}

func TestReset(t *testing.T) {
	bank := testBank(t)
	ctx := context.Background()
	_ = bank.Add(ctx, "Leo", "one")
	_ = bank.Add(ctx, "Sam", "two")
	if err := bank.Reset(ctx, "Leo"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	leo, _ := bank.All(ctx, "Leo")
	sam, _ := bank.All(ctx, "Sam")
	if len(leo) != 0 || len(sam) != 1 {
		t.Fatalf("reset scoping wrong: leo=%v sam=%v", leo, sam)
	}
	if err := bank.Reset(ctx, ""); err != nil {
		t.Fatalf("reset all: %v", err)
	}
	sam, _ = bank.All(ctx, "Sam")
	if len(sam) != 0 {
		t.Fatalf("expected empty bank, got %v", sam)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1, 3.5}
	got := decodeVector(encodeVector(vec))
	if len(got) != 3 || got[0] != 0.25 || got[1] != -1 || got[2] != 3.5 {
		t.Fatalf("round trip mismatch: %v", got)
	}
}
