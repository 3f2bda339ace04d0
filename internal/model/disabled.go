package model

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// DisabledModel is the deterministic no-LLM backend. Every completion is
// empty, which flows through the pipeline as empty events.
type DisabledModel struct{}

// SampleText always returns an empty completion.
func (DisabledModel) SampleText(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

const disabledEmbedDim = 16

// DisabledEmbedder derives a unit vector from a hash of the text, so memory
// retrieval stays deterministic and reproducible without a backend.
type DisabledEmbedder struct{}

// Embed returns a deterministic unit vector for the text.
func (DisabledEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))
	vec := make([]float32, disabledEmbedDim)
	var norm float64
	for i := range vec {
		// Two bytes per component, offset to straddle zero.
		raw := binary.LittleEndian.Uint16(digest[(i*2)%len(digest):])
		vec[i] = float32(int32(raw)-math.MaxUint16/2) / float32(math.MaxUint16/2)
		norm += float64(vec[i]) * float64(vec[i])
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}
