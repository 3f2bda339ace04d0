// Package memory persists per-agent associative memories in SQLite with
// embedding vectors for similarity retrieval.
package memory

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"edusim/internal/model"
)

// Bank wraps a SQLite connection holding agent memories.
type Bank struct {
	db       *sql.DB
	embedder model.Embedder
}

// NewBank opens (or creates) the database and runs migrations. Use
// "file::memory:?cache=shared" or a temp path for tests.
func NewBank(path string, embedder model.Embedder) (*Bank, error) {
	if embedder == nil {
		return nil, fmt.Errorf("memory: embedder is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("memory: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("memory: open db: %w", err)
	}

	// Single connection avoids write contention at this scale.
	db.SetMaxOpenConns(1)

	b := &Bank{db: db, embedder: embedder}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("memory: migrate: %w", err)
	}
	return b, nil
}

func (b *Bank) migrate() error {
	_, err := b.db.Exec(`
		CREATE TABLE IF NOT EXISTS memories (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			owner      TEXT NOT NULL,
			content    TEXT NOT NULL,
			vector     BLOB NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_memories_owner ON memories(owner);
	`)
	return err
}

// Close releases the underlying connection.
func (b *Bank) Close() error {
	return b.db.Close()
}

// Add embeds and stores one memory for an owner.
func (b *Bank) Add(ctx context.Context, owner, content string) error {
	vec, err := b.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("memory: embed: %w", err)
	}
	_, err = b.db.ExecContext(ctx,
		`INSERT INTO memories (owner, content, vector, created_at) VALUES (?, ?, ?, ?)`,
		owner, content, encodeVector(vec), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("memory: insert: %w", err)
	}
	return nil
}

// Memory is one retrieved memory with its similarity score.
type Memory struct {
	Content string
	Score   float64
}

// Retrieve returns up to k memories of the owner ranked by cosine similarity
// to the query. Insertion order breaks ties.
func (b *Bank) Retrieve(ctx context.Context, owner, query string, k int) ([]Memory, error) {
	queryVec, err := b.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("memory: embed query: %w", err)
	}
	rows, err := b.db.QueryContext(ctx,
		`SELECT content, vector FROM memories WHERE owner = ? ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("memory: query: %w", err)
	}
	defer rows.Close()

	var scored []Memory
	for rows.Next() {
		var content string
		var blob []byte
		if err := rows.Scan(&content, &blob); err != nil {
			return nil, fmt.Errorf("memory: scan: %w", err)
		}
		scored = append(scored, Memory{Content: content, Score: cosine(queryVec, decodeVector(blob))})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("memory: rows: %w", err)
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// All returns every memory of the owner in insertion order.
func (b *Bank) All(ctx context.Context, owner string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT content FROM memories WHERE owner = ? ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("memory: query: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("memory: scan: %w", err)
		}
		out = append(out, content)
	}
	return out, rows.Err()
}

// Reset removes every memory of the owner. An empty owner clears the bank.
func (b *Bank) Reset(ctx context.Context, owner string) error {
	var err error
	if owner == "" {
		_, err = b.db.ExecContext(ctx, `DELETE FROM memories`)
	} else {
		_, err = b.db.ExecContext(ctx, `DELETE FROM memories WHERE owner = ?`, owner)
	}
	if err != nil {
		return fmt.Errorf("memory: reset: %w", err)
	}
	return nil
}

// encodeVector packs float32s little-endian.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
