// Package checkpoint persists coarse whole-simulation snapshots with
// degraded-mode markers. It does not support mid-scene resumption.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	blobSuffix   = ".ckpt"
	failedSuffix = ".ckpt.failed"
)

// ErrDegraded reports that a snapshot could not be serialised; the run
// continues with checkpointing effectively disabled for that name.
var ErrDegraded = errors.New("checkpoint degraded: snapshot not serialisable")

// Manager stores snapshots in one directory.
type Manager struct {
	dir string
}

// NewManager creates the checkpoint directory if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Save persists an opaque snapshot blob. On serialisation failure it writes
// a sidecar failure marker and returns ErrDegraded; the caller should treat
// this as non-fatal.
func (m *Manager) Save(name string, snapshot interface{}) error {
	blob, err := json.Marshal(snapshot)
	if err != nil {
		marker := filepath.Join(m.dir, name+failedSuffix)
		if writeErr := os.WriteFile(marker, []byte(err.Error()+"\n"), 0o644); writeErr != nil {
			return fmt.Errorf("write failure marker: %w", writeErr)
		}
		return fmt.Errorf("%w: %s", ErrDegraded, err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, name+blobSuffix), blob, 0o644); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", name, err)
	}
	// A successful save clears any stale failure marker.
	_ = os.Remove(filepath.Join(m.dir, name+failedSuffix))
	return nil
}

// Load restores a snapshot into target. When the failure marker exists or
// the blob is missing or unreadable, it calls fresh instead and reports
// false for restored.
func (m *Manager) Load(name string, target interface{}, fresh func() error) (restored bool, err error) {
	if _, statErr := os.Stat(filepath.Join(m.dir, name+failedSuffix)); statErr == nil {
		return false, fresh()
	}
	blob, readErr := os.ReadFile(filepath.Join(m.dir, name+blobSuffix))
	if readErr != nil {
		return false, fresh()
	}
	if unmarshalErr := json.Unmarshal(blob, target); unmarshalErr != nil {
		return false, fresh()
	}
	return true, nil
}

// List returns names whose blob exists and whose failure marker does not,
// sorted for stable output.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		fileName := entry.Name()
		if !strings.HasSuffix(fileName, blobSuffix) || strings.HasSuffix(fileName, failedSuffix) {
			continue
		}
		name := strings.TrimSuffix(fileName, blobSuffix)
		if _, statErr := os.Stat(filepath.Join(m.dir, name+failedSuffix)); statErr == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
