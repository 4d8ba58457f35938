package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// ErrNoSnapshot is returned by Load when no snapshot has been written yet.
var ErrNoSnapshot = errors.New("no dispatcher snapshot")

// SnapshotWriter implements ports.SnapshotWriter using the local filesystem.
// It dumps the execution tree as indented JSON.
type SnapshotWriter struct {
	Path string
}

// NewSnapshotWriter creates a writer for path.
// If path is empty, it defaults to ".cmdgraph/dispatcher.json".
func NewSnapshotWriter(path string) *SnapshotWriter {
	if path == "" {
		path = filepath.Join(".cmdgraph", "dispatcher.json")
	}
	return &SnapshotWriter{Path: path}
}

// WriteSnapshot persists nodes atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *SnapshotWriter) WriteSnapshot(ctx context.Context, nodes []domain.NodeSnapshot) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure snapshot directory: %w", err)
	}

	if nodes == nil {
		nodes = []domain.NodeSnapshot{}
	}
	data, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-dispatcher-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}
	return nil
}

// Load reads the last snapshot back.
func (s *SnapshotWriter) Load(ctx context.Context) ([]domain.NodeSnapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var nodes []domain.NodeSnapshot
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return nodes, nil
}
