package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/cmdgraph"
	"github.com/aretw0/cmdgraph/pkg/adapters/file"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/dsl"
	"github.com/aretw0/cmdgraph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure SnapshotWriter implements SnapshotWriter
var _ ports.SnapshotWriter = (*file.SnapshotWriter)(nil)

func TestSnapshotWriter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	w := file.NewSnapshotWriter(filepath.Join(t.TempDir(), "nested", "dispatcher.json"))

	_, err := w.Load(ctx)
	assert.ErrorIs(t, err, file.ErrNoSnapshot)

	heal := domain.NewLiteral("heal")
	require.NoError(t, heal.AddChild(domain.NewArgument("target", "player")))
	nodes := domain.SnapshotNodes([]*domain.CommandNode{heal})

	require.NoError(t, w.WriteSnapshot(ctx, nodes))
	loaded, err := w.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, nodes, loaded)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(w.Path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSnapshotWriter_EmptyTree(t *testing.T) {
	ctx := context.Background()
	w := file.NewSnapshotWriter(filepath.Join(t.TempDir(), "dispatcher.json"))

	require.NoError(t, w.WriteSnapshot(ctx, nil))
	data, err := os.ReadFile(w.Path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSnapshotWriter_WrittenOnUnregister(t *testing.T) {
	ctx := context.Background()
	w := file.NewSnapshotWriter(filepath.Join(t.TempDir(), "dispatcher.json"))
	eng := cmdgraph.New(cmdgraph.WithSnapshotWriter(w))

	require.NoError(t, eng.Register(ctx, dsl.Command("heal").Namespace("medic").Build()))
	require.NoError(t, eng.Register(ctx, dsl.Command("feed").Namespace("medic").Build()))
	_, err := eng.Unregister(ctx, "heal", true, domain.ScopeOwned)
	require.NoError(t, err)

	loaded, err := w.Load(ctx)
	require.NoError(t, err)
	var names []string
	for _, n := range loaded {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"feed", "medic:feed"}, names)
}
