package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/cmdgraph/pkg/adapters/memory"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTree_Contract(t *testing.T) {
	ports.RunTreeContract(t, func() ports.Tree {
		tree, err := memory.NewTree()
		require.NoError(t, err)
		return tree
	})
}

func TestMemoryRegistry_Contract(t *testing.T) {
	ports.RunRegistryContract(t, func() ports.Registry { return memory.NewRegistry() })
}

func TestMemoryPermissionStore_Contract(t *testing.T) {
	ports.RunPermissionStoreContract(t, func() ports.PermissionStore { return memory.NewPermissionStore() })
}

func TestMemoryHelpMap_Contract(t *testing.T) {
	ports.RunHelpMapContract(t, func() ports.HelpMap { return memory.NewHelpMap() })
}

func TestNewTree_SeedDuplicate(t *testing.T) {
	_, err := memory.NewTree(domain.NewLiteral("tp"), domain.NewLiteral("tp"))
	assert.ErrorIs(t, err, domain.ErrDuplicateChild)
}

func TestNotifier_Counts(t *testing.T) {
	var n memory.Notifier
	require.NoError(t, n.NotifyAll(context.Background()))
	require.NoError(t, n.NotifyAll(context.Background()))
	assert.Equal(t, 2, n.Count())
}
