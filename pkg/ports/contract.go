package ports

import (
	"context"
	"testing"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTreeContract runs a suite of tests to verify that a Tree implementation
// adheres to the defined interface contract. newTree must return an empty tree.
func RunTreeContract(t *testing.T, newTree func() Tree) {
	t.Run("Add and Lookup", func(t *testing.T) {
		tree := newTree()
		node := domain.NewLiteral("heal")
		require.NoError(t, tree.AddChild(node))

		got, ok := tree.Child("heal")
		require.True(t, ok)
		assert.Same(t, node, got)

		_, ok = tree.Child("missing")
		assert.False(t, ok)
	})

	t.Run("Duplicate Rejected", func(t *testing.T) {
		tree := newTree()
		first := domain.NewLiteral("heal")
		require.NoError(t, tree.AddChild(first))

		err := tree.AddChild(domain.NewLiteral("heal"))
		assert.ErrorIs(t, err, domain.ErrDuplicateChild)

		got, _ := tree.Child("heal")
		assert.Same(t, first, got, "existing node must survive")
	})

	t.Run("Children Sorted", func(t *testing.T) {
		tree := newTree()
		for _, n := range []string{"tp", "give", "kill"} {
			require.NoError(t, tree.AddChild(domain.NewLiteral(n)))
		}
		var names []string
		for _, c := range tree.Children() {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"give", "kill", "tp"}, names)
	})

	t.Run("Remove", func(t *testing.T) {
		tree := newTree()
		require.NoError(t, tree.AddChild(domain.NewLiteral("heal")))

		removed, ok := tree.RemoveChild("heal")
		require.True(t, ok)
		assert.Equal(t, "heal", removed.Name)

		_, ok = tree.RemoveChild("heal")
		assert.False(t, ok, "second removal is a no-op")
		assert.Empty(t, tree.Children())
	})
}

// RunRegistryContract verifies a Registry implementation. newRegistry must return an empty registry.
func RunRegistryContract(t *testing.T, newRegistry func() Registry) {
	t.Run("PutIfAbsent First Writer Wins", func(t *testing.T) {
		reg := newRegistry()
		first := &domain.RegistryEntry{Name: "heal", Kind: domain.EntryForeign, Owner: "other"}
		second := &domain.RegistryEntry{Name: "heal", Kind: domain.EntryWrapped, Owner: "me"}

		assert.True(t, reg.PutIfAbsent("heal", first))
		assert.False(t, reg.PutIfAbsent("heal", second))

		got, ok := reg.Get("heal")
		require.True(t, ok)
		assert.Same(t, first, got)
	})

	t.Run("Put Overwrites", func(t *testing.T) {
		reg := newRegistry()
		reg.Put("heal", &domain.RegistryEntry{Name: "heal", Owner: "a"})
		reg.Put("heal", &domain.RegistryEntry{Name: "heal", Owner: "b"})

		got, ok := reg.Get("heal")
		require.True(t, ok)
		assert.Equal(t, "b", got.Owner)
	})

	t.Run("Alias Shares Entry", func(t *testing.T) {
		reg := newRegistry()
		entry := &domain.RegistryEntry{Name: "heal", Kind: domain.EntryWrapped}
		require.True(t, reg.PutIfAbsent("heal", entry))
		require.True(t, reg.PutIfAbsent("minecraft:heal", entry))

		a, _ := reg.Get("heal")
		b, _ := reg.Get("minecraft:heal")
		assert.Same(t, a, b)
	})

	t.Run("Remove and Names", func(t *testing.T) {
		reg := newRegistry()
		reg.Put("b", &domain.RegistryEntry{Name: "b"})
		reg.Put("a", &domain.RegistryEntry{Name: "a"})
		reg.Put("c", &domain.RegistryEntry{Name: "c"})

		_, ok := reg.Remove("b")
		assert.True(t, ok)
		_, ok = reg.Remove("b")
		assert.False(t, ok)

		assert.Equal(t, []string{"a", "c"}, reg.Names())
	})
}

// RunPermissionStoreContract verifies a PermissionStore. newStore must return an empty store.
func RunPermissionStoreContract(t *testing.T, newStore func() PermissionStore) {
	ctx := context.Background()

	t.Run("Register and List", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.RegisterPermission(ctx, "plugin.fly"))
		require.NoError(t, store.RegisterPermission(ctx, "plugin.heal"))

		perms, err := store.Permissions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"plugin.fly", "plugin.heal"}, perms)
	})

	t.Run("Duplicate Reported", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.RegisterPermission(ctx, "plugin.fly"))

		err := store.RegisterPermission(ctx, "plugin.fly")
		assert.ErrorIs(t, err, domain.ErrPermissionExists)

		perms, err := store.Permissions(ctx)
		require.NoError(t, err)
		assert.Len(t, perms, 1)
	})
}

// RunHelpMapContract verifies a HelpMap. newMap must return an empty map.
func RunHelpMapContract(t *testing.T, newMap func() HelpMap) {
	ctx := context.Background()

	t.Run("PutAll and Get", func(t *testing.T) {
		hm := newMap()
		topics := []domain.HelpTopic{
			{Name: "/heal", ShortText: "Heals", FullText: "Description: Heals\n", Permission: "plugin.heal"},
			{Name: "/feed", ShortText: "Feeds"},
		}
		require.NoError(t, hm.PutAll(ctx, topics))

		got, ok, err := hm.Get(ctx, "/heal")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, topics[0], got)

		all, err := hm.Topics(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "/feed", all[0].Name)
	})

	t.Run("PutAll Replaces", func(t *testing.T) {
		hm := newMap()
		require.NoError(t, hm.PutAll(ctx, []domain.HelpTopic{{Name: "/heal", ShortText: "old"}}))
		require.NoError(t, hm.PutAll(ctx, []domain.HelpTopic{{Name: "/heal", ShortText: "new"}}))

		got, ok, err := hm.Get(ctx, "/heal")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "new", got.ShortText)
	})

	t.Run("Remove", func(t *testing.T) {
		hm := newMap()
		require.NoError(t, hm.PutAll(ctx, []domain.HelpTopic{{Name: "/heal"}}))
		require.NoError(t, hm.Remove(ctx, "/heal"))
		require.NoError(t, hm.Remove(ctx, "/heal"), "removing twice is not an error")

		_, ok, err := hm.Get(ctx, "/heal")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
