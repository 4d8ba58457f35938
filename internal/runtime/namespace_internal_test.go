package runtime

import (
	"testing"

	"github.com/aretw0/cmdgraph/internal/logging"
	"github.com/aretw0/cmdgraph/pkg/adapters/memory"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixupSet_ClaimAndDrain(t *testing.T) {
	f := NewFixupSet()
	assert.True(t, f.Claim("minecraft:heal"))
	assert.False(t, f.Claim("minecraft:heal"), "second claim is not the first")
	assert.True(t, f.Wants("minecraft:heal"))
	assert.True(t, f.Pending())

	a := domain.NewLiteral("minecraft:heal")
	b := domain.NewLiteral("minecraft:heal")
	c := domain.NewLiteral("minecraft:feed")
	f.Relocate(a, domain.NoPermission())
	f.Relocate(c, domain.NoPermission())
	f.Relocate(b, domain.Named("x"))

	claimed, chain := f.Drain()
	assert.Equal(t, []string{"minecraft:heal"}, claimed)
	require.Len(t, chain, 2)
	require.Len(t, chain[0], 2, "entries for one name are grouped")
	assert.Same(t, a, chain[0][0].node)
	assert.Same(t, b, chain[0][1].node)
	assert.Same(t, c, chain[1][0].node)

	assert.False(t, f.Pending(), "drain resets the set")
	assert.False(t, f.Wants("minecraft:heal"), "nothing is carried across drains")
	assert.True(t, f.Claim("minecraft:heal"))
}

func TestFixupSet_Forget(t *testing.T) {
	f := NewFixupSet()
	f.Claim("minecraft:heal")
	f.Claim("minecraft:a:heal")
	f.Claim("minecraft:feed")
	f.Relocate(domain.NewLiteral("minecraft:heal"), domain.NoPermission())

	f.Relocate(domain.NewLiteral("minecraft:feed"), domain.NoPermission())

	f.Forget("heal")
	claimed, chain := f.Drain()
	assert.Equal(t, []string{"minecraft:feed"}, claimed)
	require.Len(t, chain, 1)
	assert.Equal(t, "minecraft:feed", chain[0][0].node.Name)
}

func TestResolver_HomedNameIsNotFreed(t *testing.T) {
	tree, err := memory.NewTree()
	require.NoError(t, err)
	fixups := NewFixupSet()
	g := NewGraph(tree)
	r := NewResolver(g, fixups, logging.NewNop())

	rehomed := domain.NewLiteral(domain.Reserved("heal"))
	rehomed.Namespace = domain.ReservedNamespace
	rehomed.Origin = domain.OriginHost
	_, err = g.Insert(rehomed)
	require.NoError(t, err)

	_, err = r.Place(domain.RegisteredCommand{Name: "heal", Namespace: "b"}.Build(domain.OriginEngine), domain.NoPermission())
	require.NoError(t, err)

	claimed, chain := fixups.Drain()
	assert.Equal(t, []string{"minecraft:b:heal"}, claimed, "a live re-homed node is never freed")
	assert.Empty(t, chain)

	reserved := domain.RegisteredCommand{Name: "heal", Namespace: domain.ReservedNamespace}.Build(domain.OriginEngine)
	p, err := r.Place(reserved, domain.NoPermission())
	require.NoError(t, err)
	assert.True(t, p.Relocated, "reserved commands merge into the re-homed node")
}

func TestResolver_DisplacedReservedKeepsPermission(t *testing.T) {
	tree, err := memory.NewTree()
	require.NoError(t, err)
	fixups := NewFixupSet()
	r := NewResolver(NewGraph(tree), fixups, logging.NewNop())

	reserved := domain.RegisteredCommand{Name: "foo", Namespace: domain.ReservedNamespace}.Build(domain.OriginEngine)
	_, err = r.Place(reserved, domain.Named("res.perm"))
	require.NoError(t, err)
	_, err = r.Place(domain.RegisteredCommand{Name: "foo", Namespace: "mod1"}.Build(domain.OriginEngine), domain.Named("mod.perm"))
	require.NoError(t, err)

	_, chain := fixups.Drain()
	require.Len(t, chain, 1)
	assert.Same(t, reserved, chain[0][0].node.Identity())
	assert.Equal(t, domain.Named("res.perm"), chain[0][0].permission)
}

func TestResolver_NamespaceFallback(t *testing.T) {
	tree, err := memory.NewTree()
	require.NoError(t, err)
	r := NewResolver(NewGraph(tree), NewFixupSet(), logging.NewNop())

	assert.Equal(t, "myplugin", r.Namespace("heal", "myplugin"))
	assert.Equal(t, domain.ReservedNamespace, r.Namespace("heal", ""))
	assert.Equal(t, domain.ReservedNamespace, r.Namespace("heal", "My Plugin"))
}

func TestResolver_PlaceNamespaced(t *testing.T) {
	tree, err := memory.NewTree()
	require.NoError(t, err)
	fixups := NewFixupSet()
	g := NewGraph(tree)
	r := NewResolver(g, fixups, logging.NewNop())

	builtin := domain.NewLiteral("heal")
	builtin.Namespace = domain.ReservedNamespace
	builtin.Origin = domain.OriginHost
	_, err = g.Insert(builtin)
	require.NoError(t, err)

	node := domain.RegisteredCommand{Name: "heal", Namespace: "a"}.Build(domain.OriginEngine)
	p, err := r.Place(node, domain.NoPermission())
	require.NoError(t, err)

	assert.Same(t, node, p.Node)
	assert.Same(t, builtin, p.Displaced)
	require.NotNil(t, p.Namespaced)
	assert.Equal(t, "a:heal", p.Namespaced.Name)
	assert.Same(t, node, p.Namespaced.Identity())

	claimed, chain := fixups.Drain()
	assert.Equal(t, []string{"minecraft:heal", "minecraft:a:heal"}, claimed)
	require.Len(t, chain, 1)
	assert.Equal(t, "minecraft:heal", chain[0][0].node.Name)
	assert.Same(t, builtin, chain[0][0].node.Identity(), "built-in is preserved, not deleted")
}

func TestResolver_PlaceReservedWhenWanted(t *testing.T) {
	tree, err := memory.NewTree()
	require.NoError(t, err)
	fixups := NewFixupSet()
	r := NewResolver(NewGraph(tree), fixups, logging.NewNop())
	fixups.Claim("minecraft:foo")

	node := domain.RegisteredCommand{Name: "foo", Namespace: domain.ReservedNamespace}.Build(domain.OriginEngine)
	p, err := r.Place(node, domain.RequireElevated())
	require.NoError(t, err)

	assert.True(t, p.Relocated)
	assert.Nil(t, p.Node)
	_, ok := tree.Child("foo")
	assert.False(t, ok, "relocated command is not inserted at the top level")
}

func TestResolver_SameNamespaceMerges(t *testing.T) {
	tree, err := memory.NewTree()
	require.NoError(t, err)
	r := NewResolver(NewGraph(tree), NewFixupSet(), logging.NewNop())

	first := domain.RegisteredCommand{Name: "give", Namespace: "a", Arguments: []domain.Argument{{Name: "player", Kind: domain.KindArgument}}}
	second := domain.RegisteredCommand{Name: "give", Namespace: "a", Arguments: []domain.Argument{{Name: "all", Kind: domain.KindLiteral}}}

	p1, err := r.Place(first.Build(domain.OriginEngine), domain.NoPermission())
	require.NoError(t, err)
	p2, err := r.Place(second.Build(domain.OriginEngine), domain.NoPermission())
	require.NoError(t, err)

	assert.Same(t, p1.Node, p2.Node)
	assert.Nil(t, p2.Displaced)
	assert.Len(t, p2.Node.Children(), 2)
	assert.Len(t, p2.Namespaced.Children(), 2)
}
