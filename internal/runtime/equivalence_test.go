package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario mixes every placement rule: built-in displacement, same-namespace
// merges, foreign collisions, reserved re-homing and namespace fallback.
func scenario() []domain.RegisteredCommand {
	heal := cmd("heal", "a", arg("target", "player"))
	heal.Permission = domain.Named("a.heal")
	heal.Aliases = []string{"h"}
	heal.ShortDescription = "Heals"

	reset := cmd("foo", domain.ReservedNamespace, lit("reset"))
	reset.Permission = domain.RequireElevated()

	give := cmd("give", "a", arg("player", "player"), domain.Argument{Name: "amount", Kind: domain.KindArgument, Type: "integer", Optional: true})
	give.Permission = domain.Named("a.give").Negate()

	return []domain.RegisteredCommand{
		heal,
		cmd("heal", "b", lit("all")),
		cmd("give", "a", lit("all")),
		give,
		cmd("warp", "a", arg("name", "string")),
		cmd("foo", "mod1", arg("x", "integer")),
		reset,
		cmd("tp", domain.ReservedNamespace, arg("target", "player")),
		cmd("spawn", ""),
	}
}

func seeded(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.builtin(t, "heal")
	f.builtin(t, "tp")
	f.foreign(t, "warp", "otherplugin")
	return f
}

func registerAll(t *testing.T, f *fixture) {
	t.Helper()
	for _, c := range scenario() {
		require.NoError(t, f.engine.Register(context.Background(), c))
	}
}

func snapshotOf(t *testing.T, f *fixture) domain.GraphSnapshot {
	t.Helper()
	s, err := f.engine.Snapshot(context.Background())
	require.NoError(t, err)
	return s
}

func TestEngine_BatchedAndInlineAreEquivalent(t *testing.T) {
	ctx := context.Background()

	batched := seeded(t)
	registerAll(t, batched)
	batched.startup(t)

	afterCheckpoint := seeded(t)
	require.NoError(t, afterCheckpoint.engine.Enable(ctx))
	registerAll(t, afterCheckpoint)
	require.NoError(t, afterCheckpoint.engine.Seal(ctx))

	afterSeal := seeded(t)
	afterSeal.startup(t)
	registerAll(t, afterSeal)

	for _, f := range []*fixture{batched, afterCheckpoint, afterSeal} {
		assertConsistent(t, f)
	}

	want := snapshotOf(t, batched)
	if diff := cmp.Diff(want, snapshotOf(t, afterCheckpoint)); diff != "" {
		t.Errorf("inline after checkpoint differs from batched (-batched +inline):\n%s", diff)
	}
	if diff := cmp.Diff(want, snapshotOf(t, afterSeal)); diff != "" {
		t.Errorf("inline after seal differs from batched (-batched +inline):\n%s", diff)
	}

	// Only the sealed host notifies clients.
	if batched.notifier.Count() != 0 || afterCheckpoint.notifier.Count() != 0 {
		t.Errorf("unexpected notifications before seal")
	}
	if got := afterSeal.notifier.Count(); got != len(scenario()) {
		t.Errorf("expected %d notifications after seal, got %d", len(scenario()), got)
	}
}

func TestEngine_DisplacedReservedCommandLeavesNoStaleWrapper(t *testing.T) {
	ctx := context.Background()
	reserved := cmd("foo", domain.ReservedNamespace, lit("reset"))
	reserved.Permission = domain.Named("res.perm")
	namespaced := cmd("foo", "mod1", arg("x", "integer"))
	namespaced.Permission = domain.Named("mod.perm")

	batched := newFixture(t)
	require.NoError(t, batched.engine.Register(ctx, reserved))
	require.NoError(t, batched.engine.Register(ctx, namespaced))
	batched.startup(t)

	inline := newFixture(t)
	inline.startup(t)
	require.NoError(t, inline.engine.Register(ctx, reserved))
	require.NoError(t, inline.engine.Register(ctx, namespaced))

	for name, f := range map[string]*fixture{"batched": batched, "inline": inline} {
		assertConsistent(t, f)

		bare, ok := f.engine.Graph().Lookup("foo")
		require.True(t, ok, name)
		entry, ok := f.registry.Get("foo")
		require.True(t, ok, name)
		assert.Same(t, bare, entry.Node, name)
		assert.Equal(t, "mod.perm", entry.Permission, name)

		rehomed, ok := f.registry.Get(domain.Reserved("foo"))
		require.True(t, ok, name)
		assert.Equal(t, "res.perm", rehomed.Permission, "%s: the displaced command keeps its permission", name)
		_, ok = f.engine.Graph().Lookup(domain.Reserved("foo"), "reset")
		assert.True(t, ok, name)
	}

	if diff := cmp.Diff(snapshotOf(t, batched), snapshotOf(t, inline)); diff != "" {
		t.Errorf("inline differs from batched (-batched +inline):\n%s", diff)
	}
}
