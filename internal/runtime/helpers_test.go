package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/cmdgraph/internal/runtime"
	"github.com/aretw0/cmdgraph/pkg/adapters/memory"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	exec      *memory.Tree
	published *memory.Tree
	registry  *memory.Registry
	perms     *memory.PermissionStore
	help      *memory.HelpMap
	notifier  *memory.Notifier
	snapshots *snapshotRecorder
	engine    *runtime.Engine
}

type snapshotRecorder struct {
	writes [][]domain.NodeSnapshot
}

func (r *snapshotRecorder) WriteSnapshot(ctx context.Context, nodes []domain.NodeSnapshot) error {
	r.writes = append(r.writes, nodes)
	return nil
}

func newFixture(t *testing.T, opts ...runtime.EngineOption) *fixture {
	t.Helper()
	exec, err := memory.NewTree()
	require.NoError(t, err)
	published, err := memory.NewTree()
	require.NoError(t, err)

	f := &fixture{
		exec:      exec,
		published: published,
		registry:  memory.NewRegistry(),
		perms:     memory.NewPermissionStore(),
		help:      memory.NewHelpMap(),
		notifier:  &memory.Notifier{},
		snapshots: &snapshotRecorder{},
	}
	all := append([]runtime.EngineOption{
		runtime.WithPluginName("testplugin"),
		runtime.WithPermissionStore(f.perms),
		runtime.WithHelpMap(f.help),
		runtime.WithNotifier(f.notifier),
		runtime.WithSnapshotWriter(f.snapshots),
	}, opts...)
	f.engine = runtime.NewEngine(exec, published, f.registry, all...)
	return f
}

// builtin seeds a host command the way the host places its own commands.
func (f *fixture) builtin(t *testing.T, name string) *domain.CommandNode {
	t.Helper()
	n := domain.NewLiteral(name)
	n.Namespace = domain.ReservedNamespace
	n.Origin = domain.OriginHost
	n.Executable = true
	require.NoError(t, f.exec.AddChild(n))
	require.NoError(t, f.published.AddChild(n))
	w := domain.NewWrapper(name, n, domain.ReservedNamespace)
	f.registry.Put(name, w)
	f.registry.Put(domain.Reserved(name), w)
	return n
}

// foreign seeds a command another plugin registered directly in the host.
func (f *fixture) foreign(t *testing.T, name, owner string) {
	t.Helper()
	n := domain.NewLiteral(name)
	n.Origin = domain.OriginForeign
	n.Namespace = owner
	require.NoError(t, f.published.AddChild(n))
	f.registry.Put(name, &domain.RegistryEntry{Name: name, Kind: domain.EntryForeign, Owner: owner})
	f.registry.Put(domain.QualifiedName(owner, name), &domain.RegistryEntry{Name: name, Kind: domain.EntryForeign, Owner: owner})
}

func (f *fixture) startup(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.engine.Enable(ctx))
	require.NoError(t, f.engine.Seal(ctx))
}

func cmd(name, ns string, args ...domain.Argument) domain.RegisteredCommand {
	return domain.RegisteredCommand{Name: name, Namespace: ns, Arguments: args}
}

func arg(name, typ string) domain.Argument {
	return domain.Argument{Name: name, Kind: domain.KindArgument, Type: typ}
}

func lit(name string) domain.Argument {
	return domain.Argument{Name: name, Kind: domain.KindLiteral}
}

// assertConsistent checks that every wrapper in the registry runs the node the
// execution tree holds, and that the published tree shows the same command.
func assertConsistent(t *testing.T, f *fixture) {
	t.Helper()
	for _, name := range f.registry.Names() {
		entry, ok := f.registry.Get(name)
		require.True(t, ok, name)
		if !entry.Owned() {
			continue
		}
		require.NotNil(t, entry.Node, name)

		live, ok := f.exec.Child(entry.Node.Name)
		if assert.True(t, ok, "registry %q wraps %q, which is not in the execution tree", name, entry.Node.Name) {
			assert.Same(t, live, entry.Node, "registry %q wraps a stale node", name)
		}
		pub, ok := f.published.Child(name)
		if assert.True(t, ok, "registry %q is not published", name) && pub.Owned() {
			assert.Same(t, entry.Node.Identity(), pub.Identity(), "published %q differs from the registry", name)
		}
	}
}
