package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DeclarationOrder(t *testing.T) {
	b := New("warps")

	b.Add("warp").
		Argument("target", "string").
		Optional("player", "player").
		Aliases("w").
		Permission(domain.Named("warps.use")).
		Describe("Teleport to a warp", "Teleports you or another player to a saved warp.")

	b.Add("setwarp").
		Literal("here").
		Argument("name", "string").
		Permission(domain.RequireElevated())

	// Re-adding returns the same declaration.
	b.Add("warp").Usage("/warp <target>")

	cmds, err := b.Build()
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	warp := cmds[0]
	assert.Equal(t, "warp", warp.Name)
	assert.Equal(t, "warps", warp.Namespace)
	assert.Equal(t, []string{"w"}, warp.Aliases)
	assert.Equal(t, []string{"/warp <target>"}, warp.Usage)
	assert.Equal(t, "Teleport to a warp", warp.ShortDescription)
	assert.Equal(t, "/warp <target> [player]", warp.UsageLine())

	setwarp := cmds[1]
	assert.Equal(t, domain.KindLiteral, setwarp.Arguments[0].Kind)
	assert.Equal(t, domain.PermissionElevated, setwarp.Permission.Kind)
}

func TestBuilder_ValidationErrors(t *testing.T) {
	b := New("warps")
	b.Add("warp").Argument("x", "string").Argument("x", "integer")
	b.Add("home").Aliases("")
	b.Add("spawn").Permission(domain.PermissionSpec{Kind: "bogus"})

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateChild)
	assert.ErrorIs(t, err, domain.ErrEmptyName)
	assert.ErrorIs(t, err, domain.ErrUnknownPermission)
}

func TestCommand_BuildIsDetached(t *testing.T) {
	c := Command("heal").Argument("target", "player")
	first := c.Build()
	c.Argument("amount", "integer")

	assert.Len(t, first.Arguments, 1)
	assert.Len(t, c.Build().Arguments, 2)
}

func TestCommand_ExecutorReachesLeaf(t *testing.T) {
	called := false
	cmd := Command("heal").
		Argument("target", "player").
		Executes(func(ctx context.Context, _ domain.Invoker, _ map[string]any) error {
			called = true
			return nil
		}).
		Build()

	root := cmd.Build(domain.OriginEngine)
	leaf, ok := root.Child("target")
	require.True(t, ok)
	require.True(t, leaf.Executable)
	require.NotNil(t, leaf.Run)
	require.NoError(t, leaf.Run(context.Background(), nil, nil))
	assert.True(t, called)
	assert.False(t, root.Executable)
}
