package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	cmd := RegisteredCommand{
		Name:      "give",
		Namespace: "shop",
		Arguments: []Argument{
			{Name: "player", Kind: KindArgument, Type: "player"},
			{Name: "amount", Kind: KindArgument, Type: "integer", Optional: true},
		},
	}

	root := cmd.Build(OriginEngine)
	assert.Equal(t, "give", root.Name)
	assert.Equal(t, KindLiteral, root.Kind)
	assert.Equal(t, "shop", root.Namespace)
	assert.False(t, root.Executable)

	player, ok := root.Child("player")
	require.True(t, ok)
	assert.True(t, player.Executable, "node before an optional argument is executable")

	amount, ok := player.Child("amount")
	require.True(t, ok)
	assert.True(t, amount.Executable)
	assert.Equal(t, "integer", amount.ArgumentType)
	assert.Equal(t, OriginEngine, amount.Origin)
}

func TestBuild_NoArguments(t *testing.T) {
	root := RegisteredCommand{Name: "spawn"}.Build(OriginEngine)
	assert.True(t, root.Executable)
	assert.Empty(t, root.Children())
}

func TestUsageLine(t *testing.T) {
	cmd := RegisteredCommand{
		Name: "warp",
		Arguments: []Argument{
			{Name: "set", Kind: KindLiteral},
			{Name: "name", Kind: KindArgument, Type: "string"},
			{Name: "radius", Kind: KindArgument, Optional: true},
		},
	}
	assert.Equal(t, "/warp set <name> [radius]", cmd.UsageLine())
}
