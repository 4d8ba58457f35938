package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/cmdgraph/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateManifest(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		m := &manifest.Manifest{
			Plugin:    "warps",
			Namespace: "warps",
			Commands: []manifest.Command{
				{Name: "warp", Arguments: []manifest.Argument{{Name: "target", Type: "string"}}},
			},
		}
		warnings, err := ValidateManifest(m)
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("Errors", func(t *testing.T) {
		m := &manifest.Manifest{
			Namespace: "warps",
			Commands: []manifest.Command{
				{Name: ""},
				{Name: "warp", Permission: 3},
				{Name: "home", Arguments: []manifest.Argument{{Name: "x", Type: "int"}, {Name: "x", Type: "int"}}},
			},
		}
		_, err := ValidateManifest(m)
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "found 4 errors"), err.Error())
		assert.Contains(t, err.Error(), "plugin name is empty")
		assert.Contains(t, err.Error(), "repeats argument")
	})

	t.Run("Warnings", func(t *testing.T) {
		m := &manifest.Manifest{
			Plugin:    "warps",
			Namespace: "Bad Namespace",
			Builtins:  []string{"give"},
			Foreign:   []manifest.ForeignEntry{{Name: "spawn", Owner: "essentials"}},
			Commands: []manifest.Command{
				{Name: "give"},
				{Name: "warp", Aliases: []string{"spawn"}},
				{Name: "warp"},
			},
		}
		warnings, err := ValidateManifest(m)
		require.NoError(t, err)

		joined := strings.Join(warnings, "\n")
		assert.Contains(t, joined, "invalid namespace")
		assert.Contains(t, joined, "'give' shadows a built-in; the built-in stays reachable as 'minecraft:give'")
		assert.Contains(t, joined, "'spawn' is held by essentials")
		assert.Contains(t, joined, "declared more than once")
	})
}
