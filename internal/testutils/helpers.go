package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile creates name inside a fresh temporary directory and returns its absolute path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	absPath, err := filepath.Abs(filepath.Join(dir, name))
	require.NoError(t, err, "Failed to get absolute path for temp file")

	require.NoError(t, os.MkdirAll(filepath.Dir(absPath), 0755))
	require.NoError(t, os.WriteFile(absPath, []byte(content), 0644), "Failed to write %s", name)
	return absPath
}

// WarpsManifest is a small manifest shared by package tests: one built-in
// that collides with a plugin command, one foreign command and an aliased,
// permissioned command with an argument.
const WarpsManifest = `plugin: warps
namespace: warps
builtins:
  - help
foreign:
  - name: spawn
    owner: essentials
commands:
  - name: warp
    aliases: [w]
    permission: warps.use
    description: Teleport to a warp
    arguments:
      - name: target
        type: string
  - name: help
    description: Warps help
  - name: setwarp
    permission: op
    late: true
`
