package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidNamespace(t *testing.T) {
	assert.True(t, ValidNamespace("myplugin"))
	assert.True(t, ValidNamespace("my_plugin-2.0"))
	assert.False(t, ValidNamespace(""))
	assert.False(t, ValidNamespace("MyPlugin"))
	assert.False(t, ValidNamespace("my plugin"))
	assert.False(t, ValidNamespace("a:b"))
}

func TestNamespaceRoundTrip(t *testing.T) {
	full := QualifiedName("myplugin", "heal")
	ns, name, ok := SplitQualified(full)
	assert.True(t, ok)
	assert.Equal(t, "myplugin", ns)
	assert.Equal(t, "heal", name)

	_, _, ok = SplitQualified("heal")
	assert.False(t, ok)

	assert.Equal(t, "minecraft:heal", Reserved("heal"))
}

func TestIsNamespacedVariant(t *testing.T) {
	assert.True(t, IsNamespacedVariant("myplugin:heal", "heal"))
	assert.True(t, IsNamespacedVariant("minecraft:HEAL", "heal"))
	assert.False(t, IsNamespacedVariant("heal", "heal"))
	assert.False(t, IsNamespacedVariant("myplugin:healer", "heal"))
	assert.True(t, IsNamespacedVariant("minecraft:myplugin:heal", "heal"))
	assert.False(t, IsNamespacedVariant("minecraft:myplugin:heal", "myplugin"))
}
