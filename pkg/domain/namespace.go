package domain

import (
	"regexp"
	"strings"
)

// ReservedNamespace is the host's own namespace. Built-in commands live there
// and displaced commands are re-homed under it.
const ReservedNamespace = "minecraft"

var namespacePattern = regexp.MustCompile(`^[0-9a-z_.\-]+$`)

// ValidNamespace reports whether ns matches [0-9a-z_.-]+.
func ValidNamespace(ns string) bool {
	return namespacePattern.MatchString(ns)
}

// QualifiedName joins a namespace and a name as "ns:name".
func QualifiedName(ns, name string) string {
	return ns + ":" + name
}

// Reserved returns "minecraft:name".
func Reserved(name string) string {
	return QualifiedName(ReservedNamespace, name)
}

// SplitQualified splits "ns:name" at the first colon.
func SplitQualified(full string) (ns, name string, ok bool) {
	return strings.Cut(full, ":")
}

// IsNamespacedVariant reports whether candidate is "<ns>:name" (or "<a>:<b>:name").
// The final segment is compared case-insensitively.
func IsNamespacedVariant(candidate, name string) bool {
	i := strings.LastIndex(candidate, ":")
	if i < 0 {
		return false
	}
	return strings.EqualFold(candidate[i+1:], name)
}
