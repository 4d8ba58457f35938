/*
Package dsl provides a fluent builder for declaring cmdgraph commands in Go.

It is the programmatic counterpart of the manifest files the CLI loads, and is
handy for plugins that compute their commands at startup and for tests.

Example usage:

	package main

	import (
		"github.com/aretw0/cmdgraph/pkg/domain"
		"github.com/aretw0/cmdgraph/pkg/dsl"
	)

	func main() {
		b := dsl.New("warps")

		b.Add("warp").
			Argument("target", "string").
			Optional("player", "player").
			Aliases("w").
			Permission(domain.Named("warps.use")).
			Describe("Teleport to a warp")

		b.Add("setwarp").
			Argument("name", "string").
			Permission(domain.RequireElevated())

		cmds, err := b.Build()
		// ... register cmds with cmdgraph.Engine
	}
*/
package dsl
