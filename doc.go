/*
Package cmdgraph keeps a plugin's commands consistent across the structures a host owns: the execution tree the dispatcher walks, the published tree clients see and the name to handler registry.

# Concept

A plugin declares commands as literal tokens followed by typed arguments. The engine inserts them into the host's execution tree, mirrors them into the published tree and the registry, resolves name collisions with a namespaced fallback, binds permissions and help topics, and removes commands again without disturbing what other actors registered.

The host drives a one-way lifecycle:

  - PreLoad: registrations only touch the execution tree; everything else is queued.
  - Enable: the checkpoint replays the queue and moves to CanRegister.
  - Seal: the host has loaded. Later registrations sync inline and notify clients.

Batched and inline registration produce the same final state.

# Usage

	eng := cmdgraph.New(cmdgraph.WithPluginName("warps"))

	ctx := context.Background()
	_ = eng.Register(ctx, dsl.Command("warp").
		Namespace("warps").
		Argument("target", "string").
		Permission(domain.Named("warps.use")).
		Build())

	_ = eng.Enable(ctx) // plugin enabled
	_ = eng.Seal(ctx)   // host loaded

	// Inline from here on.
	_, _ = eng.Unregister(ctx, "warp", true, domain.ScopeOwned)

Host structures are injected with options (WithExecutionTree, WithRegistry, ...) and default to the in-memory adapters.
*/
package cmdgraph
