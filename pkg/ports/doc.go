/*
Package ports defines the driven ports (interfaces) for the command graph engine.

These interfaces decouple the engine from the host structures it keeps in sync,
so the same core can drive in-memory trees, a Redis-backed help map or an SSE
client notifier.

# Key Interfaces

  - Tree: the execution tree and the published tree.
  - Registry: the host's name to handler map.
  - PermissionStore: known permission nodes.
  - HelpMap: help topics.
  - ClientNotifier: pushes tree updates to connected clients.
  - SnapshotWriter: persists the dispatcher snapshot.

Adapters verify themselves with the exported Run*Contract suites.
*/
package ports
