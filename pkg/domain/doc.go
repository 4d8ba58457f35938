/*
Package domain contains the core models of the command graph engine.

It defines the command tree nodes, the commands a host declares, permission
specs, registry entries, help topics and the lifecycle phases. This package is
kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - CommandNode: one literal or argument step of a command tree.
  - RegisteredCommand: a command as declared by the host (name, namespace, arguments, aliases).
  - PermissionSpec: None, RequireElevated, Named or a negated Named permission.
  - RegistryEntry: the handler stored under a name in the host registry.
  - Phase: PreLoad, CanRegister and Loaded.
*/
package domain
