package ports

import (
	"context"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// PermissionStore is where the host keeps its known permission nodes.
type PermissionStore interface {
	// RegisterPermission records a permission node.
	// Returns domain.ErrPermissionExists if the node is already known.
	RegisterPermission(ctx context.Context, name string) error

	// Permissions lists the known nodes, sorted.
	Permissions(ctx context.Context) ([]string, error)
}

// ClientNotifier pushes the published tree to connected clients.
type ClientNotifier interface {
	NotifyAll(ctx context.Context) error
}

// HelpMap stores the help topics the host shows to users.
type HelpMap interface {
	// PutAll stores topics, replacing existing ones with the same name.
	PutAll(ctx context.Context, topics []domain.HelpTopic) error

	// Remove drops a topic. Removing an unknown topic is not an error.
	Remove(ctx context.Context, name string) error

	// Get returns the topic stored under name.
	Get(ctx context.Context, name string) (domain.HelpTopic, bool, error)

	// Topics returns all topics sorted by name.
	Topics(ctx context.Context) ([]domain.HelpTopic, error)
}

// SnapshotWriter persists the dispatcher view of the execution tree.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, nodes []domain.NodeSnapshot) error
}
