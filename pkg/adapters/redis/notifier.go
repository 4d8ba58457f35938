package redis

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// UpdateMessage is the payload published when the command trees change.
const UpdateMessage = "commands-changed"

// Notifier implements ports.ClientNotifier with Redis pub/sub, so every
// front-end process subscribed to the channel can resend its command tree.
type Notifier struct {
	client  *backend.Client
	channel string
}

// NewNotifier creates a notifier publishing on prefix + "updates".
func NewNotifier(client *backend.Client, prefix string) *Notifier {
	if prefix == "" {
		prefix = "cmdgraph:"
	}
	return &Notifier{client: client, channel: prefix + "updates"}
}

// Channel returns the pub/sub channel name.
func (n *Notifier) Channel() string {
	return n.channel
}

// NotifyAll publishes an update message.
func (n *Notifier) NotifyAll(ctx context.Context) error {
	if err := n.client.Publish(ctx, n.channel, UpdateMessage).Err(); err != nil {
		return fmt.Errorf("failed to publish command update: %w", err)
	}
	return nil
}

// Subscribe returns a channel that receives one value per update until ctx is done.
func (n *Notifier) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	sub := n.client.Subscribe(ctx, n.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", n.channel, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}
