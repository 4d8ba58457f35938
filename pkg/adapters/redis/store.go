package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/cmdgraph/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.PermissionStore and ports.HelpMap using Redis.
// Permissions live in a set and help topics in a hash, both under prefix.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "cmdgraph:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client returns the underlying client, so a Notifier can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) permissionsKey() string {
	return s.prefix + "permissions"
}

func (s *Store) helpKey() string {
	return s.prefix + "help"
}

// RegisterPermission adds name to the permission set.
func (s *Store) RegisterPermission(ctx context.Context, name string) error {
	added, err := s.client.SAdd(ctx, s.permissionsKey(), name).Result()
	if err != nil {
		return fmt.Errorf("failed to register permission %q: %w", name, err)
	}
	if added == 0 {
		return fmt.Errorf("%w: %q", domain.ErrPermissionExists, name)
	}
	return nil
}

// Permissions lists the permission set, sorted.
func (s *Store) Permissions(ctx context.Context) ([]string, error) {
	perms, err := s.client.SMembers(ctx, s.permissionsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	sort.Strings(perms)
	return perms, nil
}

// PutAll stores topics in one transaction.
func (s *Store) PutAll(ctx context.Context, topics []domain.HelpTopic) error {
	if len(topics) == 0 {
		return nil
	}
	fields := make([]any, 0, 2*len(topics))
	for _, t := range topics {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal help topic %q: %w", t.Name, err)
		}
		fields = append(fields, t.Name, data)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.HSet(ctx, s.helpKey(), fields...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store help topics: %w", err)
	}
	return nil
}

// Remove drops a topic. Unknown topics are ignored.
func (s *Store) Remove(ctx context.Context, name string) error {
	if err := s.client.HDel(ctx, s.helpKey(), name).Err(); err != nil {
		return fmt.Errorf("failed to remove help topic %q: %w", name, err)
	}
	return nil
}

// Get returns the topic stored under name.
func (s *Store) Get(ctx context.Context, name string) (domain.HelpTopic, bool, error) {
	var topic domain.HelpTopic
	data, err := s.client.HGet(ctx, s.helpKey(), name).Bytes()
	if errors.Is(err, backend.Nil) {
		return topic, false, nil
	}
	if err != nil {
		return topic, false, fmt.Errorf("failed to load help topic %q: %w", name, err)
	}
	if err := json.Unmarshal(data, &topic); err != nil {
		return topic, false, fmt.Errorf("failed to unmarshal help topic %q: %w", name, err)
	}
	return topic, true, nil
}

// Topics returns every topic sorted by name.
func (s *Store) Topics(ctx context.Context) ([]domain.HelpTopic, error) {
	raw, err := s.client.HGetAll(ctx, s.helpKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list help topics: %w", err)
	}
	topics := make([]domain.HelpTopic, 0, len(raw))
	for name, data := range raw {
		var t domain.HelpTopic
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal help topic %q: %w", name, err)
		}
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics, nil
}
