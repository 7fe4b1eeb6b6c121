// Package redis provides the Redis-backed settings store for deployments
// where several dashboard contexts share one state, e.g. kiosk terminals.
// Mutations publish change events so other contexts can re-derive their
// session state; events from the publishing handle itself are filtered
// out, matching browser storage semantics.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/opsdeskhq/opsdesk/internal/ports"
)

const (
	defaultKeyPrefix     = "opsdesk:setting:"
	defaultChangeChannel = "opsdesk:settings:changes"
)

// SettingsStore persists dashboard settings in Redis and broadcasts
// changes over pub/sub.
type SettingsStore struct {
	client  redis.UniversalClient
	prefix  string
	channel string
	origin  string
}

var (
	_ ports.SettingsStore   = (*SettingsStore)(nil)
	_ ports.SettingsWatcher = (*SettingsStore)(nil)
)

// NewSettingsStore creates a Redis-based settings store with the default
// key prefix and change channel.
func NewSettingsStore(client redis.UniversalClient) *SettingsStore {
	return NewSettingsStoreWithPrefix(client, defaultKeyPrefix)
}

// NewSettingsStoreWithPrefix creates a Redis settings store with a custom
// key prefix. The change channel derives from the prefix so stores with
// different prefixes do not observe each other.
func NewSettingsStoreWithPrefix(client redis.UniversalClient, prefix string) *SettingsStore {
	channel := defaultChangeChannel
	if prefix != defaultKeyPrefix {
		channel = prefix + "changes"
	}
	return &SettingsStore{
		client:  client,
		prefix:  prefix,
		channel: channel,
		origin:  uuid.NewString(),
	}
}

// changeEvent is the wire form of a published settings mutation.
type changeEvent struct {
	Origin  string `json:"origin"`
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

func (s *SettingsStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ports.ErrSettingNotFound
	}

	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrSettingNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("setting key cannot be empty")
	}

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return s.publish(ctx, changeEvent{Origin: s.origin, Key: key, Value: value})
}

func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	removed, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if removed == 0 {
		return nil
	}
	return s.publish(ctx, changeEvent{Origin: s.origin, Key: key, Removed: true})
}

func (s *SettingsStore) publish(ctx context.Context, event changeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Watch subscribes to the change channel and forwards mutations made by
// other store handles. The returned channel closes when ctx is done or
// the subscription drops.
func (s *SettingsStore) Watch(ctx context.Context) (<-chan ports.SettingChange, error) {
	sub := s.client.Subscribe(ctx, s.channel)

	// Confirm the subscription before reporting the watcher ready.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", s.channel, err)
	}

	out := make(chan ports.SettingChange)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event changeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				if event.Origin == s.origin || event.Key == "" {
					continue
				}
				change := ports.SettingChange{Key: event.Key, Value: event.Value, Removed: event.Removed}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
