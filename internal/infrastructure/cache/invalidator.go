package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appmovement "github.com/obralink/backend/internal/application/movement"
)

const (
	defaultChannel   = "obralink:dashboard"
	defaultKeyPrefix = "cache:"
)

// InvalidationMessage is the payload published on the dashboard channel after
// a movement write. Subscribed frontends use it to refetch affected views.
type InvalidationMessage struct {
	OrganizationID string   `json:"organization_id"`
	Tags           []string `json:"tags,omitempty"`
	Event          string   `json:"event,omitempty"`
	Timestamp      int64    `json:"timestamp"`
}

// RedisInvalidator drops tagged cache entries and broadcasts invalidation
// messages over Redis Pub/Sub. Suitable for distributed deployments where
// multiple instances serve the same dashboard.
type RedisInvalidator struct {
	client    *redis.Client
	channel   string
	keyPrefix string
	logger    *zap.Logger
}

// RedisInvalidatorOption is a functional option for configuring the invalidator
type RedisInvalidatorOption func(*RedisInvalidator)

// WithChannel sets the Pub/Sub channel name
func WithChannel(channel string) RedisInvalidatorOption {
	return func(i *RedisInvalidator) {
		i.channel = channel
	}
}

// WithKeyPrefix sets the prefix for tagged cache keys
func WithKeyPrefix(prefix string) RedisInvalidatorOption {
	return func(i *RedisInvalidator) {
		i.keyPrefix = prefix
	}
}

// WithLogger sets the logger for the invalidator
func WithLogger(logger *zap.Logger) RedisInvalidatorOption {
	return func(i *RedisInvalidator) {
		i.logger = logger
	}
}

// NewRedisInvalidator creates an invalidator with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisInvalidator(client *redis.Client, opts ...RedisInvalidatorOption) *RedisInvalidator {
	invalidator := &RedisInvalidator{
		client:    client,
		channel:   defaultChannel,
		keyPrefix: defaultKeyPrefix,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator
}

// Invalidate deletes the tagged cache keys for the organization and publishes
// an invalidation message so other instances drop their local copies.
func (i *RedisInvalidator) Invalidate(ctx context.Context, organizationID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	keys := make([]string, 0, len(tags))
	for _, tag := range tags {
		keys = append(keys, i.tagKey(organizationID, tag))
	}

	if err := i.client.Del(ctx, keys...).Err(); err != nil {
		i.logger.Error("Failed to delete cache keys",
			zap.String("organization_id", organizationID),
			zap.Strings("tags", tags),
			zap.Error(err))
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	if err := i.publish(ctx, InvalidationMessage{
		OrganizationID: organizationID,
		Tags:           tags,
	}); err != nil {
		return err
	}

	i.logger.Debug("Invalidated cache tags",
		zap.String("organization_id", organizationID),
		zap.Strings("tags", tags))

	return nil
}

// Notify publishes a change signal without touching any cache keys.
func (i *RedisInvalidator) Notify(ctx context.Context, organizationID string, event string) error {
	return i.publish(ctx, InvalidationMessage{
		OrganizationID: organizationID,
		Event:          event,
	})
}

// Subscribe listens for invalidation messages and invokes the callback for
// each one. It blocks until the context is cancelled; run it in a goroutine.
func (i *RedisInvalidator) Subscribe(ctx context.Context, callback func(msg InvalidationMessage)) error {
	pubsub := i.client.Subscribe(ctx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	i.logger.Info("Subscribed to invalidation channel", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("Invalidation channel closed")
				return nil
			}

			var m InvalidationMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				i.logger.Error("Failed to unmarshal invalidation message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			callback(m)
		}
	}
}

func (i *RedisInvalidator) publish(ctx context.Context, msg InvalidationMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("Failed to publish invalidation message",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (i *RedisInvalidator) tagKey(organizationID, tag string) string {
	return fmt.Sprintf("%s%s:%s", i.keyPrefix, organizationID, tag)
}

// MemoryInvalidator records invalidations in memory. Used when Redis is not
// configured and in tests.
type MemoryInvalidator struct {
	mu     sync.Mutex
	tags   map[string][]string
	events map[string][]string
}

// NewMemoryInvalidator creates an empty in-memory invalidator.
func NewMemoryInvalidator() *MemoryInvalidator {
	return &MemoryInvalidator{
		tags:   make(map[string][]string),
		events: make(map[string][]string),
	}
}

// Invalidate records the invalidated tags for the organization.
func (m *MemoryInvalidator) Invalidate(_ context.Context, organizationID string, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[organizationID] = append(m.tags[organizationID], tags...)
	return nil
}

// Notify records the event for the organization.
func (m *MemoryInvalidator) Notify(_ context.Context, organizationID string, event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[organizationID] = append(m.events[organizationID], event)
	return nil
}

// InvalidatedTags returns the tags invalidated for the organization so far.
func (m *MemoryInvalidator) InvalidatedTags(organizationID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.tags[organizationID]))
	copy(out, m.tags[organizationID])
	return out
}

// Events returns the events recorded for the organization so far.
func (m *MemoryInvalidator) Events(organizationID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events[organizationID]))
	copy(out, m.events[organizationID])
	return out
}

var (
	_ appmovement.Invalidator = (*RedisInvalidator)(nil)
	_ appmovement.Notifier    = (*RedisInvalidator)(nil)
	_ appmovement.Invalidator = (*MemoryInvalidator)(nil)
	_ appmovement.Notifier    = (*MemoryInvalidator)(nil)
)
