package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryInvalidator(t *testing.T) {
	inv := NewMemoryInvalidator()
	ctx := context.Background()

	t.Run("records tags per organization", func(t *testing.T) {
		assert.NoError(t, inv.Invalidate(ctx, "org-1", []string{"movements", "wallet-balances"}))
		assert.NoError(t, inv.Invalidate(ctx, "org-1", []string{"financial-summary"}))
		assert.NoError(t, inv.Invalidate(ctx, "org-2", []string{"movements"}))

		assert.Equal(t, []string{"movements", "wallet-balances", "financial-summary"}, inv.InvalidatedTags("org-1"))
		assert.Equal(t, []string{"movements"}, inv.InvalidatedTags("org-2"))
	})

	t.Run("records events", func(t *testing.T) {
		assert.NoError(t, inv.Notify(ctx, "org-1", "movement.recorded"))
		assert.Equal(t, []string{"movement.recorded"}, inv.Events("org-1"))
		assert.Empty(t, inv.Events("org-3"))
	})
}

func TestRedisInvalidatorTagKey(t *testing.T) {
	inv := NewRedisInvalidator(nil, WithKeyPrefix("cache:"), WithChannel("test"))
	assert.Equal(t, "cache:org-1:movements", inv.tagKey("org-1", "movements"))
}
