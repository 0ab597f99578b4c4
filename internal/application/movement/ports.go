package movement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cache tags invalidated after movement writes. The dashboard's cached views
// key off these; the set is fixed so every write path invalidates the same
// surfaces.
var invalidationTags = []string{
	"movements",
	"movement-view",
	"wallet-balances",
	"financial-summary",
	"installments",
	"movement-tasks",
}

// Invalidator drops cached read models by tag. Implementations must be safe
// for concurrent use; callers treat invalidation as fire-and-forget.
type Invalidator interface {
	Invalidate(ctx context.Context, organizationID string, tags []string) error
}

// Notifier pushes a lightweight change signal to connected dashboard
// clients. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, organizationID string, event string) error
}

// NopInvalidator satisfies Invalidator without a cache backend.
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context, string, []string) error { return nil }

// NopNotifier satisfies Notifier without a push backend.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string) error { return nil }

// fireAfterWrite invalidates cached views and signals the dashboard after a
// successful write. It runs detached so a slow cache never delays the
// response; failures are logged and otherwise ignored.
func fireAfterWrite(inv Invalidator, notifier Notifier, logger *zap.Logger, organizationID uuid.UUID, event string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := inv.Invalidate(ctx, organizationID.String(), invalidationTags); err != nil {
			logger.Warn("cache invalidation failed",
				zap.String("organization_id", organizationID.String()),
				zap.Error(err))
		}
		if err := notifier.Notify(ctx, organizationID.String(), event); err != nil {
			logger.Debug("dashboard notify failed",
				zap.String("organization_id", organizationID.String()),
				zap.Error(err))
		}
	}()
}
