package ports

import (
	"context"
	"errors"

	"github.com/fr0stylo/stocksync/internal/app/domain"
)

// ErrNotFound indicates no stock row exists for the requested key.
var ErrNotFound = errors.New("inventory level not found")

// InventoryStore persists validated inventory records. It is intentionally
// backend-agnostic: any key/value or document backend that supports atomic
// upsert by (composite key, location key) can implement it.
type InventoryStore interface {
	// Save upserts a single record, last write wins.
	Save(ctx context.Context, record domain.InventoryRecord) error
	// SaveBatch upserts all records as one operation; a failure leaves no
	// guarantee about which records were written.
	SaveBatch(ctx context.Context, records []domain.InventoryRecord) error
	// GetByKey returns all location rows grouped under one composite key.
	GetByKey(ctx context.Context, compositeKey string) ([]domain.StockLevel, error)
	// GetByKeyAndLocation returns one stock row, ErrNotFound when absent.
	GetByKeyAndLocation(ctx context.Context, compositeKey, locationKey string) (domain.StockLevel, error)
}

// DedupCache remembers fully processed webhook delivery ids so redelivered
// webhooks can be acknowledged without reprocessing. Deliveries that failed or
// only partially persisted are never recorded; upstream redelivery is the
// recovery path for those.
type DedupCache interface {
	// SeenDelivery reports whether the delivery id was already recorded.
	SeenDelivery(ctx context.Context, deliveryID string) (bool, error)
	// MarkDelivery records the delivery id of a fully processed webhook.
	MarkDelivery(ctx context.Context, deliveryID string) error
}

// ChangeNotifier publishes inventory change notifications after a successful
// persist. Implementations must not block the webhook response on delivery.
type ChangeNotifier interface {
	PublishInventoryUpdated(ctx context.Context, shopName string, compositeKeys []string) error
}
