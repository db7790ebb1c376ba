package services

import (
	"context"

	"github.com/fr0stylo/stocksync/internal/app/domain"
	"github.com/fr0stylo/stocksync/internal/app/ports"
)

// InventoryReadService provides read-side access to reconciled stock rows.
type InventoryReadService struct {
	store ports.InventoryStore
}

// NewInventoryReadService constructs a read service over the store port.
func NewInventoryReadService(store ports.InventoryStore) *InventoryReadService {
	return &InventoryReadService{store: store}
}

// GetLevels returns all location rows for one shop variant.
func (s *InventoryReadService) GetLevels(ctx context.Context, shopName string, variantID int64) ([]domain.StockLevel, error) {
	return s.store.GetByKey(ctx, domain.CompositeKey(shopName, variantID))
}

// GetLevel returns the stock row for one shop variant at one location,
// ports.ErrNotFound when absent.
func (s *InventoryReadService) GetLevel(ctx context.Context, shopName string, variantID int64, locationKey string) (domain.StockLevel, error) {
	return s.store.GetByKeyAndLocation(ctx, domain.CompositeKey(shopName, variantID), locationKey)
}
