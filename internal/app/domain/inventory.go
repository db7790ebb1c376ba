package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidationError reports a single field-level invariant violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewInventoryRecordParams carries raw constructor input for an inventory record.
type NewInventoryRecordParams struct {
	ShopName        string
	VariantID       int64
	LocationID      int64
	Available       int64
	UpdatedAt       string
	InventoryItemID int64
}

// InventoryRecord is one validated per-location stock value for a shop variant.
// Instances only exist through NewInventoryRecord; a record that violates any
// invariant is never constructed.
type InventoryRecord struct {
	shopName        string
	variantID       int64
	locationID      int64
	available       int64
	updatedAt       time.Time
	inventoryItemID int64
}

// NewInventoryRecord validates params and constructs an immutable record.
func NewInventoryRecord(params NewInventoryRecordParams) (InventoryRecord, error) {
	shopName := strings.TrimSpace(params.ShopName)
	if shopName == "" {
		return InventoryRecord{}, &ValidationError{Field: "shopName", Reason: "must not be blank"}
	}
	if params.VariantID <= 0 {
		return InventoryRecord{}, &ValidationError{Field: "variantId", Reason: "must be greater than zero"}
	}
	if params.LocationID <= 0 {
		return InventoryRecord{}, &ValidationError{Field: "locationId", Reason: "must be greater than zero"}
	}
	if params.Available < 0 {
		return InventoryRecord{}, &ValidationError{Field: "available", Reason: "must not be negative"}
	}
	updatedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(params.UpdatedAt))
	if err != nil {
		return InventoryRecord{}, &ValidationError{Field: "updatedAt", Reason: fmt.Sprintf("not a valid timestamp: %q", params.UpdatedAt)}
	}

	return InventoryRecord{
		shopName:        shopName,
		variantID:       params.VariantID,
		locationID:      params.LocationID,
		available:       params.Available,
		updatedAt:       updatedAt,
		inventoryItemID: params.InventoryItemID,
	}, nil
}

func (r InventoryRecord) ShopName() string     { return r.shopName }
func (r InventoryRecord) VariantID() int64     { return r.variantID }
func (r InventoryRecord) LocationID() int64    { return r.locationID }
func (r InventoryRecord) Available() int64     { return r.available }
func (r InventoryRecord) UpdatedAt() time.Time { return r.updatedAt }

// InventoryItemID returns the external correlation id, zero when absent.
func (r InventoryRecord) InventoryItemID() int64 { return r.inventoryItemID }

// CompositeKey groups all locations for one shop variant.
func (r InventoryRecord) CompositeKey() string {
	return CompositeKey(r.shopName, r.variantID)
}

// LocationKey distinguishes locations within the same composite key.
func (r InventoryRecord) LocationKey() string {
	return strconv.FormatInt(r.locationID, 10)
}

// CompositeKey derives the primary grouping key for a shop variant.
func CompositeKey(shopName string, variantID int64) string {
	return fmt.Sprintf("%s#%d", shopName, variantID)
}
