package domain

// StockLevel is the persisted row shape returned by read-side queries.
type StockLevel struct {
	CompositeKey    string `json:"composite_key"`
	LocationKey     string `json:"location_key"`
	ShopName        string `json:"shop_name"`
	VariantID       int64  `json:"variant_id"`
	LocationID      int64  `json:"location_id"`
	Available       int64  `json:"available"`
	InventoryItemID int64  `json:"inventory_item_id,omitempty"`
	UpdatedAt       string `json:"updated_at"`
}
