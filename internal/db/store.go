package db

import (
	"context"
	"database/sql"
	"fmt"
)

const upsertInventoryLevelSQL = `
INSERT INTO inventory_levels (
    composite_key, location_key, shop_name, variant_id, location_id,
    available, inventory_item_id, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (composite_key, location_key) DO UPDATE SET
    shop_name = excluded.shop_name,
    variant_id = excluded.variant_id,
    location_id = excluded.location_id,
    available = excluded.available,
    inventory_item_id = excluded.inventory_item_id,
    updated_at = excluded.updated_at`

// InventoryLevelParams carries one upsert row.
type InventoryLevelParams struct {
	CompositeKey    string
	LocationKey     string
	ShopName        string
	VariantID       int64
	LocationID      int64
	Available       int64
	InventoryItemID sql.NullInt64
	UpdatedAt       string
}

// InventoryLevelRow is one persisted stock row.
type InventoryLevelRow struct {
	CompositeKey    string
	LocationKey     string
	ShopName        string
	VariantID       int64
	LocationID      int64
	Available       int64
	InventoryItemID sql.NullInt64
	UpdatedAt       string
}

// UpsertInventoryLevel writes one stock row, last write wins.
func (c *Database) UpsertInventoryLevel(ctx context.Context, params InventoryLevelParams) error {
	_, err := c.db.ExecContext(ctx, upsertInventoryLevelSQL,
		params.CompositeKey, params.LocationKey, params.ShopName,
		params.VariantID, params.LocationID, params.Available,
		params.InventoryItemID, params.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert inventory level %s/%s: %w", params.CompositeKey, params.LocationKey, err)
	}
	return nil
}

// UpsertInventoryLevels writes all rows inside a single transaction; on error
// nothing is committed.
func (c *Database) UpsertInventoryLevels(ctx context.Context, rows []InventoryLevelParams) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, upsertInventoryLevelSQL)
	if err != nil {
		return fmt.Errorf("prepare batch upsert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, params := range rows {
		_, err := stmt.ExecContext(ctx,
			params.CompositeKey, params.LocationKey, params.ShopName,
			params.VariantID, params.LocationID, params.Available,
			params.InventoryItemID, params.UpdatedAt)
		if err != nil {
			return fmt.Errorf("batch upsert %s/%s: %w", params.CompositeKey, params.LocationKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch upsert: %w", err)
	}
	return nil
}

// ListInventoryLevelsByCompositeKey returns all location rows for one
// composite key ordered by location key.
func (c *Database) ListInventoryLevelsByCompositeKey(ctx context.Context, compositeKey string) ([]InventoryLevelRow, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT composite_key, location_key, shop_name, variant_id, location_id,
       available, inventory_item_id, updated_at
FROM inventory_levels
WHERE composite_key = ?
ORDER BY location_key`, compositeKey)
	if err != nil {
		return nil, fmt.Errorf("list inventory levels %s: %w", compositeKey, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var levels []InventoryLevelRow
	for rows.Next() {
		var row InventoryLevelRow
		err := rows.Scan(&row.CompositeKey, &row.LocationKey, &row.ShopName,
			&row.VariantID, &row.LocationID, &row.Available,
			&row.InventoryItemID, &row.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan inventory level: %w", err)
		}
		levels = append(levels, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory levels: %w", err)
	}
	return levels, nil
}

// GetInventoryLevel returns one stock row, sql.ErrNoRows when absent.
func (c *Database) GetInventoryLevel(ctx context.Context, compositeKey, locationKey string) (InventoryLevelRow, error) {
	var row InventoryLevelRow
	err := c.db.QueryRowContext(ctx, `
SELECT composite_key, location_key, shop_name, variant_id, location_id,
       available, inventory_item_id, updated_at
FROM inventory_levels
WHERE composite_key = ? AND location_key = ?`, compositeKey, locationKey).
		Scan(&row.CompositeKey, &row.LocationKey, &row.ShopName,
			&row.VariantID, &row.LocationID, &row.Available,
			&row.InventoryItemID, &row.UpdatedAt)
	if err != nil {
		return InventoryLevelRow{}, err
	}
	return row, nil
}

// CountInventoryLevels returns the total stored row count.
func (c *Database) CountInventoryLevels(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory_levels`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count inventory levels: %w", err)
	}
	return count, nil
}
