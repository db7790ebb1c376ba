package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fr0stylo/stocksync/internal/app/domain"
	"github.com/fr0stylo/stocksync/internal/app/ports"
	"github.com/fr0stylo/stocksync/internal/db"
)

type inventoryDatabase interface {
	UpsertInventoryLevel(ctx context.Context, params db.InventoryLevelParams) error
	UpsertInventoryLevels(ctx context.Context, rows []db.InventoryLevelParams) error
	ListInventoryLevelsByCompositeKey(ctx context.Context, compositeKey string) ([]db.InventoryLevelRow, error)
	GetInventoryLevel(ctx context.Context, compositeKey, locationKey string) (db.InventoryLevelRow, error)
}

// InventoryStore implements ports.InventoryStore over the SQLite database.
type InventoryStore struct {
	db inventoryDatabase
}

// NewInventoryStore wraps the shared database connection.
func NewInventoryStore(database inventoryDatabase) *InventoryStore {
	return &InventoryStore{db: database}
}

func (s *InventoryStore) Save(ctx context.Context, record domain.InventoryRecord) error {
	return s.db.UpsertInventoryLevel(ctx, rowParams(record))
}

func (s *InventoryStore) SaveBatch(ctx context.Context, records []domain.InventoryRecord) error {
	rows := make([]db.InventoryLevelParams, 0, len(records))
	for _, record := range records {
		rows = append(rows, rowParams(record))
	}
	return s.db.UpsertInventoryLevels(ctx, rows)
}

func (s *InventoryStore) GetByKey(ctx context.Context, compositeKey string) ([]domain.StockLevel, error) {
	rows, err := s.db.ListInventoryLevelsByCompositeKey(ctx, compositeKey)
	if err != nil {
		return nil, err
	}
	levels := make([]domain.StockLevel, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, stockLevel(row))
	}
	return levels, nil
}

func (s *InventoryStore) GetByKeyAndLocation(ctx context.Context, compositeKey, locationKey string) (domain.StockLevel, error) {
	row, err := s.db.GetInventoryLevel(ctx, compositeKey, locationKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StockLevel{}, ports.ErrNotFound
		}
		return domain.StockLevel{}, err
	}
	return stockLevel(row), nil
}

func rowParams(record domain.InventoryRecord) db.InventoryLevelParams {
	itemID := sql.NullInt64{}
	if record.InventoryItemID() != 0 {
		itemID = sql.NullInt64{Int64: record.InventoryItemID(), Valid: true}
	}
	return db.InventoryLevelParams{
		CompositeKey:    record.CompositeKey(),
		LocationKey:     record.LocationKey(),
		ShopName:        record.ShopName(),
		VariantID:       record.VariantID(),
		LocationID:      record.LocationID(),
		Available:       record.Available(),
		InventoryItemID: itemID,
		UpdatedAt:       record.UpdatedAt().UTC().Format(time.RFC3339),
	}
}

func stockLevel(row db.InventoryLevelRow) domain.StockLevel {
	itemID := int64(0)
	if row.InventoryItemID.Valid {
		itemID = row.InventoryItemID.Int64
	}
	return domain.StockLevel{
		CompositeKey:    row.CompositeKey,
		LocationKey:     row.LocationKey,
		ShopName:        row.ShopName,
		VariantID:       row.VariantID,
		LocationID:      row.LocationID,
		Available:       row.Available,
		InventoryItemID: itemID,
		UpdatedAt:       row.UpdatedAt,
	}
}

var _ ports.InventoryStore = (*InventoryStore)(nil)
