package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fr0stylo/stocksync/internal/app/domain"
	"github.com/fr0stylo/stocksync/internal/app/ports"
	"github.com/fr0stylo/stocksync/internal/db"
)

func openTestStore(t *testing.T) (*InventoryStore, *db.Database) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "inventory-test"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return NewInventoryStore(database), database
}

func record(t *testing.T, variantID, locationID, available int64, updatedAt string) domain.InventoryRecord {
	t.Helper()

	rec, err := domain.NewInventoryRecord(domain.NewInventoryRecordParams{
		ShopName:        "shop.example.com",
		VariantID:       variantID,
		LocationID:      locationID,
		Available:       available,
		UpdatedAt:       updatedAt,
		InventoryItemID: variantID,
	})
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	return rec
}

func TestSaveUpsertsLastWriteWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, database := openTestStore(t)

	first := record(t, 101, 11, 5, "2026-08-20T10:00:00Z")
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	second := record(t, 101, 11, 2, "2026-08-20T12:00:00Z")
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	count, err := database.CountInventoryLevels(ctx)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row after upsert, got %d", count)
	}

	level, err := store.GetByKeyAndLocation(ctx, "shop.example.com#101", "11")
	if err != nil {
		t.Fatalf("get level: %v", err)
	}
	if level.Available != 2 || level.UpdatedAt != "2026-08-20T12:00:00Z" {
		t.Fatalf("expected last write to win, got %+v", level)
	}
}

func TestSaveBatchWritesAllRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, database := openTestStore(t)

	records := []domain.InventoryRecord{
		record(t, 101, 11, 5, "2026-08-20T10:00:00Z"),
		record(t, 101, 12, 3, "2026-08-20T10:00:00Z"),
		record(t, 102, 11, 7, "2026-08-20T10:00:00Z"),
	}
	if err := store.SaveBatch(ctx, records); err != nil {
		t.Fatalf("save batch: %v", err)
	}

	count, err := database.CountInventoryLevels(ctx)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows, got %d", count)
	}
}

func TestGetByKeyGroupsLocations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := openTestStore(t)

	records := []domain.InventoryRecord{
		record(t, 101, 12, 3, "2026-08-20T10:00:00Z"),
		record(t, 101, 11, 5, "2026-08-20T10:00:00Z"),
		record(t, 102, 11, 7, "2026-08-20T10:00:00Z"),
	}
	if err := store.SaveBatch(ctx, records); err != nil {
		t.Fatalf("save batch: %v", err)
	}

	levels, err := store.GetByKey(ctx, "shop.example.com#101")
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 locations under composite key, got %d", len(levels))
	}
	if levels[0].LocationKey != "11" || levels[1].LocationKey != "12" {
		t.Fatalf("expected location key ordering, got %+v", levels)
	}
	if levels[0].VariantID != 101 || levels[0].ShopName != "shop.example.com" {
		t.Fatalf("unexpected row mapping: %+v", levels[0])
	}
}

func TestGetByKeyAndLocationNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := openTestStore(t)

	_, err := store.GetByKeyAndLocation(ctx, "shop.example.com#999", "1")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ports.ErrNotFound, got %v", err)
	}
}

func TestGetByKeyReturnsEmptySliceForUnknownKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := openTestStore(t)

	levels, err := store.GetByKey(ctx, "shop.example.com#999")
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if levels == nil || len(levels) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", levels)
	}
}
