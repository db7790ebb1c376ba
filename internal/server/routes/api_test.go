package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/stocksync/internal/app/domain"
	"github.com/fr0stylo/stocksync/internal/app/ports"
	"github.com/fr0stylo/stocksync/internal/app/services"
)

type fakeReadStore struct {
	levels []domain.StockLevel
}

func (f *fakeReadStore) Save(ctx context.Context, record domain.InventoryRecord) error { return nil }

func (f *fakeReadStore) SaveBatch(ctx context.Context, records []domain.InventoryRecord) error {
	return nil
}

func (f *fakeReadStore) GetByKey(ctx context.Context, compositeKey string) ([]domain.StockLevel, error) {
	var matched []domain.StockLevel
	for _, level := range f.levels {
		if level.CompositeKey == compositeKey {
			matched = append(matched, level)
		}
	}
	return matched, nil
}

func (f *fakeReadStore) GetByKeyAndLocation(ctx context.Context, compositeKey, locationKey string) (domain.StockLevel, error) {
	for _, level := range f.levels {
		if level.CompositeKey == compositeKey && level.LocationKey == locationKey {
			return level, nil
		}
	}
	return domain.StockLevel{}, ports.ErrNotFound
}

func newInventoryRoutes(levels []domain.StockLevel) *InventoryRoutes {
	return NewInventoryRoutes(services.NewInventoryReadService(&fakeReadStore{levels: levels}))
}

func invokeRead(t *testing.T, handler func(echo.Context) error, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestHandleGetLevelsReturnsAllLocations(t *testing.T) {
	t.Parallel()

	routes := newInventoryRoutes([]domain.StockLevel{
		{CompositeKey: "shop.example.com#101", LocationKey: "11", ShopName: "shop.example.com", VariantID: 101, LocationID: 11, Available: 5, UpdatedAt: "2026-08-20T10:00:00Z"},
		{CompositeKey: "shop.example.com#101", LocationKey: "12", ShopName: "shop.example.com", VariantID: 101, LocationID: 12, Available: 3, UpdatedAt: "2026-08-20T10:00:00Z"},
	})

	rec := invokeRead(t, routes.handleGetLevels, map[string]string{"shop": "shop.example.com", "variant": "101"})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}

	var levels []domain.StockLevel
	if err := json.Unmarshal(rec.Body.Bytes(), &levels); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("unexpected level count: got=%d want=2", len(levels))
	}
}

func TestHandleGetLevelsRejectsBadVariant(t *testing.T) {
	t.Parallel()

	routes := newInventoryRoutes(nil)

	rec := invokeRead(t, routes.handleGetLevels, map[string]string{"shop": "shop.example.com", "variant": "abc"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleGetLevelNotFound(t *testing.T) {
	t.Parallel()

	routes := newInventoryRoutes(nil)

	rec := invokeRead(t, routes.handleGetLevel, map[string]string{"shop": "shop.example.com", "variant": "101", "location": "99"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleGetLevelReturnsRow(t *testing.T) {
	t.Parallel()

	routes := newInventoryRoutes([]domain.StockLevel{
		{CompositeKey: "shop.example.com#101", LocationKey: "11", ShopName: "shop.example.com", VariantID: 101, LocationID: 11, Available: 5, UpdatedAt: "2026-08-20T10:00:00Z"},
	})

	rec := invokeRead(t, routes.handleGetLevel, map[string]string{"shop": "shop.example.com", "variant": "101", "location": "11"})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}

	var level domain.StockLevel
	if err := json.Unmarshal(rec.Body.Bytes(), &level); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if level.Available != 5 || level.LocationKey != "11" {
		t.Fatalf("unexpected row: %+v", level)
	}
}
