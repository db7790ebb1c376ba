package domain

import (
	"errors"
	"testing"
)

func validParams() NewInventoryRecordParams {
	return NewInventoryRecordParams{
		ShopName:        "shop.example.com",
		VariantID:       802,
		LocationID:      11,
		Available:       5,
		UpdatedAt:       "2026-08-20T10:00:00Z",
		InventoryItemID: 802,
	}
}

func TestNewInventoryRecordDerivesKeys(t *testing.T) {
	t.Parallel()

	record, err := NewInventoryRecord(validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := record.CompositeKey(), "shop.example.com#802"; got != want {
		t.Fatalf("unexpected composite key: got=%q want=%q", got, want)
	}
	if got, want := record.LocationKey(), "11"; got != want {
		t.Fatalf("unexpected location key: got=%q want=%q", got, want)
	}
	if record.Available() != 5 {
		t.Fatalf("unexpected available: %d", record.Available())
	}
}

func TestNewInventoryRecordAcceptsZeroAvailable(t *testing.T) {
	t.Parallel()

	params := validParams()
	params.Available = 0
	record, err := NewInventoryRecord(params)
	if err != nil {
		t.Fatalf("zero available must be valid: %v", err)
	}
	if record.Available() != 0 {
		t.Fatalf("unexpected available: %d", record.Available())
	}
}

func TestNewInventoryRecordTrimsShopName(t *testing.T) {
	t.Parallel()

	params := validParams()
	params.ShopName = "  shop.example.com  "
	record, err := NewInventoryRecord(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ShopName() != "shop.example.com" {
		t.Fatalf("expected trimmed shop name, got %q", record.ShopName())
	}
}

func TestNewInventoryRecordRejectsInvalidFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		mutate    func(*NewInventoryRecordParams)
		wantField string
	}{
		{"blank shop name", func(p *NewInventoryRecordParams) { p.ShopName = "   " }, "shopName"},
		{"zero variant id", func(p *NewInventoryRecordParams) { p.VariantID = 0 }, "variantId"},
		{"negative variant id", func(p *NewInventoryRecordParams) { p.VariantID = -4 }, "variantId"},
		{"zero location id", func(p *NewInventoryRecordParams) { p.LocationID = 0 }, "locationId"},
		{"negative available", func(p *NewInventoryRecordParams) { p.Available = -1 }, "available"},
		{"unparsable timestamp", func(p *NewInventoryRecordParams) { p.UpdatedAt = "yesterday" }, "updatedAt"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			params := validParams()
			tc.mutate(&params)
			_, err := NewInventoryRecord(params)
			if err == nil {
				t.Fatal("expected construction to fail")
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if validationErr.Field != tc.wantField {
				t.Fatalf("unexpected field: got=%q want=%q", validationErr.Field, tc.wantField)
			}
		})
	}
}
