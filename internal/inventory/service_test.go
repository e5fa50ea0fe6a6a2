package inventory

import (
	"context"
	"testing"
)

func TestStatusFor(t *testing.T) {
	tests := map[string]struct {
		available int
		reserved  int
		want      Status
	}{
		"plenty":          {available: 50, reserved: 5, want: StatusInStock},
		"boundary eleven": {available: 11, reserved: 0, want: StatusInStock},
		"boundary ten":    {available: 10, reserved: 0, want: StatusLowStock},
		"low":             {available: 8, reserved: 1, want: StatusLowStock},
		"exactly zero":    {available: 5, reserved: 5, want: StatusOutOfStock},
		"oversold":        {available: 3, reserved: 7, want: StatusOutOfStock},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := StatusFor(tt.available, tt.reserved); got != tt.want {
				t.Errorf("StatusFor(%d, %d) = %s, want %s", tt.available, tt.reserved, got, tt.want)
			}
		})
	}
}

func TestCheckLowStockShortfall(t *testing.T) {
	svc := NewService(NewMemoryRepository(CatalogSeed()))

	res, err := svc.Check(context.Background(), []CheckLine{
		{ID: "cybershade-irx-sunroof", Quantity: 10},
	})
	if err != nil {
		t.Fatal(err)
	}

	// available 8, reserved 1 -> sellable 7: low stock and cannot fulfill 10
	if res.AllItemsAvailable {
		t.Error("expected allItemsAvailable=false")
	}
	if !res.HasLowStock {
		t.Error("expected hasLowStock=true")
	}
	if len(res.Inventory) != 1 {
		t.Fatalf("expected 1 result, got %d", len(res.Inventory))
	}
	got := res.Inventory[0]
	if got.Status != StatusLowStock {
		t.Errorf("status = %s, want low_stock", got.Status)
	}
	if got.Available != 7 {
		t.Errorf("available = %d, want 7", got.Available)
	}
}

func TestCheckUnknownProduct(t *testing.T) {
	svc := NewService(NewMemoryRepository(CatalogSeed()))

	res, err := svc.Check(context.Background(), []CheckLine{
		{ID: "does-not-exist", Quantity: 1},
		{ID: "pro-install-kit", Quantity: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.AllItemsAvailable {
		t.Error("unknown product should fail the batch")
	}
	if res.Inventory[0].Status != StatusOutOfStock {
		t.Errorf("unknown product status = %s", res.Inventory[0].Status)
	}
	if res.Inventory[1].Status != StatusInStock {
		t.Errorf("pro-install-kit status = %s", res.Inventory[1].Status)
	}
	if res.Summary.TotalItems != 2 || res.Summary.OutOfStock != 1 || res.Summary.InStock != 1 {
		t.Errorf("summary = %+v", res.Summary)
	}
}

func TestCheckFulfillableBatch(t *testing.T) {
	svc := NewService(NewMemoryRepository(CatalogSeed()))

	res, err := svc.Check(context.Background(), []CheckLine{
		{ID: "basic-install-kit", Quantity: 3},
		{ID: "professional-squeegee-set", Quantity: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.AllItemsAvailable {
		t.Error("expected batch to be fulfillable")
	}
	if res.HasLowStock {
		t.Error("expected no low stock flags")
	}
}

func TestLookup(t *testing.T) {
	svc := NewService(NewMemoryRepository(CatalogSeed()))

	got, err := svc.Lookup(context.Background(), "cybershade-irx-modelx-falcon")
	if err != nil {
		t.Fatal(err)
	}
	if got.Available != 5 {
		t.Errorf("available = %d, want 5", got.Available)
	}
	if got.Status != StatusLowStock {
		t.Errorf("status = %s, want low_stock", got.Status)
	}
	if got.EstimatedRestockDate != "2025-09-15" {
		t.Errorf("restock date = %q", got.EstimatedRestockDate)
	}

	if _, err := svc.Lookup(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
