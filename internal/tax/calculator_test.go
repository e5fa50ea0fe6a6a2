package tax

import (
	"math"
	"testing"
)

func TestCalculate(t *testing.T) {
	tests := map[string]struct {
		req           Request
		wantTax       float64
		wantTaxable   float64
		wantRate      float64
		wantErr       bool
	}{
		"california example": {
			req: Request{
				Subtotal: 99.98,
				Shipping: 0,
				ShippingAddress: Address{State: "CA"},
				Items: []Item{
					{ID: "p1", Price: 49.99, Quantity: 2, Taxable: true},
				},
			},
			wantTax:     7.25,
			wantTaxable: 99.98,
			wantRate:    0.0725,
		},
		"lowercase state code": {
			req: Request{
				Subtotal:        100,
				ShippingAddress: Address{State: "ny"},
				Items:           []Item{{ID: "p1", Price: 100, Quantity: 1, Taxable: true}},
			},
			wantTax:     8.00,
			wantTaxable: 100,
			wantRate:    0.08,
		},
		"non-taxable items excluded": {
			req: Request{
				Subtotal:        150,
				ShippingAddress: Address{State: "TX"},
				Items: []Item{
					{ID: "p1", Price: 100, Quantity: 1, Taxable: true},
					{ID: "gift-card", Price: 50, Quantity: 1, Taxable: false},
				},
			},
			wantTax:     6.25,
			wantTaxable: 100,
			wantRate:    0.0625,
		},
		"shipping taxed in non-exempt state": {
			req: Request{
				Subtotal:        100,
				Shipping:        10,
				ShippingAddress: Address{State: "WA"},
				Items:           []Item{{ID: "p1", Price: 100, Quantity: 1, Taxable: true}},
			},
			wantTax:     7.15,
			wantTaxable: 110,
			wantRate:    0.065,
		},
		"shipping exempt in CA": {
			req: Request{
				Subtotal:        100,
				Shipping:        10,
				ShippingAddress: Address{State: "CA"},
				Items:           []Item{{ID: "p1", Price: 100, Quantity: 1, Taxable: true}},
			},
			wantTax:     7.25,
			wantTaxable: 100,
			wantRate:    0.0725,
		},
		"unknown state fails open to zero rate": {
			req: Request{
				Subtotal:        100,
				ShippingAddress: Address{State: "ZZ"},
				Items:           []Item{{ID: "p1", Price: 100, Quantity: 1, Taxable: true}},
			},
			wantTax:     0,
			wantTaxable: 100,
			wantRate:    0,
		},
		"zero-rate state": {
			req: Request{
				Subtotal:        100,
				ShippingAddress: Address{State: "OR"},
				Items:           []Item{{ID: "p1", Price: 100, Quantity: 1, Taxable: true}},
			},
			wantTax:     0,
			wantTaxable: 100,
			wantRate:    0,
		},
		"missing subtotal": {
			req: Request{
				ShippingAddress: Address{State: "CA"},
				Items:           []Item{{ID: "p1", Price: 10, Quantity: 1, Taxable: true}},
			},
			wantErr: true,
		},
		"missing state": {
			req: Request{
				Subtotal: 100,
				Items:    []Item{{ID: "p1", Price: 100, Quantity: 1, Taxable: true}},
			},
			wantErr: true,
		},
		"missing items": {
			req: Request{
				Subtotal:        100,
				ShippingAddress: Address{State: "CA"},
			},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := Calculate(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.TaxAmount != tt.wantTax {
				t.Errorf("taxAmount = %v, want %v", res.TaxAmount, tt.wantTax)
			}
			if res.TaxableAmount != tt.wantTaxable {
				t.Errorf("taxableAmount = %v, want %v", res.TaxableAmount, tt.wantTaxable)
			}
			if res.TaxRate.TotalTaxRate != tt.wantRate {
				t.Errorf("totalTaxRate = %v, want %v", res.TaxRate.TotalTaxRate, tt.wantRate)
			}
		})
	}
}

func TestShippingDoesNotChangeTaxInExemptStates(t *testing.T) {
	for _, state := range []string{"CA", "NY", "TX", "FL"} {
		base := Request{
			Subtotal:        200,
			ShippingAddress: Address{State: state},
			Items:           []Item{{ID: "p1", Price: 200, Quantity: 1, Taxable: true}},
		}
		noShip, err := Calculate(base)
		if err != nil {
			t.Fatalf("%s: %v", state, err)
		}
		base.Shipping = 15.99
		withShip, err := Calculate(base)
		if err != nil {
			t.Fatalf("%s: %v", state, err)
		}
		if noShip.TaxAmount != withShip.TaxAmount {
			t.Errorf("%s: shipping changed tax: %v vs %v", state, noShip.TaxAmount, withShip.TaxAmount)
		}
	}
}

func TestRoundCents(t *testing.T) {
	cases := map[float64]float64{
		7.24855:  7.25,
		0.005:    0.01,
		15.99:    15.99,
		0:        0,
		123.4549: 123.45,
	}
	for in, want := range cases {
		if got := RoundCents(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("RoundCents(%v) = %v, want %v", in, got, want)
		}
	}
}
