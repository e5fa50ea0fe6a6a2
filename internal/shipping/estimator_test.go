package shipping

import "testing"

func TestEstimate(t *testing.T) {
	tests := map[string]struct {
		req        Request
		wantGround float64
		wantFree   bool
		wantErr    bool
	}{
		"light package uses minimum base rate": {
			req: Request{
				ZipCode:  "94105",
				Items:    []Item{{ID: "p1", Weight: 2}},
				Subtotal: 50,
			},
			wantGround: 5.99,
		},
		"heavy package scales with weight": {
			req: Request{
				ZipCode:  "94105",
				Items:    []Item{{ID: "p1", Weight: 20}, {ID: "p2", Weight: 10}},
				Subtotal: 50,
			},
			wantGround: 15.00,
		},
		"free shipping at threshold": {
			req: Request{
				ZipCode:  "10001",
				Items:    []Item{{ID: "p1", Weight: 8}},
				Subtotal: 200,
			},
			wantGround: 0,
			wantFree:   true,
		},
		"missing zip": {
			req:     Request{Items: []Item{{ID: "p1", Weight: 1}}, Subtotal: 50},
			wantErr: true,
		},
		"missing items": {
			req:     Request{ZipCode: "94105", Subtotal: 50},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			q, err := Estimate(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(q.Rates) != 4 {
				t.Fatalf("expected 4 rates, got %d", len(q.Rates))
			}
			if q.Rates[0].Rate != tt.wantGround {
				t.Errorf("ground rate = %v, want %v", q.Rates[0].Rate, tt.wantGround)
			}
			if q.FreeShippingEligible != tt.wantFree {
				t.Errorf("freeShippingEligible = %v, want %v", q.FreeShippingEligible, tt.wantFree)
			}
		})
	}
}

func TestExpeditedNeverFree(t *testing.T) {
	q, err := Estimate(Request{
		ZipCode:  "10001",
		Items:    []Item{{ID: "p1", Weight: 8}},
		Subtotal: 500,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range q.Rates[2:] {
		if r.Rate == 0 {
			t.Errorf("%s %s should not be free", r.Carrier, r.Service)
		}
	}
}

func TestFlatRateFor(t *testing.T) {
	if got := FlatRateFor(199.99); got != FlatRate {
		t.Errorf("FlatRateFor(199.99) = %v, want %v", got, FlatRate)
	}
	if got := FlatRateFor(200.01); got != 0 {
		t.Errorf("FlatRateFor(200.01) = %v, want 0", got)
	}
}
