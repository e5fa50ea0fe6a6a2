package checkout

import (
	"context"
	"testing"

	"github.com/r-mccarty/opticworks-store-sub001/internal/apperr"
	"github.com/r-mccarty/opticworks-store-sub001/internal/clients"
)

func TestSessionTaxMapsCalculation(t *testing.T) {
	f := newFakeStripe(t)
	f.responses["POST /v1/tax/calculations"] = `{
		"id": "taxcalc_1",
		"tax_amount_exclusive": 725,
		"amount_total": 10723,
		"tax_breakdown": [
			{"tax_amount": 725, "jurisdiction": {"display_name": "California"}, "tax_rate_details": {"percentage_decimal": "7.25"}}
		]
	}`

	svc, _, _ := newTestService(t, f)
	res, err := svc.SessionTax(context.Background(), SessionTaxRequest{
		Items: []Item{{ID: "cybershade-irx-model3", Price: 49.99, Quantity: 2}},
		ShippingAddress: clients.StripeAddress{
			City: "San Francisco", State: "CA", PostalCode: "94105",
		},
	})
	if err != nil {
		t.Fatalf("SessionTax: %v", err)
	}

	if !res.Success || res.CalculationID != "taxcalc_1" {
		t.Fatalf("result = %+v", res)
	}
	if res.TaxAmount != 7.25 || res.Subtotal != 99.98 || res.Total != 107.23 {
		t.Fatalf("amounts = %+v", res)
	}
	if len(res.TaxBreakdown) != 1 || res.TaxBreakdown[0].Jurisdiction != "California" {
		t.Fatalf("breakdown = %+v", res.TaxBreakdown)
	}

	form := f.forms["POST /v1/tax/calculations"]
	if form.Get("line_items[0][amount]") != "9998" {
		t.Fatalf("line amount = %s", form.Get("line_items[0][amount]"))
	}
	if form.Get("line_items[0][tax_code]") != "txcd_99999999" {
		t.Fatal("tangible-goods tax code missing")
	}
	if form.Get("line_items[0][tax_behavior]") != "exclusive" {
		t.Fatal("tax behavior must be exclusive")
	}
	if form.Get("customer_details[address][line1]") != "123 Main St" {
		t.Fatalf("default line1 not applied: %q", form.Get("customer_details[address][line1]"))
	}
}

func TestSessionTaxValidation(t *testing.T) {
	svc, _, _ := newTestService(t, newFakeStripe(t))

	_, err := svc.SessionTax(context.Background(), SessionTaxRequest{})
	ae, ok := apperr.As(err)
	if !ok || ae.Status() != 400 {
		t.Fatalf("err = %v, want validation error", err)
	}
}
