// Package tax implements the local-table sales tax strategy. The taxable
// base excludes items marked non-taxable, and a fixed set of states does not
// tax shipping. Unknown state codes resolve to a zero rate: the calculation
// fails open, never closed.
package tax

import (
	"math"
	"strings"

	"github.com/r-mccarty/opticworks-store-sub001/internal/apperr"
)

type Item struct {
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Taxable  bool    `json:"taxable"`
}

type Address struct {
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	City    string `json:"city"`
}

type Request struct {
	Subtotal        float64 `json:"subtotal"`
	Shipping        float64 `json:"shipping"`
	ShippingAddress Address `json:"shippingAddress"`
	Items           []Item  `json:"items"`
}

type Rate struct {
	State         string  `json:"state"`
	StateTaxRate  float64 `json:"stateTaxRate"`
	CountyTaxRate float64 `json:"countyTaxRate"`
	CityTaxRate   float64 `json:"cityTaxRate"`
	TotalTaxRate  float64 `json:"totalTaxRate"`
}

type Breakdown struct {
	StateTax  float64 `json:"stateTax"`
	CountyTax float64 `json:"countyTax"`
	CityTax   float64 `json:"cityTax"`
}

type Result struct {
	TaxAmount     float64   `json:"taxAmount"`
	TaxableAmount float64   `json:"taxableAmount"`
	TaxRate       Rate      `json:"taxRate"`
	Breakdown     Breakdown `json:"breakdown"`
}

// Calculate applies the state table to the taxable base. Validation failures
// are reported before any rate lookup.
func Calculate(req Request) (Result, error) {
	if req.Subtotal == 0 || req.ShippingAddress.State == "" || req.Items == nil {
		return Result{}, apperr.Validationf("Missing required fields: subtotal, shippingAddress.state, items")
	}

	state := strings.ToUpper(req.ShippingAddress.State)
	rate := stateTaxRates[state]

	var taxableSubtotal float64
	for _, it := range req.Items {
		if it.Taxable {
			taxableSubtotal += it.Price * float64(it.Quantity)
		}
	}

	taxableShipping := req.Shipping
	if shippingTaxExempt[state] {
		taxableShipping = 0
	}

	taxableAmount := taxableSubtotal + taxableShipping
	taxAmount := RoundCents(taxableAmount * rate)

	return Result{
		TaxAmount:     taxAmount,
		TaxableAmount: taxableAmount,
		TaxRate: Rate{
			State:        state,
			StateTaxRate: rate,
			TotalTaxRate: rate,
		},
		Breakdown: Breakdown{StateTax: taxAmount},
	}, nil
}

// RoundCents rounds a dollar amount to the nearest cent.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
