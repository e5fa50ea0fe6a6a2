// Package shipping computes quote options from weight and subtotal
// heuristics. No carrier API is involved; rates are deterministic.
package shipping

import (
	"github.com/r-mccarty/opticworks-store-sub001/internal/apperr"
	"github.com/r-mccarty/opticworks-store-sub001/internal/tax"
)

// FreeShippingThreshold is the subtotal at which ground shipping is free.
const FreeShippingThreshold = 200.0

// FlatRate is the standard shipping charge below the threshold, used by the
// payment orchestration when no carrier quote was requested.
const FlatRate = 15.99

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Item struct {
	ID         string     `json:"id"`
	Weight     float64    `json:"weight"`
	Dimensions Dimensions `json:"dimensions"`
}

type Request struct {
	ZipCode  string  `json:"zipCode"`
	Items    []Item  `json:"items"`
	Subtotal float64 `json:"subtotal"`
}

type Rate struct {
	Carrier          string  `json:"carrier"`
	Service          string  `json:"service"`
	Rate             float64 `json:"rate"`
	EstimatedDays    string  `json:"estimatedDays"`
	TrackingIncluded bool    `json:"trackingIncluded"`
}

type Quote struct {
	Rates                 []Rate  `json:"rates"`
	FreeShippingEligible  bool    `json:"freeShippingEligible"`
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
}

// FlatRateFor returns the flat shipping charge for a given subtotal.
func FlatRateFor(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatRate
}

// Estimate builds the carrier quote list. Ground services are free above the
// threshold; expedited services always charge.
func Estimate(req Request) (Quote, error) {
	if req.ZipCode == "" || req.Items == nil || req.Subtotal == 0 {
		return Quote{}, apperr.Validationf("Missing required fields: zipCode, items, subtotal")
	}

	var totalWeight float64
	for _, it := range req.Items {
		totalWeight += it.Weight
	}

	baseRate := totalWeight * 0.5
	if baseRate < 5.99 {
		baseRate = 5.99
	}

	free := req.Subtotal >= FreeShippingThreshold
	ground := baseRate
	upsGround := baseRate + 2.50
	if free {
		ground = 0
		upsGround = 0
	}

	return Quote{
		Rates: []Rate{
			{Carrier: "USPS", Service: "Ground Advantage", Rate: tax.RoundCents(ground), EstimatedDays: "3-5", TrackingIncluded: true},
			{Carrier: "UPS", Service: "Ground", Rate: tax.RoundCents(upsGround), EstimatedDays: "2-4", TrackingIncluded: true},
			{Carrier: "FedEx", Service: "2Day", Rate: tax.RoundCents(baseRate * 2.5), EstimatedDays: "2", TrackingIncluded: true},
			{Carrier: "UPS", Service: "Next Day Air", Rate: tax.RoundCents(baseRate * 4), EstimatedDays: "1", TrackingIncluded: true},
		},
		FreeShippingEligible:  free,
		FreeShippingThreshold: FreeShippingThreshold,
	}, nil
}
