package checkout

import (
	"context"

	"github.com/r-mccarty/opticworks-store-sub001/internal/apperr"
	"github.com/r-mccarty/opticworks-store-sub001/internal/clients"
)

type SessionTaxRequest struct {
	Items           []Item                `json:"items"`
	ShippingAddress clients.StripeAddress `json:"shippingAddress"`
}

type SessionTaxBreakdown struct {
	Jurisdiction string  `json:"jurisdiction"`
	Rate         string  `json:"rate"`
	TaxAmount    float64 `json:"taxAmount"`
}

type SessionTaxResult struct {
	Success       bool                  `json:"success"`
	TaxAmount     float64               `json:"taxAmount"`
	Subtotal      float64               `json:"subtotal"`
	Total         float64               `json:"total"`
	TaxBreakdown  []SessionTaxBreakdown `json:"taxBreakdown"`
	CalculationID string                `json:"calculationId"`
}

// SessionTax delegates tax calculation to the payment processor's tax API.
// Line amounts are price*quantity in minor units; the destination address
// drives jurisdiction resolution.
func (s *Service) SessionTax(ctx context.Context, req SessionTaxRequest) (*SessionTaxResult, error) {
	if len(req.Items) == 0 || req.ShippingAddress.State == "" {
		return nil, apperr.Validationf("Missing required fields: items and shippingAddress")
	}

	lines := make([]clients.TaxLineItem, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, clients.TaxLineItem{
			AmountCents: clients.Cents(it.Price * float64(it.Quantity)),
			Reference:   it.ID,
		})
	}

	calc, err := s.stripe.CreateTaxCalculation(ctx, lines, req.ShippingAddress)
	if err != nil {
		return nil, err
	}

	res := &SessionTaxResult{
		Success:       true,
		TaxAmount:     float64(calc.TaxAmountExclusive) / 100,
		Subtotal:      float64(calc.AmountTotal-calc.TaxAmountExclusive) / 100,
		Total:         float64(calc.AmountTotal) / 100,
		CalculationID: calc.ID,
	}
	for _, b := range calc.TaxBreakdown {
		jurisdiction := b.Jurisdiction.DisplayName
		if jurisdiction == "" {
			jurisdiction = "Unknown"
		}
		res.TaxBreakdown = append(res.TaxBreakdown, SessionTaxBreakdown{
			Jurisdiction: jurisdiction,
			Rate:         b.TaxRateDetails.PercentageDecimal,
			TaxAmount:    float64(b.TaxAmount) / 100,
		})
	}
	return res, nil
}
