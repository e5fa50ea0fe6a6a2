// Package checkout orchestrates the payment flows against the payment
// processor: payment intents, embedded checkout sessions, order lookup, and
// webhook-driven order finalization.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/r-mccarty/opticworks-store-sub001/internal/apperr"
	"github.com/r-mccarty/opticworks-store-sub001/internal/clients"
	"github.com/r-mccarty/opticworks-store-sub001/internal/events"
	"github.com/r-mccarty/opticworks-store-sub001/internal/order"
	"github.com/r-mccarty/opticworks-store-sub001/internal/shipping"
	"github.com/r-mccarty/opticworks-store-sub001/internal/tax"
)

// EventPublisher decouples the webhook path from the message broker. The
// rabbit-backed implementation lives in the events package.
type EventPublisher interface {
	PublishPaymentSucceeded(ctx context.Context, ev events.PaymentSucceeded) error
	PublishPaymentFailed(ctx context.Context, ev events.PaymentFailed) error
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPaymentSucceeded(context.Context, events.PaymentSucceeded) error {
	return nil
}
func (NoopPublisher) PublishPaymentFailed(context.Context, events.PaymentFailed) error {
	return nil
}

type Service struct {
	stripe    *clients.StripeClient
	orders    order.Repository
	publisher EventPublisher
	logger    *log.Logger
	now       func() time.Time
}

func NewService(stripe *clients.StripeClient, orders order.Repository, publisher EventPublisher, logger *log.Logger) *Service {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Service{
		stripe:    stripe,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type CustomerInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

type PaymentIntentRequest struct {
	Items           []Item                `json:"items"`
	CustomerInfo    CustomerInfo          `json:"customerInfo"`
	ShippingAddress clients.StripeAddress `json:"shippingAddress"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	CustomerID      string `json:"customerId"`
	Totals          Totals `json:"totals"`
}

func subtotalOf(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// CreatePaymentIntent resolves the customer by email (reuse if found, else
// create), computes subtotal + shipping + tax, and creates an intent for the
// full amount in minor units. Every vendor-mutating call carries a fresh
// idempotency key so a vendor-side retry cannot duplicate the resource; the
// lookup-then-create customer resolution remains the one unguarded race.
func (s *Service) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntentResponse, error) {
	if len(req.Items) == 0 || req.CustomerInfo.Email == "" || req.CustomerInfo.Name == "" || req.ShippingAddress.Line1 == "" {
		return nil, apperr.Validationf("Missing required fields")
	}

	subtotal := subtotalOf(req.Items)
	shippingCost := shipping.FlatRateFor(subtotal)

	taxItems := make([]tax.Item, 0, len(req.Items))
	for _, it := range req.Items {
		taxItems = append(taxItems, tax.Item{ID: it.ID, Price: it.Price, Quantity: it.Quantity, Taxable: true})
	}
	taxRes, err := tax.Calculate(tax.Request{
		Subtotal: subtotal,
		Shipping: shippingCost,
		ShippingAddress: tax.Address{
			State:   req.ShippingAddress.State,
			City:    req.ShippingAddress.City,
			ZipCode: req.ShippingAddress.PostalCode,
		},
		Items: taxItems,
	})
	if err != nil {
		return nil, err
	}

	totals := Totals{
		Subtotal: subtotal,
		Shipping: shippingCost,
		Tax:      taxRes.TaxAmount,
		Total:    tax.RoundCents(subtotal + shippingCost + taxRes.TaxAmount),
	}

	customer, err := s.stripe.FindCustomerByEmail(ctx, req.CustomerInfo.Email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		customer, err = s.stripe.CreateCustomer(ctx, req.CustomerInfo.Email, req.CustomerInfo.Name, req.ShippingAddress, uuid.NewString())
		if err != nil {
			return nil, err
		}
	}

	itemsJSON, err := json.Marshal(req.Items)
	if err != nil {
		return nil, apperr.Internalf(err, "Failed to create payment intent")
	}

	pi, err := s.stripe.CreatePaymentIntent(ctx, clients.PaymentIntentParams{
		AmountCents:  clients.Cents(totals.Total),
		CustomerID:   customer.ID,
		CustomerName: req.CustomerInfo.Name,
		Address:      req.ShippingAddress,
		Metadata: map[string]string{
			"subtotal": fmt.Sprintf("%.2f", totals.Subtotal),
			"shipping": fmt.Sprintf("%.2f", totals.Shipping),
			"tax":      fmt.Sprintf("%.2f", totals.Tax),
			"items":    string(itemsJSON),
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	return &PaymentIntentResponse{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
		CustomerID:      customer.ID,
		Totals:          totals,
	}, nil
}

type CheckoutSessionRequest struct {
	Items []Item `json:"items"`
}

type CheckoutSessionResponse struct {
	ClientSecret string `json:"clientSecret"`
	SessionID    string `json:"sessionId"`
}

// itemSnapshot is embedded into session metadata for downstream shipping
// computation. Weight is a placeholder until the catalog carries real
// product weights.
type itemSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Weight   float64 `json:"weight"`
}

// CreateCheckoutSession builds an embedded-components session from the cart
// items alone. Customer and address are collected by the vendor-hosted UI,
// and the vendor computes tax on its side.
func (s *Service) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSessionResponse, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validationf("Missing required fields")
	}

	lineItems := make([]clients.SessionLineItem, 0, len(req.Items))
	snapshot := make([]itemSnapshot, 0, len(req.Items))
	for _, it := range req.Items {
		lineItems = append(lineItems, clients.SessionLineItem{
			Name:            it.Name,
			ProductID:       it.ID,
			UnitAmountCents: clients.Cents(it.Price),
			Quantity:        it.Quantity,
		})
		snapshot = append(snapshot, itemSnapshot{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Weight:   1,
		})
	}

	snapJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, apperr.Internalf(err, "Failed to create checkout session")
	}

	sess, err := s.stripe.CreateCheckoutSession(ctx, clients.CheckoutSessionParams{
		LineItems: lineItems,
		Metadata: map[string]string{
			"items":       string(snapJSON),
			"items_count": fmt.Sprintf("%d", len(req.Items)),
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutSessionResponse{
		ClientSecret: sess.ClientSecret,
		SessionID:    sess.ID,
	}, nil
}

type OrderDetails struct {
	OrderID       string  `json:"orderId"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	Total         float64 `json:"total"`
}

// OrderDetails serves from the local order store first; when the webhook has
// not yet written a record it falls back to querying the payment processor
// for checkout sessions and requires exactly one complete match. Zero or
// many matches, or a session missing amount_total or customer_details, all
// resolve to not-found rather than degraded data.
func (s *Service) OrderDetails(ctx context.Context, paymentIntentID string) (*OrderDetails, error) {
	if paymentIntentID == "" {
		return nil, apperr.Validationf(`The "payment_intent" query parameter is required`)
	}

	o, err := s.orders.GetByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		s.logger.Printf("order store lookup failed for %s: %v", paymentIntentID, err)
	}
	if o != nil && o.Status == order.StatusCompleted {
		return &OrderDetails{
			OrderID:       o.OrderNumber,
			CustomerName:  o.CustomerName,
			CustomerEmail: o.CustomerEmail,
			Total:         o.Total,
		}, nil
	}

	sessions, err := s.stripe.ListSessionsByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	if len(sessions) != 1 {
		return nil, apperr.NotFoundf("No matching order found for the provided payment intent")
	}

	sess := sessions[0]
	if sess.AmountTotal == nil || sess.CustomerDetails == nil {
		return nil, apperr.NotFoundf("Order data is incomplete")
	}

	return &OrderDetails{
		OrderID:       sess.ID,
		CustomerName:  sess.CustomerDetails.Name,
		CustomerEmail: sess.CustomerDetails.Email,
		Total:         float64(*sess.AmountTotal) / 100,
	}, nil
}
