package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/r-mccarty/opticworks-store-sub001/internal/clients"
	"github.com/r-mccarty/opticworks-store-sub001/internal/events"
	"github.com/r-mccarty/opticworks-store-sub001/internal/order"
)

// HandleWebhookEvent dispatches a verified webhook event. Unhandled event
// types are logged and acknowledged so the vendor stops retrying them.
func (s *Service) HandleWebhookEvent(ctx context.Context, ev *clients.WebhookEvent) error {
	switch ev.Type {
	case "payment_intent.succeeded":
		var pi clients.WebhookPaymentIntent
		if err := json.Unmarshal(ev.Data.Object, &pi); err != nil {
			return fmt.Errorf("unmarshal payment_intent: %w", err)
		}
		return s.handlePaymentSucceeded(ctx, &pi)
	case "payment_intent.payment_failed":
		var pi clients.WebhookPaymentIntent
		if err := json.Unmarshal(ev.Data.Object, &pi); err != nil {
			return fmt.Errorf("unmarshal payment_intent: %w", err)
		}
		return s.handlePaymentFailed(ctx, &pi)
	case "customer.created":
		s.logger.Printf("new customer created (event %s)", ev.ID)
		return nil
	default:
		s.logger.Printf("unhandled event type: %s", ev.Type)
		return nil
	}
}

func (s *Service) handlePaymentSucceeded(ctx context.Context, pi *clients.WebhookPaymentIntent) error {
	email := s.resolveCustomerEmail(ctx, pi)
	name := s.resolveCustomerName(ctx, pi)
	total := float64(pi.Amount) / 100

	var items []order.Item
	if raw := pi.Metadata["items"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			s.logger.Printf("payment %s: bad items metadata: %v", pi.ID, err)
		}
	}
	subtotal := parseAmount(pi.Metadata["subtotal"])
	shippingCost := parseAmount(pi.Metadata["shipping"])
	taxAmount := parseAmount(pi.Metadata["tax"])

	o := &order.Order{
		PaymentIntentID: pi.ID,
		OrderNumber:     order.NewOrderNumber(s.now()),
		CustomerName:    name,
		CustomerEmail:   email,
		Subtotal:        subtotal,
		Shipping:        shippingCost,
		Tax:             taxAmount,
		Total:           total,
		Status:          order.StatusCompleted,
		Items:           items,
	}
	var addr events.ShippingAddress
	if pi.Shipping != nil && pi.Shipping.Address != nil {
		a := pi.Shipping.Address
		o.ShipLine1, o.ShipLine2 = a.Line1, a.Line2
		o.ShipCity, o.ShipState = a.City, a.State
		o.ShipPostalCode, o.ShipCountry = a.PostalCode, a.Country
		addr = events.ShippingAddress{
			Line1:      a.Line1,
			Line2:      a.Line2,
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}

	if err := s.orders.Upsert(ctx, o); err != nil {
		// The processor remains queryable for lookup, so a store failure
		// is logged rather than bounced back for a webhook retry.
		s.logger.Printf("payment %s: order upsert failed: %v", pi.ID, err)
	}

	if email == "" {
		s.logger.Printf("payment %s: no customer email found, skipping confirmation", pi.ID)
		return nil
	}

	evItems := make([]events.OrderItem, 0, len(items))
	for _, it := range items {
		evItems = append(evItems, events.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	if err := s.publisher.PublishPaymentSucceeded(ctx, events.PaymentSucceeded{
		PaymentIntentID: pi.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    name,
		CustomerEmail:   email,
		Subtotal:        subtotal,
		Shipping:        shippingCost,
		Tax:             taxAmount,
		Total:           total,
		Items:           evItems,
		ShippingAddress: addr,
	}); err != nil {
		return fmt.Errorf("publish payment.succeeded: %w", err)
	}

	s.logger.Printf("order %s processing complete for %s", o.OrderNumber, email)
	return nil
}

func (s *Service) handlePaymentFailed(ctx context.Context, pi *clients.WebhookPaymentIntent) error {
	email := s.resolveCustomerEmail(ctx, pi)
	if email == "" {
		s.logger.Printf("payment %s failed: no customer email, skipping notification", pi.ID)
		return nil
	}

	reason := "Payment could not be processed"
	if pi.LastPaymentError != nil && pi.LastPaymentError.Message != "" {
		reason = pi.LastPaymentError.Message
	}

	if err := s.publisher.PublishPaymentFailed(ctx, events.PaymentFailed{
		PaymentIntentID: pi.ID,
		CustomerEmail:   email,
		Amount:          float64(pi.Amount) / 100,
		Reason:          reason,
	}); err != nil {
		return fmt.Errorf("publish payment.failed: %w", err)
	}
	return nil
}

// resolveCustomerEmail tries receipt_email, then the customer record, then
// metadata, in that order.
func (s *Service) resolveCustomerEmail(ctx context.Context, pi *clients.WebhookPaymentIntent) string {
	if pi.ReceiptEmail != "" {
		return pi.ReceiptEmail
	}
	if pi.Customer != "" {
		if cust, err := s.stripe.GetCustomer(ctx, pi.Customer); err == nil && cust.Email != "" {
			return cust.Email
		}
	}
	return pi.Metadata["customer_email"]
}

func (s *Service) resolveCustomerName(ctx context.Context, pi *clients.WebhookPaymentIntent) string {
	if pi.Customer != "" {
		if cust, err := s.stripe.GetCustomer(ctx, pi.Customer); err == nil && cust.Name != "" {
			return cust.Name
		}
	}
	if pi.Shipping != nil && pi.Shipping.Name != "" {
		return pi.Shipping.Name
	}
	return "Customer"
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
