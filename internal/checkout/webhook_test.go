package checkout

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/r-mccarty/opticworks-store-sub001/internal/clients"
	"github.com/r-mccarty/opticworks-store-sub001/internal/order"
)

func webhookEvent(t *testing.T, eventType string, object string) *clients.WebhookEvent {
	t.Helper()
	ev := &clients.WebhookEvent{ID: "evt_1", Type: eventType}
	if err := json.Unmarshal([]byte(object), &ev.Data.Object); err != nil {
		t.Fatalf("bad test object: %v", err)
	}
	return ev
}

func TestWebhookPaymentSucceededWritesOrderAndPublishes(t *testing.T) {
	svc, repo, pub := newTestService(t, newFakeStripe(t))

	ev := webhookEvent(t, "payment_intent.succeeded", `{
		"id": "pi_hook",
		"amount": 12322,
		"receipt_email": "buyer@example.com",
		"metadata": {
			"subtotal": "99.98",
			"shipping": "15.99",
			"tax": "7.25",
			"items": "[{\"id\":\"cybershade-irx-model3\",\"name\":\"CyberShade IRX Model 3\",\"quantity\":2,\"price\":49.99}]"
		},
		"shipping": {
			"name": "Ada Buyer",
			"address": {"line1":"1 Market St","city":"San Francisco","state":"CA","postal_code":"94105","country":"US"}
		}
	}`)

	if err := svc.HandleWebhookEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleWebhookEvent: %v", err)
	}

	o, err := repo.GetByPaymentIntent(context.Background(), "pi_hook")
	if err != nil || o == nil {
		t.Fatalf("order not written: %v", err)
	}
	if o.Status != order.StatusCompleted {
		t.Fatalf("status = %q", o.Status)
	}
	if o.Subtotal != 99.98 || o.Shipping != 15.99 || o.Tax != 7.25 || o.Total != 123.22 {
		t.Fatalf("totals = %+v", o)
	}
	if len(o.Items) != 1 || o.Items[0].Quantity != 2 {
		t.Fatalf("items = %+v", o.Items)
	}
	if o.ShipState != "CA" {
		t.Fatalf("ship state = %q", o.ShipState)
	}

	if len(pub.succeeded) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.succeeded))
	}
	got := pub.succeeded[0]
	if got.CustomerEmail != "buyer@example.com" || got.CustomerName != "Ada Buyer" {
		t.Fatalf("event customer = %+v", got)
	}
	if got.OrderNumber != o.OrderNumber {
		t.Fatal("event order number does not match stored order")
	}
	if got.ShippingAddress.City != "San Francisco" {
		t.Fatalf("event address = %+v", got.ShippingAddress)
	}
}

func TestWebhookPaymentSucceededWithoutEmailSkipsNotification(t *testing.T) {
	svc, repo, pub := newTestService(t, newFakeStripe(t))

	ev := webhookEvent(t, "payment_intent.succeeded", `{"id":"pi_noemail","amount":5000,"metadata":{}}`)
	if err := svc.HandleWebhookEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleWebhookEvent: %v", err)
	}

	// Order is still recorded; only the email notification is skipped.
	o, _ := repo.GetByPaymentIntent(context.Background(), "pi_noemail")
	if o == nil {
		t.Fatal("order not written")
	}
	if len(pub.succeeded) != 0 {
		t.Fatal("event published without customer email")
	}
}

func TestWebhookPaymentFailedPublishesReason(t *testing.T) {
	svc, _, pub := newTestService(t, newFakeStripe(t))

	ev := webhookEvent(t, "payment_intent.payment_failed", `{
		"id": "pi_fail",
		"amount": 12322,
		"receipt_email": "buyer@example.com",
		"last_payment_error": {"message": "Your card has insufficient funds."}
	}`)
	if err := svc.HandleWebhookEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleWebhookEvent: %v", err)
	}

	if len(pub.failed) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.failed))
	}
	got := pub.failed[0]
	if got.Reason != "Your card has insufficient funds." {
		t.Fatalf("reason = %q", got.Reason)
	}
	if got.Amount != 123.22 {
		t.Fatalf("amount = %v", got.Amount)
	}
}

func TestWebhookPaymentFailedWithoutEmailIsAcknowledged(t *testing.T) {
	svc, _, pub := newTestService(t, newFakeStripe(t))

	ev := webhookEvent(t, "payment_intent.payment_failed", `{"id":"pi_fail","amount":100,"metadata":{}}`)
	if err := svc.HandleWebhookEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleWebhookEvent: %v", err)
	}
	if len(pub.failed) != 0 {
		t.Fatal("event published without customer email")
	}
}

func TestWebhookUnhandledEventTypeIsAcknowledged(t *testing.T) {
	svc, _, _ := newTestService(t, newFakeStripe(t))

	ev := webhookEvent(t, "charge.refunded", `{"id":"ch_1"}`)
	if err := svc.HandleWebhookEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleWebhookEvent: %v", err)
	}
}
