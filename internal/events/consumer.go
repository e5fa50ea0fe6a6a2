package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/r-mccarty/opticworks-store-sub001/internal/email"
)

// StartEmailConsumer consumes payment outcome events and sends the matching
// customer notification. Messages that fail to send are nacked without
// requeue so a bad payload cannot wedge the queue.
func StartEmailConsumer(ctx context.Context, conn *amqp.Connection, mailer *email.Service, logger *log.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	for _, queue := range []string{PaymentSucceededQueue, PaymentFailedQueue} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", queue, err)
		}
	}

	// Consumer tags are unique per channel, so each queue gets its own.
	succeeded, err := ch.Consume(PaymentSucceededQueue, "storefront-email-succeeded", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", PaymentSucceededQueue, err)
	}
	failed, err := ch.Consume(PaymentFailedQueue, "storefront-email-failed", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", PaymentFailedQueue, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Println("stopping email consumer")
				return
			case msg, ok := <-succeeded:
				if !ok {
					logger.Println("payment.succeeded channel closed")
					return
				}
				if err := handlePaymentSucceeded(ctx, mailer, msg.Body); err != nil {
					logger.Printf("handle payment.succeeded error: %v", err)
					_ = msg.Nack(false, false)
					continue
				}
				_ = msg.Ack(false)
			case msg, ok := <-failed:
				if !ok {
					logger.Println("payment.failed channel closed")
					return
				}
				if err := handlePaymentFailed(ctx, mailer, msg.Body); err != nil {
					logger.Printf("handle payment.failed error: %v", err)
					_ = msg.Nack(false, false)
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	return nil
}

func handlePaymentSucceeded(ctx context.Context, mailer *email.Service, body []byte) error {
	var ev PaymentSucceeded
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.CustomerEmail == "" {
		return fmt.Errorf("payment.succeeded %s: missing customer email", ev.PaymentIntentID)
	}

	items := make([]map[string]any, 0, len(ev.Items))
	for _, it := range ev.Items {
		items = append(items, map[string]any{
			"Name":     it.Name,
			"Quantity": it.Quantity,
			"Price":    it.Price,
		})
	}

	_, err := mailer.Send(ctx, email.Request{
		To:       ev.CustomerEmail,
		Subject:  fmt.Sprintf("Order Confirmation - %s", ev.OrderNumber),
		Template: email.TemplateOrderConfirmation,
		Data: map[string]any{
			"CustomerName": ev.CustomerName,
			"OrderNumber":  ev.OrderNumber,
			"Items":        items,
			"Subtotal":     ev.Subtotal,
			"Shipping":     ev.Shipping,
			"Tax":          ev.Tax,
			"Total":        ev.Total,
			"ShippingAddress": map[string]any{
				"Name":     ev.CustomerName,
				"Address1": ev.ShippingAddress.Line1,
				"Address2": ev.ShippingAddress.Line2,
				"City":     ev.ShippingAddress.City,
				"State":    ev.ShippingAddress.State,
				"ZipCode":  ev.ShippingAddress.PostalCode,
			},
		},
	})
	return err
}

func handlePaymentFailed(ctx context.Context, mailer *email.Service, body []byte) error {
	var ev PaymentFailed
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.CustomerEmail == "" {
		// Failed intents often have no email captured yet; nothing to send.
		return nil
	}

	_, err := mailer.Send(ctx, email.Request{
		To:       ev.CustomerEmail,
		Subject:  "Payment failed for your order",
		Template: email.TemplatePaymentFailed,
		Data: map[string]any{
			"CustomerName": "there",
			"OrderNumber":  ev.PaymentIntentID,
			"Amount":       ev.Amount,
			"RetryURL":     "",
		},
	})
	return err
}
