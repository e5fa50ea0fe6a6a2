package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func MustDialRabbit(url string) *amqp.Connection {
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Fatalf("connect to RabbitMQ: %v", err)
	}
	return conn
}

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare queues so publish never fails due to missing infra
	_, err = ch.QueueDeclare(PaymentSucceededQueue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare %s: %w", PaymentSucceededQueue, err)
	}
	_, err = ch.QueueDeclare(PaymentFailedQueue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare %s: %w", PaymentFailedQueue, err)
	}

	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishPaymentSucceeded(ctx context.Context, ev PaymentSucceeded) error {
	ev.EventType = "PaymentSucceeded"
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal PaymentSucceeded: %w", err)
	}
	return p.publishJSON(ctx, PaymentSucceededQueue, body)
}

func (p *Publisher) PublishPaymentFailed(ctx context.Context, ev PaymentFailed) error {
	ev.EventType = "PaymentFailed"
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal PaymentFailed: %w", err)
	}
	return p.publishJSON(ctx, PaymentFailedQueue, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		"",         // default exchange
		routingKey, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
